package muck

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultHeaderExt is the header extension assumed for the include
// directive when none is configured.
const DefaultHeaderExt = ".hpp"

// StubSet groups accepted signatures by their namespace chain, preserving
// first-seen order of both chains and signatures. The order affects only
// emission, not correctness.
type StubSet struct {
	order  []string
	groups map[string][]Signature
}

// NewStubSet builds a StubSet from deduplicated signatures.
func NewStubSet(sigs []Signature) *StubSet {
	set := &StubSet{groups: make(map[string][]Signature)}
	for _, sig := range sigs {
		set.add(sig)
	}
	return set
}

func (s *StubSet) add(sig Signature) {
	key := sig.Path.NamespaceKey()
	if _, seen := s.groups[key]; !seen {
		s.order = append(s.order, key)
	}
	s.groups[key] = append(s.groups[key], sig)
}

// Namespaces returns the namespace-chain keys in first-seen order.
func (s *StubSet) Namespaces() []string {
	return s.order
}

// Signatures returns the accepted signatures for one namespace chain.
func (s *StubSet) Signatures(namespace string) []Signature {
	return s.groups[namespace]
}

// Len returns the total number of accepted signatures.
func (s *StubSet) Len() int {
	n := 0
	for _, sigs := range s.groups {
		n += len(sigs)
	}
	return n
}

// All returns every accepted signature in emission order.
func (s *StubSet) All() []Signature {
	out := make([]Signature, 0, s.Len())
	for _, key := range s.order {
		out = append(out, s.groups[key]...)
	}
	return out
}

// Render serializes the stub set as UTF-8 C++ source: an include of the
// header corresponding to sourceFile, then one block of nested namespaces
// per distinct chain with blank-line-separated stub definitions inside.
// The emitted text is syntactically valid C++ by construction; semantic
// soundness of `return {};` for exotic return types is not checked here.
func Render(set *StubSet, sourceFile, headerExt string) string {
	if headerExt == "" {
		headerExt = DefaultHeaderExt
	}

	var b strings.Builder

	base := filepath.Base(sourceFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	fmt.Fprintf(&b, "#include %q\n\n", base+headerExt)

	for _, key := range set.Namespaces() {
		var chain []string
		if key != "" {
			chain = strings.Split(key, "::")
		}

		for _, ns := range chain {
			fmt.Fprintf(&b, "namespace %s {\n", ns)
		}
		if len(chain) > 0 {
			b.WriteString("\n")
		}

		for _, sig := range set.Signatures(key) {
			b.WriteString(RenderStub(sig))
			b.WriteString("\n\n")
		}

		for range chain {
			b.WriteString("}\n")
		}
	}

	return b.String()
}

// RenderStub renders one signature as a single-line stub definition.
// Non-void functions value-initialize their return type; this requires the
// type to be default-constructible (or a pointer/reference/fundamental
// type) and is a documented limitation, not something to infer around.
func RenderStub(sig Signature) string {
	var b strings.Builder

	if sig.Kind != KindConstructor && sig.Kind != KindDestructor {
		b.WriteString(sig.ReturnType)
		b.WriteString(" ")
	}
	b.WriteString(sig.QualifiedName())
	b.WriteString("(")
	b.WriteString(renderParams(sig.Params))
	b.WriteString(")")
	if sig.Const {
		b.WriteString(" const")
	}
	if sig.NoExcept {
		b.WriteString(" noexcept")
	}

	switch {
	case sig.Kind == KindConstructor || sig.Kind == KindDestructor:
		b.WriteString(" {}")
	case sig.ReturnType == "void":
		b.WriteString(" {}")
	default:
		b.WriteString(" { return {}; }")
	}

	return b.String()
}

// renderParams renders "<type> <name>" pairs joined by ", ". An unnamed
// parameter renders as its bare type, which is still valid C++ by position.
func renderParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, strings.TrimRight(p.Type+" "+p.Name, " "))
	}
	return strings.Join(parts, ", ")
}
