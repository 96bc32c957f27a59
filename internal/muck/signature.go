package muck

import "strings"

// Signature is the normalized, comparison-ready form of a declaration used
// for deduplication and rendering.
type Signature struct {
	Kind       DeclKind
	Name       string
	Path       ScopePath
	Params     []Param
	ReturnType string
	Const      bool
	NoExcept   bool
	File       string
	Line       uint32
}

// NewSignature derives a Signature from a declaration, resolving its scope
// chain. It is a pure transformation: parameter order is preserved and
// type spellings are taken as the frontend provided them. Constructors and
// destructors carry no return type.
func NewSignature(d Declaration) Signature {
	sig := Signature{
		Kind:     d.Kind,
		Name:     d.Name,
		Path:     ResolveScope(d.Scope),
		Params:   d.Params,
		Const:    d.Const,
		NoExcept: d.NoExcept,
		File:     d.File,
		Line:     d.Line,
	}
	if d.Kind != KindConstructor && d.Kind != KindDestructor {
		sig.ReturnType = d.ReturnType
	}
	return sig
}

// QualifiedName returns the fully qualified name: namespace chain, class
// chain, then the unqualified name, joined with "::" and with empty
// segments omitted. It depends only on the scope path and the name, never
// on parameter types.
func (s Signature) QualifiedName() string {
	parts := make([]string, 0, 3)
	if ns := s.Path.NamespaceKey(); ns != "" {
		parts = append(parts, ns)
	}
	if cls := s.Path.ClassKey(); cls != "" {
		parts = append(parts, cls)
	}
	parts = append(parts, s.Name)
	return strings.Join(parts, "::")
}

// Equivalent reports whether two signatures collapse to one stub: equal
// name, scope path, return type, and parameter-type multiset. Parameter
// names and order are deliberately ignored.
func (s Signature) Equivalent(other Signature) bool {
	if s.Name != other.Name || s.ReturnType != other.ReturnType {
		return false
	}
	if !s.Path.Equal(other.Path) {
		return false
	}
	return paramTypeCounts(s.Params).equal(paramTypeCounts(other.Params))
}

// CollidesWith reports whether two non-equivalent signatures share name,
// scope path, arity, and kind. Such pairs are genuine overloads (or an
// under-captured qualifier) and are flagged as conflicts.
func (s Signature) CollidesWith(other Signature) bool {
	return s.Kind == other.Kind &&
		s.Name == other.Name &&
		len(s.Params) == len(other.Params) &&
		s.Path.Equal(other.Path)
}

// String renders the signature in a compact single-line form for listings
// and conflict reports.
func (s Signature) String() string {
	var b strings.Builder
	if s.ReturnType != "" {
		b.WriteString(s.ReturnType)
		b.WriteString(" ")
	}
	b.WriteString(s.QualifiedName())
	b.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type)
	}
	b.WriteString(")")
	if s.Const {
		b.WriteString(" const")
	}
	if s.NoExcept {
		b.WriteString(" noexcept")
	}
	return b.String()
}

// typeCounts is a multiset of parameter type spellings.
type typeCounts map[string]int

func paramTypeCounts(params []Param) typeCounts {
	counts := make(typeCounts, len(params))
	for _, p := range params {
		counts[p.Type]++
	}
	return counts
}

func (c typeCounts) equal(other typeCounts) bool {
	if len(c) != len(other) {
		return false
	}
	for t, n := range c {
		if other[t] != n {
			return false
		}
	}
	return true
}
