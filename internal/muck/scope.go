package muck

import "strings"

// ScopePath is a declaration's resolved enclosing scopes: the class/struct
// nesting chain and the namespace nesting chain, both outermost-first.
type ScopePath struct {
	Classes    []string
	Namespaces []string
}

// ResolveScope walks a declaration's enclosing-scope chain outward and
// classifies each link. Class-like scopes always join the class chain.
// Namespace scopes join the namespace chain as long as the walk is still
// inside recognized scopes; the first unrecognized ancestor (a lambda, a
// local scope) terminates the walk entirely, so namespaces above it are
// never collected. Entries are prepended as the walk proceeds outward,
// which leaves both chains ordered outermost-first.
func ResolveScope(scope *Scope) ScopePath {
	var path ScopePath

	for s := scope; s != nil; s = s.Parent {
		switch {
		case s.Kind.IsClassLike():
			path.Classes = append([]string{s.Name}, path.Classes...)
		case s.Kind == ScopeNamespace:
			path.Namespaces = append([]string{s.Name}, path.Namespaces...)
		default:
			return path
		}
	}

	return path
}

// Equal reports whether two scope paths have identical chains.
func (p ScopePath) Equal(other ScopePath) bool {
	if len(p.Classes) != len(other.Classes) || len(p.Namespaces) != len(other.Namespaces) {
		return false
	}
	for i := range p.Classes {
		if p.Classes[i] != other.Classes[i] {
			return false
		}
	}
	for i := range p.Namespaces {
		if p.Namespaces[i] != other.Namespaces[i] {
			return false
		}
	}
	return true
}

// NamespaceKey returns the namespace chain joined with "::". Anonymous
// namespaces contribute empty segments, which are dropped.
func (p ScopePath) NamespaceKey() string {
	return joinNonEmpty(p.Namespaces)
}

// ClassKey returns the class chain joined with "::".
func (p ScopePath) ClassKey() string {
	return joinNonEmpty(p.Classes)
}

// joinNonEmpty joins the non-empty segments with "::".
func joinNonEmpty(segments []string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "::")
}
