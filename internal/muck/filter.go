package muck

import (
	"path/filepath"
	"strings"
)

// FilterOptions controls declaration selection.
type FilterOptions struct {
	// Root is the absolute project root. Declarations from files outside
	// it (system and third-party headers) are excluded.
	Root string
	// Prefixes restricts selection to declarations whose fully qualified
	// name starts with at least one entry. Empty means list-only mode:
	// every otherwise-eligible declaration passes.
	Prefixes []string
	// RequireDefinition excludes bare declarations without a body. Off by
	// default so header-only declarations stay stubbable; see the config
	// key gen.require_definition.
	RequireDefinition bool
}

// Filter returns the ordered sub-sequence of declarations eligible for
// stubbing: lexically under the project root, of a stubbable kind, public,
// neither defaulted nor deleted, and matching the prefix set. It performs
// no I/O and never reorders its input.
func Filter(decls []Declaration, opts FilterOptions) []Declaration {
	var out []Declaration
	for _, d := range decls {
		if !eligible(d, opts) {
			continue
		}
		if len(opts.Prefixes) > 0 && !matchesPrefix(d, opts.Prefixes) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// eligible applies every criterion except prefix matching.
func eligible(d Declaration, opts FilterOptions) bool {
	if !underRoot(d.File, opts.Root) {
		return false
	}

	switch d.Kind {
	case KindConstructor, KindDestructor, KindMethod, KindFunction, KindFunctionTemplate:
	default:
		return false
	}

	// Free functions and namespace-scope templates carry AccessPublic from
	// the frontend; the check only bites for class and struct members.
	if d.Access != AccessPublic {
		return false
	}

	if d.Defaulted || d.Deleted {
		return false
	}

	if opts.RequireDefinition && !d.IsDefinition {
		return false
	}

	return true
}

// matchesPrefix reports whether the declaration's fully qualified name
// starts with any of the prefixes.
func matchesPrefix(d Declaration, prefixes []string) bool {
	qname := NewSignature(d).QualifiedName()
	for _, p := range prefixes {
		if strings.HasPrefix(qname, p) {
			return true
		}
	}
	return false
}

// underRoot reports whether path is lexically inside root. The comparison
// is purely lexical: both paths are cleaned, no symlinks are resolved.
func underRoot(path, root string) bool {
	if root == "" {
		return true
	}
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
