// Package muck implements the declaration-extraction and stub-synthesis
// engine behind cppmuck. It filters a parsed C++ declaration stream down to
// the public, project-owned functions matching a name prefix, deduplicates
// overload-equivalent declarations, and renders the survivors as minimal
// linkable stub definitions grouped by namespace.
package muck

import "fmt"

// DeclKind classifies a parsed function-like declaration.
type DeclKind int

const (
	// KindFunction is a free function at namespace or global scope.
	KindFunction DeclKind = iota
	// KindMethod is an ordinary (non-special) member function.
	KindMethod
	// KindConstructor is a class or struct constructor.
	KindConstructor
	// KindDestructor is a class or struct destructor.
	KindDestructor
	// KindFunctionTemplate is a function template at any scope.
	KindFunctionTemplate
)

// String returns a short human-readable kind name.
func (k DeclKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindDestructor:
		return "destructor"
	case KindFunctionTemplate:
		return "function_template"
	default:
		return "unknown"
	}
}

// Access is a C++ member access level.
type Access int

const (
	// AccessPublic covers public members and everything at namespace scope.
	AccessPublic Access = iota
	// AccessProtected covers protected members.
	AccessProtected
	// AccessPrivate covers private members.
	AccessPrivate
)

// ScopeKind classifies one link of an enclosing-scope chain.
type ScopeKind int

const (
	// ScopeNamespace is a namespace scope.
	ScopeNamespace ScopeKind = iota
	// ScopeClass is a class scope.
	ScopeClass
	// ScopeStruct is a struct scope.
	ScopeStruct
	// ScopeClassTemplate is a templated class or struct scope.
	ScopeClassTemplate
	// ScopeOther is any scope kind the resolver does not walk through
	// (lambdas, local scopes, linkage specs). It terminates resolution.
	ScopeOther
)

// IsClassLike reports whether the scope contributes to the class chain.
func (k ScopeKind) IsClassLike() bool {
	return k == ScopeClass || k == ScopeStruct || k == ScopeClassTemplate
}

// Scope is one link in a declaration's enclosing-scope chain, innermost
// first. Parent points outward; a nil Parent means the translation unit.
type Scope struct {
	Kind   ScopeKind
	Name   string
	Parent *Scope
}

// Param is a single declared parameter: resolved type spelling plus the
// (possibly empty) declared name.
type Param struct {
	Type string
	Name string
}

// Declaration is one function-like record produced by the frontend.
// It is a plain value: the engine never mutates it after construction.
type Declaration struct {
	Kind       DeclKind
	Name       string
	Scope      *Scope
	Params     []Param
	ReturnType string
	Access     Access
	Const      bool
	NoExcept   bool
	// IsDefinition is true when a body was present at the declaration site.
	IsDefinition bool
	// Defaulted and Deleted mark "= default" and "= delete" declarations.
	Defaulted bool
	Deleted   bool
	File      string
	Line      uint32
}

// Severity grades a frontend diagnostic, matching compiler semantics:
// Error and Fatal abort the run, Warning and Note do not.
type Severity int

const (
	// SeverityNote is informational.
	SeverityNote Severity = iota
	// SeverityWarning is surfaced but non-fatal.
	SeverityWarning
	// SeverityError makes the run fail.
	SeverityError
	// SeverityFatal makes the run fail.
	SeverityFatal
)

// String returns the severity label used in diagnostics output.
func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// IsFatal reports whether this severity aborts the run.
func (s Severity) IsFatal() bool {
	return s == SeverityError || s == SeverityFatal
}

// Diagnostic is a message emitted by the frontend while parsing.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     uint32
	Message  string
}

// String formats the diagnostic in compiler style: file:line: severity: msg.
func (d Diagnostic) String() string {
	switch {
	case d.File != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	case d.File != "":
		return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
	default:
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
}

// Frontend is the abstract AST-producing collaborator. Any front end that
// can parse C++ and expose function-like declarations satisfies the engine;
// the tree-sitter implementation lives in internal/extract.
type Frontend interface {
	// ParseDeclarations parses the translation unit rooted at sourceFile
	// using the given compile arguments and returns every function-like
	// declaration it finds, plus any diagnostics. A returned error is a
	// parse failure and fatal to the whole run.
	ParseDeclarations(sourceFile string, compileArgs []string) ([]Declaration, []Diagnostic, error)
}
