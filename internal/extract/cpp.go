// Package extract turns parsed C++ ASTs into the declaration records the
// stub engine consumes. It is the concrete AST-producing collaborator
// behind the muck.Frontend contract, built on tree-sitter.
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/parser"
)

// declExtractor walks one file's AST and collects function-like
// declarations with their lexical scope chains.
type declExtractor struct {
	result *parser.ParseResult
	file   string
	decls  []muck.Declaration
}

// extractDeclarations collects every function-like declaration from a
// parsed file. The walk is lexical: namespace and class nesting comes from
// the tree, out-of-class qualified definitions from the declarator name.
func extractDeclarations(result *parser.ParseResult, file string) []muck.Declaration {
	e := &declExtractor{result: result, file: file}
	e.walkContainer(result.Root, nil)
	return e.decls
}

// walkContainer walks the children of a scope-transparent container node:
// the translation unit, namespace bodies, linkage specifications, and
// preprocessor conditionals. Function bodies are never entered, so local
// declarations and lambdas stay invisible.
func (e *declExtractor) walkContainer(node *sitter.Node, scope *muck.Scope) {
	if node == nil {
		return
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		e.walkDecl(node.Child(int(i)), scope)
	}
}

// walkDecl dispatches one namespace-scope declaration node.
func (e *declExtractor) walkDecl(node *sitter.Node, scope *muck.Scope) {
	switch node.Type() {
	case "namespace_definition":
		e.walkNamespace(node, scope)
	case "class_specifier":
		e.walkClass(node, scope, muck.ScopeClass)
	case "struct_specifier":
		e.walkClass(node, scope, muck.ScopeStruct)
	case "template_declaration":
		e.walkTemplate(node, scope, muck.AccessPublic)
	case "function_definition":
		e.extractFunction(node, scope, muck.AccessPublic, true, false)
	case "declaration":
		if findFunctionDeclarator(node) != nil {
			e.extractFunction(node, scope, muck.AccessPublic, false, false)
		}
	case "linkage_specification":
		// extern "C" / extern "C++" blocks are scope-transparent.
		e.walkContainer(node.ChildByFieldName("body"), scope)
	case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif":
		e.walkContainer(node, scope)
	}
}

// walkNamespace pushes one scope link per namespace segment (nested
// namespace definitions like `namespace a::b` span several) and walks the
// body. An anonymous namespace contributes an empty-named link.
func (e *declExtractor) walkNamespace(node *sitter.Node, scope *muck.Scope) {
	name := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = e.nodeText(nameNode)
	}

	inner := scope
	if name == "" {
		inner = &muck.Scope{Kind: muck.ScopeNamespace, Parent: inner}
	} else {
		for _, segment := range strings.Split(name, "::") {
			inner = &muck.Scope{Kind: muck.ScopeNamespace, Name: segment, Parent: inner}
		}
	}

	e.walkContainer(node.ChildByFieldName("body"), inner)
}

// walkClass walks a class or struct definition body, tracking the current
// access level: private by default for classes, public for structs.
// Forward declarations (no body) are skipped.
func (e *declExtractor) walkClass(node *sitter.Node, scope *muck.Scope, kind muck.ScopeKind) {
	nameNode := findChildByType(node, "type_identifier")
	if nameNode == nil {
		// Anonymous class/struct.
		return
	}
	body := findChildByType(node, "field_declaration_list")
	if body == nil {
		return
	}

	inner := &muck.Scope{Kind: kind, Name: e.nodeText(nameNode), Parent: scope}

	access := muck.AccessPrivate
	if kind == muck.ScopeStruct {
		access = muck.AccessPublic
	}

	for i := uint32(0); i < body.ChildCount(); i++ {
		child := body.Child(int(i))
		switch child.Type() {
		case "access_specifier":
			access = accessFromSpecifier(e.nodeText(child), access)
		case "function_definition":
			e.extractFunction(child, inner, access, true, false)
		case "field_declaration", "declaration":
			if findFunctionDeclarator(child) != nil {
				e.extractFunction(child, inner, access, false, false)
			}
		case "template_declaration":
			e.walkTemplate(child, inner, access)
		case "class_specifier":
			e.walkClass(child, inner, muck.ScopeClass)
		case "struct_specifier":
			e.walkClass(child, inner, muck.ScopeStruct)
		}
	}
}

// walkTemplate handles template_declaration nodes: templated classes open
// a class-template scope, templated functions become function templates.
func (e *declExtractor) walkTemplate(node *sitter.Node, scope *muck.Scope, access muck.Access) {
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case "class_specifier", "struct_specifier":
			e.walkTemplateClass(child, scope)
		case "function_definition":
			e.extractFunction(child, scope, access, true, true)
		case "declaration", "field_declaration":
			if findFunctionDeclarator(child) != nil {
				e.extractFunction(child, scope, access, false, true)
			}
		}
	}
}

// walkTemplateClass is walkClass with a class-template scope kind.
func (e *declExtractor) walkTemplateClass(node *sitter.Node, scope *muck.Scope) {
	nameNode := findChildByType(node, "type_identifier")
	body := findChildByType(node, "field_declaration_list")
	if nameNode == nil || body == nil {
		return
	}

	inner := &muck.Scope{Kind: muck.ScopeClassTemplate, Name: e.nodeText(nameNode), Parent: scope}

	access := muck.AccessPrivate
	if node.Type() == "struct_specifier" {
		access = muck.AccessPublic
	}

	for i := uint32(0); i < body.ChildCount(); i++ {
		child := body.Child(int(i))
		switch child.Type() {
		case "access_specifier":
			access = accessFromSpecifier(e.nodeText(child), access)
		case "function_definition":
			e.extractFunction(child, inner, access, true, false)
		case "field_declaration", "declaration":
			if findFunctionDeclarator(child) != nil {
				e.extractFunction(child, inner, access, false, false)
			}
		case "template_declaration":
			e.walkTemplate(child, inner, access)
		}
	}
}

// extractFunction builds one muck.Declaration from a function_definition,
// declaration, or field_declaration node.
func (e *declExtractor) extractFunction(node *sitter.Node, scope *muck.Scope, access muck.Access, isDefinition, isTemplate bool) {
	declarator := findFunctionDeclarator(node)
	if declarator == nil {
		return
	}

	name, scope2, kind := e.resolveName(declarator, scope)
	if name == "" {
		return
	}
	if isTemplate && kind == muck.KindFunction {
		kind = muck.KindFunctionTemplate
	}

	d := muck.Declaration{
		Kind:         kind,
		Name:         name,
		Scope:        scope2,
		Params:       e.extractParameters(declarator),
		Access:       access,
		Const:        hasTrailingConst(declarator, e.result),
		NoExcept:     hasNoexcept(declarator),
		IsDefinition: isDefinition && findChildByType(node, "compound_statement") != nil,
		Defaulted:    findChildByType(node, "default_method_clause") != nil,
		Deleted:      findChildByType(node, "delete_method_clause") != nil,
		File:         e.file,
		Line:         node.StartPoint().Row + 1,
	}

	if kind != muck.KindConstructor && kind != muck.KindDestructor {
		d.ReturnType = e.extractReturnType(node)
	}

	e.decls = append(e.decls, d)
}

// resolveName extracts the declared name, classifies the declaration kind,
// and extends the scope chain for qualified out-of-class definitions like
// `void C::f() {}`. Qualifier segments are treated as class scopes; the
// enclosing namespaces come from the lexical walk.
func (e *declExtractor) resolveName(declarator *sitter.Node, scope *muck.Scope) (string, *muck.Scope, muck.DeclKind) {
	nameNode := findDeclaratorName(declarator)
	if nameNode == nil {
		return "", scope, muck.KindFunction
	}
	name := e.nodeText(nameNode)

	if strings.Contains(name, "::") {
		segments := strings.Split(name, "::")
		name = segments[len(segments)-1]
		for _, segment := range segments[:len(segments)-1] {
			scope = &muck.Scope{Kind: muck.ScopeClass, Name: segment, Parent: scope}
		}
	}

	kind := muck.KindFunction
	if scope != nil && scope.Kind.IsClassLike() {
		switch {
		case name == scope.Name:
			kind = muck.KindConstructor
		case strings.HasPrefix(name, "~"):
			kind = muck.KindDestructor
		default:
			kind = muck.KindMethod
		}
	}

	return name, scope, kind
}

// extractReturnType assembles the return type spelling from the type
// nodes preceding the declarator, plus pointer/reference markers from any
// declarators wrapping the function_declarator. A trailing return type
// (`auto f() -> long`) overrides the leading spelling entirely.
func (e *declExtractor) extractReturnType(node *sitter.Node) string {
	if declarator := findFunctionDeclarator(node); declarator != nil {
		if trailing := findChildByType(declarator, "trailing_return_type"); trailing != nil {
			return e.trailingReturnSpelling(trailing)
		}
	}

	var parts []string

	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case "primitive_type", "type_identifier", "sized_type_specifier",
			"qualified_identifier", "template_type", "auto",
			"class_specifier", "struct_specifier", "enum_specifier":
			parts = append(parts, e.nodeText(child))
		case "type_qualifier":
			parts = append(parts, e.nodeText(child))
		case "storage_class_specifier", "virtual", "virtual_specifier", "explicit_function_specifier":
			// static, extern, inline, virtual, explicit are not part of
			// the type spelling.
		}
	}

	spelling := strings.Join(parts, " ")
	if spelling == "" {
		spelling = "void"
	}

	// Pointer/reference returns wrap the function_declarator.
	if declNode := node.ChildByFieldName("declarator"); declNode != nil {
		spelling += declaratorMarkers(declNode, e.result)
	}

	return spelling
}

// trailingReturnSpelling reads the type after the arrow of a trailing
// return type, normalized the same way as parameter spellings.
func (e *declExtractor) trailingReturnSpelling(node *sitter.Node) string {
	spelling := strings.TrimSpace(strings.TrimPrefix(e.nodeText(node), "->"))
	spelling = strings.ReplaceAll(spelling, " *", "*")
	spelling = strings.ReplaceAll(spelling, " &", "&")
	return spelling
}

// extractParameters reads the parameter_list of a function_declarator in
// declared order. Unnamed parameters keep an empty name.
func (e *declExtractor) extractParameters(declarator *sitter.Node) []muck.Param {
	paramList := findChildByType(declarator, "parameter_list")
	if paramList == nil {
		return nil
	}

	var params []muck.Param
	for i := uint32(0); i < paramList.ChildCount(); i++ {
		child := paramList.Child(int(i))
		switch child.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			params = append(params, e.extractParameter(child))
		case "variadic_parameter_declaration":
			params = append(params, muck.Param{Type: "..."})
		}
	}
	return params
}

// extractParameter assembles one parameter's type spelling and name.
func (e *declExtractor) extractParameter(node *sitter.Node) muck.Param {
	var typeParts []string
	var name string

	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case "primitive_type", "type_identifier", "sized_type_specifier",
			"qualified_identifier", "template_type", "auto",
			"class_specifier", "struct_specifier", "enum_specifier":
			typeParts = append(typeParts, e.nodeText(child))
		case "type_qualifier":
			typeParts = append(typeParts, e.nodeText(child))
		case "identifier":
			name = e.nodeText(child)
		case "pointer_declarator", "reference_declarator",
			"abstract_pointer_declarator", "abstract_reference_declarator",
			"array_declarator", "abstract_array_declarator":
			if marker := declaratorMarkers(child, e.result); marker != "" {
				typeParts = append(typeParts, marker)
			}
			if idNode := findDescendantByType(child, "identifier"); idNode != nil {
				name = e.nodeText(idNode)
			}
		}
	}

	spelling := strings.Join(typeParts, " ")
	// Markers attach to the type without a separating space: "int *" and
	// "const std::string &" collapse to "int*" and "const std::string&".
	spelling = strings.ReplaceAll(spelling, " *", "*")
	spelling = strings.ReplaceAll(spelling, " &", "&")

	return muck.Param{Type: spelling, Name: name}
}

// nodeText returns the source text for a node.
func (e *declExtractor) nodeText(node *sitter.Node) string {
	return e.result.NodeText(node)
}

// Helpers shared by the walk.

// findFunctionDeclarator locates the function_declarator inside a
// declaration-like node, unwrapping pointer and reference declarators.
func findFunctionDeclarator(node *sitter.Node) *sitter.Node {
	var result *sitter.Node
	walkSubtree(node, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_declarator":
			result = n
			return false
		case "compound_statement", "parameter_list", "field_declaration_list":
			// Never descend into bodies, parameters, or nested types.
			return false
		}
		return true
	})
	return result
}

// findDeclaratorName locates the name node of a function_declarator.
func findDeclaratorName(declarator *sitter.Node) *sitter.Node {
	for i := uint32(0); i < declarator.ChildCount(); i++ {
		child := declarator.Child(int(i))
		switch child.Type() {
		case "identifier", "field_identifier", "qualified_identifier",
			"destructor_name", "operator_name":
			return child
		case "parameter_list":
			return nil
		}
	}
	return nil
}

// declaratorMarkers collects "*" and "&"/"&&" markers from declarators
// wrapping a function_declarator or a parameter name, outermost-first.
func declaratorMarkers(node *sitter.Node, result *parser.ParseResult) string {
	switch node.Type() {
	case "pointer_declarator", "abstract_pointer_declarator":
		inner := ""
		if d := node.ChildByFieldName("declarator"); d != nil {
			inner = declaratorMarkers(d, result)
		}
		return "*" + inner
	case "reference_declarator", "abstract_reference_declarator":
		marker := "&"
		if strings.HasPrefix(result.NodeText(node), "&&") {
			marker = "&&"
		}
		inner := ""
		if d := node.ChildByFieldName("declarator"); d != nil {
			inner = declaratorMarkers(d, result)
		}
		return marker + inner
	case "array_declarator", "abstract_array_declarator":
		// An array parameter adjusts to a pointer: int buf[10] is int*.
		inner := ""
		if d := node.ChildByFieldName("declarator"); d != nil {
			inner = declaratorMarkers(d, result)
		}
		return "*" + inner
	default:
		return ""
	}
}

// hasTrailingConst reports whether the function_declarator carries a
// trailing const qualifier (after the parameter list).
func hasTrailingConst(declarator *sitter.Node, result *parser.ParseResult) bool {
	for i := uint32(0); i < declarator.ChildCount(); i++ {
		child := declarator.Child(int(i))
		if child.Type() == "type_qualifier" && result.NodeText(child) == "const" {
			return true
		}
	}
	return false
}

// hasNoexcept reports whether the function_declarator carries a noexcept
// specifier.
func hasNoexcept(declarator *sitter.Node) bool {
	for i := uint32(0); i < declarator.ChildCount(); i++ {
		if declarator.Child(int(i)).Type() == "noexcept" {
			return true
		}
	}
	return false
}

// accessFromSpecifier maps an access_specifier's text to an access level,
// keeping the current one if the text is unrecognized.
func accessFromSpecifier(text string, current muck.Access) muck.Access {
	switch {
	case strings.Contains(text, "public"):
		return muck.AccessPublic
	case strings.Contains(text, "protected"):
		return muck.AccessProtected
	case strings.Contains(text, "private"):
		return muck.AccessPrivate
	default:
		return current
	}
}

// findChildByType returns the first direct child of the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// findDescendantByType returns the first descendant of the given type.
func findDescendantByType(node *sitter.Node, nodeType string) *sitter.Node {
	var result *sitter.Node
	walkSubtree(node, func(n *sitter.Node) bool {
		if n.Type() == nodeType {
			result = n
			return false
		}
		return true
	})
	return result
}

// walkSubtree walks node's subtree depth-first; the visitor returns false
// to prune.
func walkSubtree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if visitor(child) {
			walkSubtree(child, visitor)
		}
	}
}
