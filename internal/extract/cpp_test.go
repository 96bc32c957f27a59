package extract

import (
	"testing"

	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/parser"
)

// parseDecls parses C++ source and extracts its declarations.
func parseDecls(t *testing.T, source string) []muck.Declaration {
	t.Helper()

	p := parser.New()
	defer p.Close()

	result, err := p.Parse([]byte(source))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	defer result.Close()

	return extractDeclarations(result, "test.cpp")
}

// findDecl returns the first declaration with the given name.
func findDecl(t *testing.T, decls []muck.Declaration, name string) muck.Declaration {
	t.Helper()
	for _, d := range decls {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("declaration %q not found in %d extracted declarations", name, len(decls))
	return muck.Declaration{}
}

func TestExtractFreeFunction(t *testing.T) {
	decls := parseDecls(t, `
int add(int a, int b) { return a + b; }
`)

	d := findDecl(t, decls, "add")
	if d.Kind != muck.KindFunction {
		t.Errorf("Kind = %v, want function", d.Kind)
	}
	if d.ReturnType != "int" {
		t.Errorf("ReturnType = %q, want int", d.ReturnType)
	}
	if !d.IsDefinition {
		t.Error("function with a body should be a definition")
	}
	if len(d.Params) != 2 || d.Params[0].Type != "int" || d.Params[0].Name != "a" {
		t.Errorf("Params = %v, want [int a, int b]", d.Params)
	}
}

func TestExtractBareDeclaration(t *testing.T) {
	decls := parseDecls(t, `
void shutdown();
`)

	d := findDecl(t, decls, "shutdown")
	if d.IsDefinition {
		t.Error("bare declaration should not be a definition")
	}
	if d.ReturnType != "void" {
		t.Errorf("ReturnType = %q, want void", d.ReturnType)
	}
}

func TestExtractNamespaceNesting(t *testing.T) {
	decls := parseDecls(t, `
namespace a {
namespace b {
void f();
}
}
`)

	d := findDecl(t, decls, "f")
	path := muck.ResolveScope(d.Scope)
	if got := path.NamespaceKey(); got != "a::b" {
		t.Errorf("NamespaceKey() = %q, want a::b", got)
	}
}

func TestExtractNestedNamespaceDefinition(t *testing.T) {
	decls := parseDecls(t, `
namespace c::d {
void g();
}
`)

	d := findDecl(t, decls, "g")
	path := muck.ResolveScope(d.Scope)
	if got := path.NamespaceKey(); got != "c::d" {
		t.Errorf("NamespaceKey() = %q, want c::d", got)
	}
}

func TestExtractClassAccessTracking(t *testing.T) {
	decls := parseDecls(t, `
class C {
	void hidden();
public:
	void visible();
protected:
	void guarded();
};
`)

	if d := findDecl(t, decls, "hidden"); d.Access != muck.AccessPrivate {
		t.Errorf("hidden Access = %v, want private (class default)", d.Access)
	}
	if d := findDecl(t, decls, "visible"); d.Access != muck.AccessPublic {
		t.Errorf("visible Access = %v, want public", d.Access)
	}
	if d := findDecl(t, decls, "guarded"); d.Access != muck.AccessProtected {
		t.Errorf("guarded Access = %v, want protected", d.Access)
	}
}

func TestExtractStructDefaultsPublic(t *testing.T) {
	decls := parseDecls(t, `
struct S {
	void open();
};
`)

	d := findDecl(t, decls, "open")
	if d.Access != muck.AccessPublic {
		t.Errorf("Access = %v, want public (struct default)", d.Access)
	}
	if d.Kind != muck.KindMethod {
		t.Errorf("Kind = %v, want method", d.Kind)
	}
	path := muck.ResolveScope(d.Scope)
	if got := path.ClassKey(); got != "S" {
		t.Errorf("ClassKey() = %q, want S", got)
	}
}

func TestExtractConstructorAndDestructor(t *testing.T) {
	decls := parseDecls(t, `
class Widget {
public:
	Widget(int id);
	~Widget();
};
`)

	ctor := findDecl(t, decls, "Widget")
	if ctor.Kind != muck.KindConstructor {
		t.Errorf("Widget Kind = %v, want constructor", ctor.Kind)
	}
	if len(ctor.Params) != 1 || ctor.Params[0].Type != "int" {
		t.Errorf("constructor Params = %v, want [int id]", ctor.Params)
	}

	dtor := findDecl(t, decls, "~Widget")
	if dtor.Kind != muck.KindDestructor {
		t.Errorf("~Widget Kind = %v, want destructor", dtor.Kind)
	}
}

func TestExtractConstNoexcept(t *testing.T) {
	decls := parseDecls(t, `
namespace ns {
class C {
public:
	int compute(int x) const noexcept;
	void mutate();
};
}
`)

	compute := findDecl(t, decls, "compute")
	if !compute.Const {
		t.Error("compute should be const")
	}
	if !compute.NoExcept {
		t.Error("compute should be noexcept")
	}

	mutate := findDecl(t, decls, "mutate")
	if mutate.Const || mutate.NoExcept {
		t.Error("mutate should be neither const nor noexcept")
	}
}

func TestExtractDefaultedAndDeleted(t *testing.T) {
	decls := parseDecls(t, `
class C {
public:
	C() = default;
	C(const C&) = delete;
	void normal();
};
`)

	var defaulted, deleted int
	for _, d := range decls {
		if d.Defaulted {
			defaulted++
		}
		if d.Deleted {
			deleted++
		}
	}
	if defaulted != 1 {
		t.Errorf("found %d defaulted declarations, want 1", defaulted)
	}
	if deleted != 1 {
		t.Errorf("found %d deleted declarations, want 1", deleted)
	}

	if d := findDecl(t, decls, "normal"); d.Defaulted || d.Deleted {
		t.Error("normal should be neither defaulted nor deleted")
	}
}

func TestExtractQualifiedDefinition(t *testing.T) {
	decls := parseDecls(t, `
void C::reset() {}
`)

	d := findDecl(t, decls, "reset")
	if d.Kind != muck.KindMethod {
		t.Errorf("Kind = %v, want method", d.Kind)
	}
	path := muck.ResolveScope(d.Scope)
	if got := path.ClassKey(); got != "C" {
		t.Errorf("ClassKey() = %q, want C", got)
	}
	if !d.IsDefinition {
		t.Error("out-of-class definition should be a definition")
	}
}

func TestExtractPointerAndReferenceParams(t *testing.T) {
	decls := parseDecls(t, `
void store(const std::string& name, int* out);
`)

	d := findDecl(t, decls, "store")
	if len(d.Params) != 2 {
		t.Fatalf("Params = %v, want 2 entries", d.Params)
	}
	if d.Params[0].Type != "const std::string&" {
		t.Errorf("param 0 type = %q, want const std::string&", d.Params[0].Type)
	}
	if d.Params[0].Name != "name" {
		t.Errorf("param 0 name = %q, want name", d.Params[0].Name)
	}
	if d.Params[1].Type != "int*" {
		t.Errorf("param 1 type = %q, want int*", d.Params[1].Type)
	}
}

func TestExtractArrayParameterAdjustsToPointer(t *testing.T) {
	decls := parseDecls(t, `
void fill(int buf[10], char* msg, double window[]);
`)

	d := findDecl(t, decls, "fill")
	if len(d.Params) != 3 {
		t.Fatalf("Params = %v, want 3 entries", d.Params)
	}
	if d.Params[0].Type != "int*" {
		t.Errorf("param 0 type = %q, want int* (array-to-pointer adjustment)", d.Params[0].Type)
	}
	if d.Params[0].Name != "buf" {
		t.Errorf("param 0 name = %q, want buf", d.Params[0].Name)
	}
	if d.Params[1].Type != "char*" {
		t.Errorf("param 1 type = %q, want char*", d.Params[1].Type)
	}
	if d.Params[2].Type != "double*" {
		t.Errorf("param 2 type = %q, want double* (unsized array)", d.Params[2].Type)
	}

	// The adjusted spelling must deduplicate against the equivalent
	// pointer form of the same function.
	pointerForm := parseDecls(t, `
void fill(int* buf, char* msg, double* window);
`)
	if !muck.NewSignature(d).Equivalent(muck.NewSignature(findDecl(t, pointerForm, "fill"))) {
		t.Error("array and pointer spellings of the same parameter must be equivalent")
	}
}

func TestExtractTrailingReturnType(t *testing.T) {
	decls := parseDecls(t, `
auto make_id() -> long;
`)

	d := findDecl(t, decls, "make_id")
	if d.ReturnType != "long" {
		t.Errorf("ReturnType = %q, want long", d.ReturnType)
	}
}

func TestExtractTrailingReturnTypeInClass(t *testing.T) {
	decls := parseDecls(t, `
class C {
public:
	auto name() const -> const std::string&;
	auto count() noexcept -> int { return 0; }
};
`)

	name := findDecl(t, decls, "name")
	if name.ReturnType != "const std::string&" {
		t.Errorf("name ReturnType = %q, want const std::string&", name.ReturnType)
	}
	if !name.Const {
		t.Error("name should be const")
	}

	count := findDecl(t, decls, "count")
	if count.ReturnType != "int" {
		t.Errorf("count ReturnType = %q, want int", count.ReturnType)
	}
	if !count.NoExcept {
		t.Error("count should be noexcept")
	}
}

func TestExtractPointerReturn(t *testing.T) {
	decls := parseDecls(t, `
char* duplicate(const char* s);
`)

	d := findDecl(t, decls, "duplicate")
	if d.ReturnType != "char*" {
		t.Errorf("ReturnType = %q, want char*", d.ReturnType)
	}
}

func TestExtractFunctionTemplate(t *testing.T) {
	decls := parseDecls(t, `
template <typename T>
T biggest(T a, T b) { return a > b ? a : b; }
`)

	d := findDecl(t, decls, "biggest")
	if d.Kind != muck.KindFunctionTemplate {
		t.Errorf("Kind = %v, want function template", d.Kind)
	}
	if d.ReturnType != "T" {
		t.Errorf("ReturnType = %q, want T", d.ReturnType)
	}
}

func TestExtractTemplateClassMethods(t *testing.T) {
	decls := parseDecls(t, `
template <typename T>
class Box {
public:
	void put(T value);
};
`)

	d := findDecl(t, decls, "put")
	if d.Kind != muck.KindMethod {
		t.Errorf("Kind = %v, want method", d.Kind)
	}
	path := muck.ResolveScope(d.Scope)
	if got := path.ClassKey(); got != "Box" {
		t.Errorf("ClassKey() = %q, want Box", got)
	}
}

func TestExtractSkipsFunctionBodies(t *testing.T) {
	decls := parseDecls(t, `
void outer() {
	auto lambda = [](int x) { return x; };
	struct Local { void inner(); };
}
`)

	for _, d := range decls {
		if d.Name == "inner" {
			t.Error("declarations inside function bodies must be invisible")
		}
	}
	findDecl(t, decls, "outer")
}

func TestExtractAnonymousNamespace(t *testing.T) {
	decls := parseDecls(t, `
namespace {
void internal_only();
}
`)

	d := findDecl(t, decls, "internal_only")
	path := muck.ResolveScope(d.Scope)
	if got := path.NamespaceKey(); got != "" {
		t.Errorf("NamespaceKey() = %q, want empty for anonymous namespace", got)
	}
	if len(path.Namespaces) != 1 {
		t.Errorf("anonymous namespace should still contribute one chain entry, got %d", len(path.Namespaces))
	}
}
