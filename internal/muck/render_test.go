package muck

import (
	"strings"
	"testing"
)

func TestRenderStubConstNoexceptMethod(t *testing.T) {
	sig := NewSignature(Declaration{
		Kind: KindMethod, Name: "compute",
		Scope:      classScope([]string{"ns"}, "C"),
		ReturnType: "int",
		Params:     []Param{{Type: "int", Name: "x"}},
		Const:      true,
		NoExcept:   true,
	})

	want := "int ns::C::compute(int x) const noexcept { return {}; }"
	if got := RenderStub(sig); got != want {
		t.Errorf("RenderStub() = %q, want %q", got, want)
	}
}

func TestRenderStubVoidBody(t *testing.T) {
	sig := NewSignature(Declaration{
		Kind: KindMethod, Name: "reset",
		Scope:      classScope(nil, "C"),
		ReturnType: "void",
	})

	want := "void C::reset() {}"
	if got := RenderStub(sig); got != want {
		t.Errorf("RenderStub() = %q, want %q", got, want)
	}
}

func TestRenderStubConstructorDestructor(t *testing.T) {
	ctor := NewSignature(Declaration{
		Kind: KindConstructor, Name: "Widget",
		Scope:  classScope([]string{"ui"}, "Widget"),
		Params: []Param{{Type: "int", Name: "id"}},
	})
	dtor := NewSignature(Declaration{
		Kind: KindDestructor, Name: "~Widget",
		Scope: classScope([]string{"ui"}, "Widget"),
	})

	if got, want := RenderStub(ctor), "ui::Widget::Widget(int id) {}"; got != want {
		t.Errorf("constructor stub = %q, want %q", got, want)
	}
	if got, want := RenderStub(dtor), "ui::Widget::~Widget() {}"; got != want {
		t.Errorf("destructor stub = %q, want %q", got, want)
	}
}

func TestRenderStubUnnamedParam(t *testing.T) {
	sig := NewSignature(Declaration{
		Kind: KindFunction, Name: "handle",
		ReturnType: "bool",
		Params:     []Param{{Type: "const Event&"}},
	})

	want := "bool handle(const Event&) { return {}; }"
	if got := RenderStub(sig); got != want {
		t.Errorf("RenderStub() = %q, want %q", got, want)
	}
}

func TestRenderIncludeLine(t *testing.T) {
	set := NewStubSet(nil)

	out := Render(set, "/proj/src/widget.cpp", "")
	if !strings.HasPrefix(out, "#include \"widget.hpp\"\n") {
		t.Errorf("Render output starts with %q, want widget.hpp include", firstLine(out))
	}

	out = Render(set, "/proj/src/widget.cpp", ".h")
	if !strings.HasPrefix(out, "#include \"widget.h\"\n") {
		t.Errorf("Render output starts with %q, want widget.h include", firstLine(out))
	}
}

func TestRenderGroupsByNamespace(t *testing.T) {
	sigs := []Signature{
		NewSignature(Declaration{Kind: KindMethod, Name: "compute",
			Scope: classScope([]string{"ns"}, "C"), ReturnType: "int",
			Params: []Param{{Type: "int", Name: "x"}}, Const: true, NoExcept: true}),
		NewSignature(Declaration{Kind: KindFunction, Name: "helper",
			Scope: classScope([]string{"other", "deep"}), ReturnType: "void"}),
		NewSignature(Declaration{Kind: KindMethod, Name: "reset",
			Scope: classScope([]string{"ns"}, "C"), ReturnType: "void"}),
	}

	out := Render(NewStubSet(sigs), "widget.cpp", ".hpp")

	want := `#include "widget.hpp"

namespace ns {

int ns::C::compute(int x) const noexcept { return {}; }

void ns::C::reset() {}

}
namespace other {
namespace deep {

void other::deep::helper() {}

}
}
`
	if out != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderGlobalScopeNoNamespaceBlock(t *testing.T) {
	sigs := []Signature{
		NewSignature(Declaration{Kind: KindFunction, Name: "bare", ReturnType: "int"}),
	}

	out := Render(NewStubSet(sigs), "a.cpp", ".hpp")

	if strings.Contains(out, "namespace") {
		t.Errorf("global-scope stub must not open a namespace block:\n%s", out)
	}
	if !strings.Contains(out, "int bare() { return {}; }") {
		t.Errorf("missing global stub in:\n%s", out)
	}
}

func TestStubSetOrderIsFirstSeen(t *testing.T) {
	sigs := []Signature{
		NewSignature(Declaration{Kind: KindFunction, Name: "b", ReturnType: "void",
			Scope: classScope([]string{"zzz"})}),
		NewSignature(Declaration{Kind: KindFunction, Name: "a", ReturnType: "void",
			Scope: classScope([]string{"aaa"})}),
		NewSignature(Declaration{Kind: KindFunction, Name: "c", ReturnType: "void",
			Scope: classScope([]string{"zzz"})}),
	}

	set := NewStubSet(sigs)

	want := []string{"zzz", "aaa"}
	got := set.Namespaces()
	if len(got) != len(want) {
		t.Fatalf("Namespaces() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Namespaces()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if n := len(set.Signatures("zzz")); n != 2 {
		t.Errorf("zzz group has %d signatures, want 2", n)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
