package muck

import "testing"

func publicFn(name, file string) Declaration {
	return Declaration{Kind: KindFunction, Name: name, Access: AccessPublic,
		ReturnType: "void", File: file}
}

func TestFilterExcludesOutsideRoot(t *testing.T) {
	decls := []Declaration{
		publicFn("inside", "/proj/src/a.cpp"),
		publicFn("outside", "/usr/include/vector"),
		publicFn("sibling", "/proj-other/src/b.cpp"),
	}

	got := Filter(decls, FilterOptions{Root: "/proj"})

	if len(got) != 1 || got[0].Name != "inside" {
		t.Fatalf("Filter kept %v, want only \"inside\"", names(got))
	}
}

func TestFilterExcludesNonPublic(t *testing.T) {
	decls := []Declaration{
		{Kind: KindMethod, Name: "pub", Access: AccessPublic, File: "/p/a.cpp"},
		{Kind: KindMethod, Name: "prot", Access: AccessProtected, File: "/p/a.cpp"},
		{Kind: KindMethod, Name: "priv", Access: AccessPrivate, File: "/p/a.cpp"},
	}

	got := Filter(decls, FilterOptions{Root: "/p"})

	if len(got) != 1 || got[0].Name != "pub" {
		t.Fatalf("Filter kept %v, want only \"pub\"", names(got))
	}
}

func TestFilterExcludesDefaultedAndDeleted(t *testing.T) {
	decls := []Declaration{
		{Kind: KindConstructor, Name: "C", Access: AccessPublic, File: "/p/a.cpp"},
		{Kind: KindConstructor, Name: "C", Access: AccessPublic, File: "/p/a.cpp", Defaulted: true},
		{Kind: KindConstructor, Name: "C", Access: AccessPublic, File: "/p/a.cpp", Deleted: true},
	}

	got := Filter(decls, FilterOptions{Root: "/p"})

	if len(got) != 1 {
		t.Fatalf("Filter kept %d declarations, want 1", len(got))
	}
}

func TestFilterPrefixes(t *testing.T) {
	decls := []Declaration{
		{Kind: KindFunction, Name: "open", Access: AccessPublic, File: "/p/a.cpp",
			Scope: classScope([]string{"app", "io"})},
		{Kind: KindFunction, Name: "draw", Access: AccessPublic, File: "/p/a.cpp",
			Scope: classScope([]string{"app", "ui"})},
		{Kind: KindFunction, Name: "free_standing", Access: AccessPublic, File: "/p/a.cpp"},
	}

	got := Filter(decls, FilterOptions{Root: "/p", Prefixes: []string{"app::io", "free_"}})

	want := []string{"open", "free_standing"}
	if len(got) != len(want) {
		t.Fatalf("Filter kept %v, want %v", names(got), want)
	}
	for i, n := range want {
		if got[i].Name != n {
			t.Errorf("Filter[%d] = %q, want %q", i, got[i].Name, n)
		}
	}
}

func TestFilterEmptyPrefixesKeepsAll(t *testing.T) {
	decls := []Declaration{
		publicFn("a", "/p/a.cpp"),
		publicFn("b", "/p/b.cpp"),
	}

	got := Filter(decls, FilterOptions{Root: "/p"})

	if len(got) != 2 {
		t.Fatalf("Filter kept %d declarations, want 2", len(got))
	}
}

func TestFilterRequireDefinition(t *testing.T) {
	withBody := publicFn("defined", "/p/a.cpp")
	withBody.IsDefinition = true
	bare := publicFn("declared", "/p/a.hpp")

	decls := []Declaration{withBody, bare}

	got := Filter(decls, FilterOptions{Root: "/p", RequireDefinition: true})
	if len(got) != 1 || got[0].Name != "defined" {
		t.Fatalf("Filter kept %v, want only \"defined\"", names(got))
	}

	// Default: bare declarations stay.
	got = Filter(decls, FilterOptions{Root: "/p"})
	if len(got) != 2 {
		t.Fatalf("Filter kept %d declarations, want 2 without RequireDefinition", len(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	decls := []Declaration{
		publicFn("z", "/p/a.cpp"),
		publicFn("a", "/p/a.cpp"),
		publicFn("m", "/p/a.cpp"),
	}

	got := Filter(decls, FilterOptions{Root: "/p"})

	want := []string{"z", "a", "m"}
	for i, n := range want {
		if got[i].Name != n {
			t.Errorf("Filter[%d] = %q, want %q: input order must be preserved", i, got[i].Name, n)
		}
	}
}

func names(decls []Declaration) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Name
	}
	return out
}
