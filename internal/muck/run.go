package muck

// Options configures a pipeline run.
type Options struct {
	// RequireDefinition excludes bare declarations; see FilterOptions.
	RequireDefinition bool
}

// Run executes the filter → resolve → normalize → dedup pipeline over an
// already-parsed declaration stream and returns the grouped stub set plus
// any conflict warnings. The input is consumed once, results are built
// fresh on every call, and nothing is accumulated in package state, so
// running twice over the same stream yields identical output.
func Run(root string, decls []Declaration, prefixes []string, opts Options) (*StubSet, []Conflict) {
	filtered := Filter(decls, FilterOptions{
		Root:              root,
		Prefixes:          prefixes,
		RequireDefinition: opts.RequireDefinition,
	})

	sigs := make([]Signature, 0, len(filtered))
	for _, d := range filtered {
		sigs = append(sigs, NewSignature(d))
	}

	accepted, conflicts := Dedup(sigs)
	return NewStubSet(accepted), conflicts
}
