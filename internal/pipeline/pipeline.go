// Package pipeline wires the external collaborators to the stub engine:
// compile-command lookup, compiler probe, tree-sitter frontend, then the
// filter/dedup/render core. Both the CLI commands and the MCP server run
// the same pipeline.
package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/hargabyte/cppmuck/internal/cache"
	"github.com/hargabyte/cppmuck/internal/compdb"
	"github.com/hargabyte/cppmuck/internal/config"
	"github.com/hargabyte/cppmuck/internal/extract"
	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/toolchain"
)

// Request describes one pipeline run.
type Request struct {
	// Root is the project root path (made absolute here).
	Root string
	// BuildDir is the compilation database directory, relative to Root
	// unless absolute.
	BuildDir string
	// SourceFile is the translation unit, relative to Root unless absolute.
	SourceFile string
	// Prefixes are fully qualified name prefixes; empty means everything.
	Prefixes []string
	// RequireDefinition excludes bare declarations (gen.require_definition).
	RequireDefinition bool
	// StripArgs are extra compile arguments to drop (compile.strip_args).
	StripArgs []string
	// NoCache disables the probe/file-index cache for this run.
	NoCache bool
}

// Result is a completed pipeline run. When Diagnostics contains a fatal
// entry, StubSet is nil and no output must be produced.
type Result struct {
	StubSet     *muck.StubSet
	Conflicts   []muck.Conflict
	Diagnostics []muck.Diagnostic
	// Root and SourceFile are the resolved absolute paths.
	Root       string
	SourceFile string
}

// HasFatal reports whether any diagnostic aborts the run.
func (r *Result) HasFatal() bool {
	for _, d := range r.Diagnostics {
		if d.Severity.IsFatal() {
			return true
		}
	}
	return false
}

// Run executes the full pipeline. Environment errors (missing compilation
// database, missing entry, failed probe) and parse failures are returned
// as errors; parse diagnostics are returned in the Result for the caller
// to surface.
func Run(req Request) (*Result, error) {
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	buildDir := req.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(root, buildDir)
	}
	sourceFile := req.SourceFile
	if !filepath.IsAbs(sourceFile) {
		sourceFile = filepath.Join(root, sourceFile)
	}

	db, err := compdb.Load(buildDir)
	if err != nil {
		return nil, err
	}

	command, err := db.Lookup(sourceFile)
	if err != nil {
		return nil, err
	}

	argv, err := compdb.Normalize(command, req.StripArgs)
	if err != nil {
		return nil, err
	}

	var probeCache *cache.Cache
	if !req.NoCache {
		// A cache failure is never worth failing the run over; fall back
		// to probing the compiler directly.
		if configDir, cerr := config.EnsureConfigDir(root); cerr == nil {
			if c, cerr := cache.Open(configDir); cerr == nil {
				probeCache = c
				defer probeCache.Close()
			}
		}
	}

	driver := argv[0]
	probeArgs, err := toolchain.ProbeCached(driver, probeCacheOrNil(probeCache))
	if err != nil {
		return nil, err
	}

	compileArgs := append(argv[1:], probeArgs...)

	frontend := extract.NewFrontend(root)
	if probeCache != nil {
		frontend.SetFileIndex(probeCache)
	}

	decls, diags, err := frontend.ParseDeclarations(sourceFile, compileArgs)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Diagnostics: diags,
		Root:        root,
		SourceFile:  sourceFile,
	}
	if result.HasFatal() {
		return result, nil
	}

	set, conflicts := muck.Run(root, decls, req.Prefixes, muck.Options{
		RequireDefinition: req.RequireDefinition,
	})
	result.StubSet = set
	result.Conflicts = conflicts

	return result, nil
}

// probeCacheOrNil converts a possibly-nil *cache.Cache into the interface
// without wrapping a typed nil.
func probeCacheOrNil(c *cache.Cache) toolchain.ProbeCache {
	if c == nil {
		return nil
	}
	return c
}
