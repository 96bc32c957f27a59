package cmd

import (
	"fmt"
	"os"

	"github.com/hargabyte/cppmuck/internal/config"
	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/pipeline"
)

// loadConfig loads configuration honoring the global --config override.
func loadConfig(workDir string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load(workDir)
}

// printDiagnostics writes parse diagnostics to stderr, worst first is not
// attempted; source order reads better next to the file.
func printDiagnostics(diags []muck.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s\n", d)
	}
}

// printConflicts warns about overload collisions that could not be told
// apart. Both signatures were kept in the output.
func printConflicts(conflicts []muck.Conflict) {
	for _, c := range conflicts {
		fmt.Fprintf(os.Stderr, "warning: overload conflict: %s\n", c)
	}
}

// reportResult surfaces diagnostics and conflicts and returns an error if
// the run produced a fatal diagnostic.
func reportResult(res *pipeline.Result) error {
	printDiagnostics(res.Diagnostics)
	if res.HasFatal() {
		return fmt.Errorf("parse failed: no output written")
	}
	printConflicts(res.Conflicts)
	return nil
}
