package cmd

import (
	"fmt"

	"github.com/hargabyte/cppmuck/internal/pipeline"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [flags] <filepath> [prefix...]",
	Short: "List the signatures that would be stubbed",
	Long: `Run the full pipeline for a translation unit but print the accepted
signatures instead of writing a stub file. One line per signature:

  <file>:<line>  <signature>

Useful for checking what a prefix matches before generating.`,
	Example: `  cppmuck list src/widget.cpp
  cppmuck list src/widget.cpp myapp::ui`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

var (
	listRoot       string
	listBuildDir   string
	listRequireDef bool
	listNoCache    bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listRoot, "root", "r", ".", "Project root directory")
	listCmd.Flags().StringVarP(&listBuildDir, "build-dir", "b", "", "Compilation database directory (default from config, \"build\")")
	listCmd.Flags().BoolVar(&listRequireDef, "require-definition", false, "Only list declarations that have a body in the parsed sources")
	listCmd.Flags().BoolVar(&listNoCache, "no-cache", false, "Skip the compiler-probe cache for this run")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(listRoot)
	if err != nil {
		return err
	}

	buildDir := listBuildDir
	if buildDir == "" {
		buildDir = cfg.Compile.BuildDir
	}

	res, err := pipeline.Run(pipeline.Request{
		Root:              listRoot,
		BuildDir:          buildDir,
		SourceFile:        args[0],
		Prefixes:          args[1:],
		RequireDefinition: listRequireDef || cfg.Gen.RequireDefinition,
		StripArgs:         cfg.Compile.StripArgs,
		NoCache:           listNoCache || cfg.Cache.Disabled,
	})
	if err != nil {
		return err
	}

	if err := reportResult(res); err != nil {
		return err
	}

	for _, sig := range res.StubSet.All() {
		fmt.Printf("%s:%d  %s\n", sig.File, sig.Line, sig.String())
	}
	return nil
}
