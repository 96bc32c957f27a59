package cmd

import (
	"fmt"
	"os"

	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/pipeline"
	"github.com/spf13/cobra"
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen [flags] <filepath> [prefix...]",
	Short: "Generate stub definitions for a translation unit",
	Long: `Generate compilable stub definitions for the public functions, methods,
and constructors declared in (or included by) a translation unit.

The file must have an entry in compile_commands.json under the build
directory. Prefixes restrict output to fully qualified names starting with
one of them; with no prefix every public declaration under the project
root is stubbed.

Stubs are grouped by namespace, include the source header, and return a
value-initialized result so the output compiles as written.`,
	Example: `  cppmuck gen src/widget.cpp myapp::ui
  cppmuck gen -b cmake-build src/widget.cpp myapp::ui myapp::net
  cppmuck gen -o stubs.cpp --header-ext .h src/widget.cpp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGen,
}

var (
	genRoot       string
	genBuildDir   string
	genOutput     string
	genHeaderExt  string
	genRequireDef bool
	genNoCache    bool
)

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().StringVarP(&genRoot, "root", "r", ".", "Project root directory")
	genCmd.Flags().StringVarP(&genBuildDir, "build-dir", "b", "", "Compilation database directory (default from config, \"build\")")
	genCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Stub output path (default from config, \"out.cpp\")")
	genCmd.Flags().StringVar(&genHeaderExt, "header-ext", "", "Header extension for the generated #include (default from config, \".hpp\")")
	genCmd.Flags().BoolVar(&genRequireDef, "require-definition", false, "Only stub declarations that have a body in the parsed sources")
	genCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "Skip the compiler-probe cache for this run")
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(genRoot)
	if err != nil {
		return err
	}

	buildDir := genBuildDir
	if buildDir == "" {
		buildDir = cfg.Compile.BuildDir
	}
	output := genOutput
	if output == "" {
		output = cfg.Gen.Output
	}
	headerExt := genHeaderExt
	if headerExt == "" {
		headerExt = cfg.Gen.HeaderExt
	}
	requireDef := genRequireDef || cfg.Gen.RequireDefinition
	noCache := genNoCache || cfg.Cache.Disabled

	res, err := pipeline.Run(pipeline.Request{
		Root:              genRoot,
		BuildDir:          buildDir,
		SourceFile:        args[0],
		Prefixes:          args[1:],
		RequireDefinition: requireDef,
		StripArgs:         cfg.Compile.StripArgs,
		NoCache:           noCache,
	})
	if err != nil {
		return err
	}

	if err := reportResult(res); err != nil {
		return err
	}

	if verbose {
		for _, sig := range res.StubSet.All() {
			fmt.Fprintf(os.Stderr, "%s:%d %s\n", sig.File, sig.Line, sig.String())
		}
	}

	rendered := muck.Render(res.StubSet, res.SourceFile, headerExt)
	if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("writing stub file: %w", err)
	}

	fmt.Printf("Wrote %d stubs to %s\n", res.StubSet.Len(), output)
	return nil
}
