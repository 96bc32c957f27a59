package cmd

import (
	"fmt"

	"github.com/hargabyte/cppmuck/internal/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize cppmuck configuration in a project",
	Long: `Create a .cppmuck directory with a default config.yaml in the given
directory (default: current directory). Fails if a config file already
exists; edit the existing one instead.`,
	Example: `  cppmuck init
  cppmuck init ~/src/myproject`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	workDir := "."
	if len(args) > 0 {
		workDir = args[0]
	}

	configFile, err := config.SaveDefault(workDir)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", configFile)
	fmt.Println("Edit it to set compile.build_dir and gen defaults for this project.")
	return nil
}
