package cmd

import (
	"fmt"

	"github.com/hargabyte/cppmuck/internal/cache"
	"github.com/hargabyte/cppmuck/internal/config"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the compiler-probe cache",
	Long: `The cache in .cppmuck/cache.db stores compiler probe results (target
triple and system include paths per driver) and an index of parsed files.
Clearing it costs one probe per driver on the next run, nothing more.`,
	Example: `  cppmuck cache --stats
  cppmuck cache --clear`,
	RunE: runCache,
}

var (
	cacheStats bool
	cacheClear bool
)

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.Flags().BoolVar(&cacheStats, "stats", false, "Show cache statistics")
	cacheCmd.Flags().BoolVar(&cacheClear, "clear", false, "Remove all cached data")
}

func runCache(cmd *cobra.Command, args []string) error {
	if !cacheStats && !cacheClear {
		return fmt.Errorf("use --stats or --clear, or --help for usage")
	}

	configDir, err := config.FindConfigDir(".")
	if err != nil {
		return fmt.Errorf("cppmuck not initialized: run 'cppmuck init' first")
	}

	c, err := cache.Open(configDir)
	if err != nil {
		return err
	}
	defer c.Close()

	if cacheClear {
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared")
	}

	if cacheStats {
		stats, err := c.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("Cache: %s\n", c.Path())
		fmt.Printf("  Probed drivers: %d\n", stats.ProbeCount)
		fmt.Printf("  Indexed files:  %d\n", stats.FileIndexCount)
	}

	return nil
}
