package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"openmatch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "openmatch",
	Short: "Openness-aware match exhaustiveness checker",
	Long:  `openmatch checks compiler match snapshots for matches whose exhaustiveness silently depends on open-for-extension types`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
