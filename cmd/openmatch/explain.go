package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"openmatch/internal/driver"
	"openmatch/internal/lint"
)

var explainCmd = &cobra.Command{
	Use:   "explain [flags] <snapshot.mp>",
	Short: "Show the verdict for every match in a snapshot",
	Long: `Walk a snapshot match by match and print the verdict along with the
value regions a sealed re-check would leave uncovered. Useful for
understanding why a particular match triggers the lint.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runExplain(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	color.NoColor = !useColor

	dec, results, err := driver.CheckSnapshot(cmd.Context(), args[0], maxDiagnostics, jobs, nil)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	triggeredLabel := color.New(color.FgYellow, color.Bold).Sprint("TRIGGERED")
	cleanLabel := color.New(color.FgGreen).Sprint("ok")
	abortedLabel := color.New(color.FgRed).Sprint("aborted")

	for i, r := range results {
		file := dec.Files.Get(r.Match.Span.File)
		start, _ := dec.Files.Resolve(r.Match.Span)
		loc := fmt.Sprintf("%s:%d:%d", file.FormatPath("relative", dec.Files.BaseDir()), start.Line, start.Col)

		switch r.Result.Verdict {
		case lint.LintTriggered:
			fmt.Fprintf(os.Stdout, "match %d %s %s\n", i, loc, triggeredLabel)
			for _, w := range r.Result.Missing {
				fmt.Fprintf(os.Stdout, "    would not cover: %s\n", w.Format(dec.Types, dec.Strings))
			}
		case lint.NoLintNeeded:
			fmt.Fprintf(os.Stdout, "match %d %s %s\n", i, loc, cleanLabel)
		case lint.InternalError:
			fmt.Fprintf(os.Stdout, "match %d %s %s: %v\n", i, loc, abortedLabel, r.Result.Err)
		}
	}

	s := driver.Summarize(results)
	fmt.Fprintf(os.Stdout, "%d matches: %d triggered, %d clean, %d aborted\n",
		s.Checked, s.Triggered, s.Clean, s.Aborted)
	return nil
}
