package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"openmatch/internal/diag"
	"openmatch/internal/diagfmt"
	"openmatch/internal/driver"
	"openmatch/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [snapshot.mp|directory]",
	Short: "Check match snapshots for openness-dependent exhaustiveness",
	Long: `Check every match expression in the given snapshot (or all *.mp
snapshots within a directory) and report matches that would stop being
exhaustive if their open types were sealed at the currently-known
variant and field sets. Without an argument the snapshot is resolved
from the nearest openmatch.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include missing-pattern notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("fail-on-lint", false, "exit non-zero when any match triggers the lint")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	failOnLint, err := cmd.Flags().GetBool("fail-on-lint")
	if err != nil {
		return fmt.Errorf("failed to get fail-on-lint flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	target, manifest, err := resolveCheckTarget(args)
	if err != nil {
		return err
	}
	if manifest != nil {
		if !cmd.Flags().Changed("format") && manifest.Config.Check.Format != "" {
			format = manifest.Config.Check.Format
		}
		if !cmd.Flags().Changed("jobs") && manifest.Config.Check.Jobs > 0 {
			jobs = manifest.Config.Check.Jobs
		}
	}

	switch format {
	case "pretty", "json", "short":
		// supported
	default:
		return fmt.Errorf("unknown format value: %s", format)
	}
	paths, err := listSnapshots(target)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no *.mp snapshots found at %s", target)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	triggered := 0
	for _, path := range paths {
		var timer *observ.Timer
		if showTimings {
			timer = observ.NewTimer()
		}

		dec, results, err := driver.CheckSnapshot(cmd.Context(), path, maxDiagnostics, jobs, timer)
		if err != nil {
			return fmt.Errorf("check failed for %s: %w", path, err)
		}

		bag := driver.MergeBags(results, maxDiagnostics)
		if timer != nil {
			driver.AppendTimingDiagnostic(bag, path, timer.Report())
		}

		switch format {
		case "pretty":
			diagfmt.Pretty(os.Stdout, bag, dec.Files, diagfmt.PrettyOpts{
				Color:     useColor,
				Context:   2,
				PathMode:  pathMode,
				ShowNotes: withNotes,
			})
		case "short":
			output := diag.FormatShortDiagnostics(bag.Items(), dec.Files, withNotes)
			if output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		case "json":
			err := diagfmt.JSON(os.Stdout, bag, dec.Files, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				Max:              maxDiagnostics,
				IncludeNotes:     withNotes,
			})
			if err != nil {
				return err
			}
		}

		summary := driver.Summarize(results)
		triggered += summary.Triggered
		if !quiet && format == "pretty" {
			fmt.Fprintf(os.Stdout, "%s: %d matches checked, %d triggered, %d aborted\n",
				path, summary.Checked, summary.Triggered, summary.Aborted)
		}
	}

	if failOnLint && triggered > 0 {
		os.Exit(1)
	}
	return nil
}

// resolveCheckTarget picks the snapshot path: the positional argument
// when present, the manifest's [check].snapshot otherwise. The manifest
// is returned so its format/jobs defaults can apply.
func resolveCheckTarget(args []string) (string, *projectManifest, error) {
	if len(args) == 1 {
		return args[0], nil, nil
	}
	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, fmt.Errorf("%s", noOpenmatchTomlMessage)
	}
	target, err := resolveSnapshotTarget(manifest)
	if err != nil {
		return "", nil, err
	}
	return target, manifest, nil
}

// listSnapshots returns the sorted *.mp files under path, or path
// itself when it is a file.
func listSnapshots(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".mp") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// deterministic order
	sort.Strings(files)
	return files, nil
}
