package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Natalie359738/sway/internal/diag"
	"github.com/Natalie359738/sway/internal/driver"
	"github.com/Natalie359738/sway/internal/irenc"
	"github.com/Natalie359738/sway/internal/observ"
)

var optCmd = &cobra.Command{
	Use:   "opt [flags] module.swir",
	Short: "Run optimizer passes over an IR module file",
	Long:  `Opt folds constant aggregate construction chains and rewrites the module in place (or to --output)`,
	Args:  cobra.ExactArgs(1),
	RunE:  runOpt,
}

func init() {
	optCmd.Flags().StringP("output", "o", "", "write the optimized module here instead of in place")
	optCmd.Flags().Bool("dry-run", false, "analyze and report without writing the module back")
	optCmd.Flags().Bool("ui", false, "show interactive progress (requires a terminal)")
	optCmd.Flags().Int("jobs", 0, "parallel workers (0 = number of CPUs)")
	optCmd.Flags().StringSlice("passes", nil, "pass pipeline (default from swayir.toml or fold-aggregates,verify)")
}

func runOpt(cmd *cobra.Command, args []string) error {
	inPath := args[0]

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	useUI, _ := cmd.Flags().GetBool("ui")
	jobs, _ := cmd.Flags().GetInt("jobs")
	passes, _ := cmd.Flags().GetStringSlice("passes")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	// Manifest values apply only where flags were left at defaults.
	manifest, found, err := driver.LoadManifest(filepath.Dir(inPath))
	if err != nil {
		return err
	}
	if found {
		if len(passes) == 0 {
			passes = manifest.Config.Opt.Passes
		}
		if jobs == 0 {
			jobs = manifest.Config.Opt.Jobs
		}
	}

	m, tys, err := irenc.Load(inPath)
	if err != nil {
		return fmt.Errorf("failed to load module: %w", err)
	}

	timer := observ.NewTimer()
	opts := driver.Options{
		Jobs:           jobs,
		Passes:         passes,
		MaxDiagnostics: maxDiagnostics,
		Timer:          timer,
	}

	var res *driver.Result
	if useUI && isTerminal(os.Stdout) {
		res, err = runOptWithUI(cmd.Context(), "optimizing "+filepath.Base(inPath), m, tys, opts)
	} else {
		res, err = driver.Run(cmd.Context(), m, tys, opts)
	}
	if err != nil {
		return err
	}

	printDiags(cmd, res.Bag)
	if !quiet {
		fmt.Fprintf(os.Stdout, "%s: %s\n", filepath.Base(inPath), res.Summary.String())
	}
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if err := res.Err(); err != nil {
		return err
	}

	if dryRun {
		return nil
	}
	outPath := output
	if outPath == "" {
		outPath = inPath
	}
	if err := irenc.Save(outPath, m, tys); err != nil {
		return fmt.Errorf("failed to write module: %w", err)
	}
	return nil
}

// printDiags renders the bag to stderr, colored when appropriate.
func printDiags(cmd *cobra.Command, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))

	sevColor := func(s diag.Severity) *color.Color {
		switch s {
		case diag.SevError:
			return color.New(color.FgRed, color.Bold)
		case diag.SevWarning:
			return color.New(color.FgYellow)
		default:
			return color.New(color.FgCyan)
		}
	}
	for _, d := range bag.Items() {
		label := d.Severity.String()
		if useColor {
			label = sevColor(d.Severity).Sprint(label)
		}
		fmt.Fprintf(os.Stderr, "%s %s %s: %s\n", label, d.Code, d.Primary, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(os.Stderr, "  note %s: %s\n", n.Locus, n.Msg)
		}
	}
}
