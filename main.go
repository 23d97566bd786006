// photo-organizer: Sorts photo exports into year/date folders with duplicate filtering.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"photoorganizer/config"
	"photoorganizer/filter"
	"photoorganizer/metadata"
	"photoorganizer/organizer"
	"photoorganizer/output"
	"photoorganizer/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "✗ Failed to organize photos: %v\n", err)
		os.Exit(1)
	}
}

// flagValues holds the raw command-line values before they are merged into the config
type flagValues struct {
	configPath  string
	input       string
	output      string
	noFilter    bool
	dryRun      bool
	reportPath  string
	interactive bool
	gui         bool
	noColor     bool
}

func newRootCmd() *cobra.Command {
	var flags flagValues

	rootCmd := &cobra.Command{
		Use:   "photo-organizer",
		Short: "Organize photo exports into year/date folders",
		Long: `photo-organizer sorts the photos of a zip export (such as Google Takeout)
or a folder into <year>/<year-month-day>/ directories.

Features:
- Uses the EXIF capture date, falling back to dates in the file name
- Reuses renamed date folders such as 2025-10-28_special_event
- Skips edited copies whose original is present (-EDITED, -MIX, -PANO, ...)
- Skips GIFs, Lightroom exports and Nikon DSLR shots (disable with --no-filter)
- Optional HTML report and dry run
`,
		Example: `  # Organize a Google Takeout archive
  photo-organizer --input takeout.zip --output ~/Pictures/organized

  # Keep everything, just preview where it would go
  photo-organizer -i ~/Downloads/photos -n --dry-run

  # List edited copies whose original is missing
  photo-organizer orphans --input takeout.zip
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), flags)
			if err != nil {
				return err
			}
			// No flags and no configured input means interactive mode
			if cmd.Flags().NFlag() == 0 && cfg.Input == "" {
				cfg.Interactive = true
			}
			applyColor(cfg.NoColor, os.Stdout)

			if cfg.Interactive {
				interactivePrompt(cfg)
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runOrganize(cfg, os.Stdout)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVarP(&flags.input, "input", "i", "", "Zip archive or directory to organize")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", config.DefaultOutput, "Output directory")
	rootCmd.Flags().BoolVarP(&flags.noFilter, "no-filter", "n", false, "Disable the duplicate/derivative filter")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show where photos would go without writing anything")
	rootCmd.Flags().StringVar(&flags.reportPath, "report", "", "Write an HTML report to this path")
	rootCmd.Flags().BoolVar(&flags.interactive, "interactive", false, "Run in interactive mode (prompts for input)")
	rootCmd.Flags().BoolVar(&flags.gui, "gui", false, "Use native file pickers in interactive mode")

	rootCmd.AddCommand(newOrphansCmd(&flags))
	return rootCmd
}

func newOrphansCmd(flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List edited copies whose original photo is missing from the source",
		Long: `orphans lists every derivative (-EDITED, -MIX, -PANO, ...) whose original
is not part of the source. These are kept by the filter because they are the
only copy of the photo.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), *flags)
			if err != nil {
				return err
			}
			applyColor(cfg.NoColor, os.Stdout)
			if err := cfg.Normalize(); err != nil {
				return err
			}
			if cfg.Input == "" {
				return &config.Error{Field: "input", Message: "input path is required"}
			}
			return listOrphans(cfg.Input, os.Stdout)
		},
	}
}

// resolveConfig layers explicitly set flags over the loaded configuration
func resolveConfig(fs *pflag.FlagSet, flags flagValues) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if fs.Changed("input") {
		cfg.Input = flags.input
	}
	if fs.Changed("output") {
		cfg.Output = flags.output
	}
	if fs.Changed("no-filter") {
		cfg.NoFilter = flags.noFilter
	}
	if fs.Changed("dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if fs.Changed("report") {
		cfg.ReportPath = flags.reportPath
	}
	if fs.Changed("interactive") {
		cfg.Interactive = flags.interactive
	}
	if fs.Changed("gui") {
		cfg.GUI = flags.gui
	}
	if fs.Changed("no-color") {
		cfg.NoColor = flags.noColor
	}
	return cfg, nil
}

func applyColor(disabled bool, out io.Writer) {
	if disabled || !isTerminal(out) {
		color.NoColor = true
	}
}

// runOrganize performs one organize run and prints its summary. Only a
// source that cannot be enumerated is returned as an error.
func runOrganize(cfg *config.Config, out io.Writer) error {
	run := runInfo{
		ID:       uuid.NewString(),
		Input:    cfg.Input,
		Output:   cfg.Output,
		DryRun:   cfg.DryRun,
		Filtered: !cfg.NoFilter,
		Started:  time.Now(),
	}

	reader, err := source.NewReader(cfg.Input)
	if err != nil {
		return err
	}

	infos, err := source.List(reader)
	if err != nil {
		return err
	}
	if !cfg.DryRun {
		checkFreeSpace(out, cfg.Output, source.TotalSize(infos))
	}

	var writer output.Writer = output.NewFSWriter(cfg.Output)
	if cfg.DryRun {
		writer = output.NewDryRunWriter(cfg.Output)
	}
	newFilter := organizer.ExistingCollection
	if cfg.NoFilter {
		newFilter = organizer.NoFiltering
	}

	org := organizer.New(reader, metadata.NewCompositeExtractor(), writer, newFilter)
	progress := newProgressReporter(out, isTerminal(out), cfg.DryRun)
	org.OnEntry = progress.onEntry

	color.New(color.FgCyan).Fprintf(out, "Organizing %d photos from %s into %s\n", len(infos), cfg.Input, cfg.Output)
	result, err := org.Organize()
	progress.finish()
	if err != nil {
		return err
	}

	if cfg.ReportPath != "" && writeHTMLReport(cfg.ReportPath, result, run) {
		run.ReportPath = cfg.ReportPath
	}
	printSummary(out, result, run)
	return nil
}

// checkFreeSpace warns when the output volume looks too small for the
// source. It never stops the run.
func checkFreeSpace(out io.Writer, outputDir string, required int64) {
	dir := existingAncestor(outputDir)
	free, err := getFreeSpace(dir)
	if err != nil {
		log.Printf("Could not determine free space for '%s': %v", dir, err)
		return
	}
	if free < uint64(required) {
		color.New(color.FgRed).Fprintf(out, "⚠ Output may run out of space. Required: %s, Available: %s\n",
			formatFileSize(required), formatFileSize(int64(free)))
	}
}

// listOrphans prints every derivative without its original, one per line
func listOrphans(input string, out io.Writer) error {
	reader, err := source.NewReader(input)
	if err != nil {
		return err
	}
	infos, err := source.List(reader)
	if err != nil {
		return err
	}

	orphans := filter.OrphanedDerivatives(source.Names(infos))
	for _, name := range orphans {
		fmt.Fprintln(out, name)
	}
	if len(orphans) == 0 {
		color.New(color.FgGreen).Fprintln(out, "✓ No orphaned derivatives")
	} else {
		color.New(color.FgYellow).Fprintf(out, "%d orphaned derivative(s) will be kept by the filter\n", len(orphans))
	}
	return nil
}
