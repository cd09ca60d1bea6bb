package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogdakke/pathfilter/internal/logger"
	"github.com/ogdakke/pathfilter/internal/output"
	"github.com/ogdakke/pathfilter/internal/selection"
	"github.com/ogdakke/pathfilter/internal/tui"
)

const Version = "v0.1.0"

type flags struct {
	outputFormat    string
	includeMetadata bool
	verboseCount    int
	workerCount     int
	showVersion     bool
	useTUI          bool
	fromJSON        string

	ignoreFile        string
	noBuiltIn         bool
	noGitignore       bool
	excludeExtensions []string
	excludeDotfiles   bool
	compareGit        bool
}

func (f *flags) selectionOptions() selection.Options {
	return selection.Options{
		NoBuiltIn:         f.noBuiltIn,
		NoGitignore:       f.noGitignore,
		IgnoreFile:        f.ignoreFile,
		ExcludeExtensions: f.excludeExtensions,
		ExcludeDotfiles:   f.excludeDotfiles,
		CompareGit:        f.compareGit,
		Workers:           f.workerCount,
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "pathfilter [directory]",
		Short: "Decide which files of a folder upload to keep",
		Long: `Pathfilter walks a folder the way a bulk upload sees it and decides, file by file,
whether to keep it. A built-in block list (version control metadata, dependency caches,
OS and IDE artifacts) is applied first, then the .gitignore at the folder root.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbosity(f.verboseCount)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return nil
			}

			if f.fromJSON != "" {
				return tui.RunTUIFromJSON(f.fromJSON)
			}

			if len(args) == 0 {
				return cmd.Help()
			}

			startTime := time.Now()
			dir := args[0]
			opts := f.selectionOptions()

			if f.useTUI {
				logger.Info("Starting TUI mode", "directory", dir, "verbosity", f.verboseCount, "workers", f.workerCount)
				if err := tui.RunTUI(dir, opts); err != nil {
					return fmt.Errorf("TUI error: %w", err)
				}
				return nil
			}

			logger.Info("Starting selection", "directory", dir, "format", f.outputFormat, "verbosity", f.verboseCount, "workers", f.workerCount)
			if err := selection.Run(cmd.OutOrStdout(), cmd.ErrOrStderr(), dir, opts, f.outputFormat, f.includeMetadata); err != nil {
				return err
			}

			if f.verboseCount > 0 {
				logger.Info("Total execution time", "duration", time.Since(startTime))
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.outputFormat, "format", "f", output.FormatTable, "Output format (table, json, csv, list)")
	pf.BoolVarP(&f.includeMetadata, "metadata", "m", true, "Include metadata in JSON output (directory, file counts, rule hits, timing)")
	pf.CountVarP(&f.verboseCount, "verbose", "V", "Increase verbosity (-V info, -VV debug, -VVV trace)")
	pf.IntVarP(&f.workerCount, "workers", "w", 0, "Number of worker goroutines (0 = auto-detect based on CPU cores)")
	pf.BoolVar(&f.noBuiltIn, "no-builtin", false, "Do not apply the built-in block list")
	pf.BoolVar(&f.noGitignore, "no-gitignore", false, "Do not apply any ignore file")
	pf.StringSliceVar(&f.excludeExtensions, "exclude-ext", nil, "Extensions to exclude, e.g. --exclude-ext svg,png")
	pf.BoolVar(&f.excludeDotfiles, "exclude-dotfiles", false, "Exclude files and folders whose name starts with a dot")
	pf.BoolVar(&f.compareGit, "compare-git", false, "Report paths where strict git semantics decide differently")

	rootCmd.Flags().BoolVarP(&f.showVersion, "version", "v", false, "Show version and exit")
	rootCmd.Flags().StringVar(&f.ignoreFile, "ignore-file", "", "Ignore file to use instead of <directory>/.gitignore")
	rootCmd.Flags().BoolVar(&f.useTUI, "tui", false, "Launch interactive TUI interface")
	rootCmd.Flags().StringVar(&f.fromJSON, "from-json", "", "Review a result saved with --format json in the TUI")

	rootCmd.AddCommand(newCheckCmd(f))
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
