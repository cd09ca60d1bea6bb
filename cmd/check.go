package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/logger"
	"github.com/ogdakke/pathfilter/internal/output"
	"github.com/ogdakke/pathfilter/internal/selection"
	"github.com/ogdakke/pathfilter/internal/traversal"
)

func newCheckCmd(f *flags) *cobra.Command {
	var (
		patternsFile string
		stripRoot    bool
		explain      bool
	)

	checkCmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Classify paths without touching the filesystem",
		Long: `Check classifies the given paths, or one path per line from stdin when none are
given, against the built-in block list and an optional patterns file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				var err error
				if paths, err = readPaths(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("could not read paths from stdin: %w", err)
				}
			}

			if stripRoot {
				var root string
				paths, root = traversal.StripRoot(paths)
				logger.Debug("Stripped root", "root", root)
			} else {
				for i, p := range paths {
					paths[i] = traversal.NormalizePath(p)
				}
			}

			ignoreText := ""
			if patternsFile != "" {
				text, err := traversal.ReadIgnoreFile(patternsFile)
				if err != nil {
					return err
				}
				ignoreText = text
			}

			opts := f.selectionOptions()
			opts.IgnoreFile = patternsFile
			result := selection.SelectPaths(paths, ignoreText, opts)
			result.IgnoreFile = patternsFile

			if explain {
				return writeExplanation(cmd.OutOrStdout(), result.Verdicts)
			}
			return output.NewOutputter(cmd.OutOrStdout()).Output(f.outputFormat, result, "", f.includeMetadata)
		},
	}

	checkCmd.Flags().StringVarP(&patternsFile, "patterns-file", "p", "", "Ignore-syntax file to evaluate after the built-in list")
	checkCmd.Flags().BoolVar(&stripRoot, "strip-root", false, "Remove the folder segment shared by every path")
	checkCmd.Flags().BoolVar(&explain, "explain", false, "Print every path with the rule that decided it")
	return checkCmd
}

func readPaths(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, scanner.Err()
}

func writeExplanation(w io.Writer, verdicts []domain.Verdict) error {
	for _, v := range verdicts {
		status := "kept"
		if v.Ignored {
			status = "ignored"
		}

		line := fmt.Sprintf("%-8s %s", status, v.Path)
		if v.Rule != "" {
			line += fmt.Sprintf("\t%s:%d %s", v.Stage, v.RuleIndex+1, v.Rule)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
