// Package selection decides which files of an upload are kept. It composes the
// built-in block list, optional extension and dotfile exclusions and the
// user's ignore file as separate stages, in that order.
package selection

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ogdakke/pathfilter/internal/concurrent"
	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/gitcompat"
	"github.com/ogdakke/pathfilter/internal/ignorer"
	"github.com/ogdakke/pathfilter/internal/logger"
	"github.com/ogdakke/pathfilter/internal/output"
	"github.com/ogdakke/pathfilter/internal/pipeline"
	"github.com/ogdakke/pathfilter/internal/traversal"
)

type Options struct {
	NoBuiltIn   bool
	NoGitignore bool
	// IgnoreFile overrides the .gitignore found at the upload root.
	IgnoreFile        string
	ExcludeExtensions []string
	ExcludeDotfiles   bool
	// CompareGit also evaluates the ignore text with strict Git semantics.
	CompareGit bool
	Workers    int
}

func (o Options) builders(p *pipeline.Pipeline, ignoreText string) []ignorer.Builder {
	var builders []ignorer.Builder
	if !o.NoBuiltIn {
		builders = append(builders, ignorer.BuiltIn)
	}
	if len(o.ExcludeExtensions) > 0 {
		builders = append(builders, func() *ignorer.Stage { return ignorer.Extensions(o.ExcludeExtensions) })
	}
	if o.ExcludeDotfiles {
		builders = append(builders, ignorer.Dotfiles)
	}
	if !o.NoGitignore {
		builders = append(builders, func() *ignorer.Stage { return p.GitignoreStage(ignoreText) })
	}
	return builders
}

// SelectPaths classifies in-memory, root-relative paths.
func SelectPaths(paths []string, ignoreText string, opts Options) domain.SelectionResult {
	return selectPaths(paths, ignoreText, opts, nil)
}

func selectPaths(paths []string, ignoreText string, opts Options, progress concurrent.ProgressCallback) domain.SelectionResult {
	startTime := time.Now()

	p := pipeline.New(pipeline.WithWorkers(opts.Workers), pipeline.WithProgress(progress))
	matcher := ignorer.NewTimingMatcher(opts.builders(p, ignoreText)...)

	matchStart := time.Now()
	verdicts, hits := p.Classify(paths, matcher)
	matchDuration := time.Since(matchStart)

	result := domain.SelectionResult{
		Verdicts:   verdicts,
		Kept:       make([]string, 0, len(paths)),
		Ignored:    []domain.Verdict{},
		RuleHits:   hits,
		FilesFound: len(paths),
	}
	for _, v := range verdicts {
		if v.Ignored {
			result.Ignored = append(result.Ignored, v)
		} else {
			result.Kept = append(result.Kept, v.Path)
		}
	}

	if opts.CompareGit && !opts.NoGitignore {
		result.Divergences = gitcompat.Compare(reachesIgnoreFile(verdicts), ignoreText)
	}

	result.Timing = domain.TimingBreakdown{
		TotalDuration:   time.Since(startTime),
		CompileDuration: matcher.GetCompileTime(),
		MatchDuration:   matchDuration,
	}

	logger.Info("Selection completed",
		"files_found", result.FilesFound,
		"files_kept", len(result.Kept),
		"files_ignored", len(result.Ignored),
		"compile_duration", result.Timing.CompileDuration,
		"match_duration", matchDuration)

	return result
}

// reachesIgnoreFile returns the paths no earlier stage removed.
func reachesIgnoreFile(verdicts []domain.Verdict) []string {
	paths := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		if !v.Ignored || v.Stage == domain.StageGitignore {
			paths = append(paths, v.Path)
		}
	}
	return paths
}

// Select walks directory and classifies every file in it.
func Select(directory string, opts Options, progress concurrent.ProgressCallback) (domain.SelectionResult, error) {
	startTime := time.Now()

	logger.Info("Walking directory", "directory", directory)
	upload, err := traversal.WalkDirectory(directory)
	if err != nil {
		logger.Error("Could not walk directory", "error", err)
		return domain.SelectionResult{}, err
	}
	traversalDuration := time.Since(startTime)

	ignoreText, ignoreFile, err := loadIgnoreText(directory, upload.Paths, opts)
	if err != nil {
		logger.Error("Could not load ignore file", "error", err)
		return domain.SelectionResult{}, err
	}

	result := selectPaths(upload.Paths, ignoreText, opts, progress)
	result.IgnoreFile = ignoreFile
	result.Timing.TraversalDuration = traversalDuration
	result.Timing.TotalDuration = time.Since(startTime)
	return result, nil
}

func loadIgnoreText(directory string, paths []string, opts Options) (string, string, error) {
	if opts.NoGitignore {
		return "", "", nil
	}

	if opts.IgnoreFile != "" {
		text, err := traversal.ReadIgnoreFile(opts.IgnoreFile)
		if err != nil {
			return "", "", err
		}
		return text, opts.IgnoreFile, nil
	}

	rel, ok := traversal.LocateIgnoreFile(paths)
	if !ok {
		logger.Debug("No ignore file at upload root", "directory", directory)
		return "", "", nil
	}

	text, err := traversal.ReadIgnoreFile(filepath.Join(directory, filepath.FromSlash(rel)))
	if err != nil {
		return "", "", err
	}
	return text, rel, nil
}

// Run selects the files of directory and writes them in format to stdout.
// Progress and the summary go to stderr.
func Run(stdout, stderr io.Writer, directory string, opts Options, format string, includeMetadata bool) error {
	if !output.ValidFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}

	progress := func(filesFound, filesProcessed int) {
		fmt.Fprintf(stderr, "\rFiles found: %d, Classified: %d", filesFound, filesProcessed)
	}

	result, err := Select(directory, opts, progress)
	if result.FilesFound > 0 {
		fmt.Fprintf(stderr, "\n")
	}
	if err != nil {
		return err
	}

	outputStart := time.Now()
	if err := output.NewOutputter(stdout).Output(format, result, directory, includeMetadata); err != nil {
		return err
	}
	result.Timing.OutputDuration = time.Since(outputStart)
	totalDuration := result.Timing.TotalDuration + result.Timing.OutputDuration

	fmt.Fprintf(stderr, "Files kept: %d\n", len(result.Kept))
	fmt.Fprintf(stderr, "Files ignored: %d\n", len(result.Ignored))
	if result.IgnoreFile != "" {
		fmt.Fprintf(stderr, "Ignore file: %s\n", result.IgnoreFile)
	}

	if logger.GetVerbosity() > 0 {
		fmt.Fprintf(stderr, "\nTiming Breakdown:\n")
		fmt.Fprintf(stderr, "  Directory traversal: %s\n", result.Timing.TraversalDuration)
		fmt.Fprintf(stderr, "  Pattern compilation: %s\n", result.Timing.CompileDuration)
		fmt.Fprintf(stderr, "  Path classification: %s\n", result.Timing.MatchDuration)
		fmt.Fprintf(stderr, "  Output formatting: %s\n", result.Timing.OutputDuration)
	}
	fmt.Fprintf(stderr, "Total time: %s\n", totalDuration)
	return nil
}
