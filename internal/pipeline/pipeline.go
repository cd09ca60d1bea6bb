// Package pipeline filters batches of root-relative paths against the built-in
// block list and user ignore-file text.
//
// Each source is its own closed precedence chain. Applying the built-in list
// and then a user ignore file is two sequential calls, so a user negation can
// never bring back a path the built-in list dropped.
package pipeline

import (
	"time"

	"github.com/ogdakke/pathfilter/internal/concurrent"
	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/ignorer"
	"github.com/ogdakke/pathfilter/internal/logger"
)

// DefaultParallelThreshold is the batch size from which paths are classified
// by the worker pool instead of inline.
const DefaultParallelThreshold = 4096

const (
	progressInterval = 256
	jobBufferSize    = 1024
)

type Pipeline struct {
	workers   int
	threshold int
	cache     *stageCache
	progress  concurrent.ProgressCallback
}

type Option func(*Pipeline)

// WithWorkers sets the worker pool size. Zero or less means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithParallelThreshold sets the smallest batch classified in parallel. Zero
// or less disables parallel classification.
func WithParallelThreshold(n int) Option {
	return func(p *Pipeline) {
		p.threshold = n
	}
}

func WithProgress(cb concurrent.ProgressCallback) Option {
	return func(p *Pipeline) {
		p.progress = cb
	}
}

// WithCacheSize bounds how many distinct ignore texts stay compiled.
func WithCacheSize(n int) Option {
	return func(p *Pipeline) {
		p.cache = newStageCache(n)
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		threshold: DefaultParallelThreshold,
		cache:     newStageCache(defaultCacheSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPipeline = New()

// FilterByBuiltInPolicy returns the paths the built-in block list keeps.
func FilterByBuiltInPolicy(paths []string) []string {
	return defaultPipeline.FilterByBuiltInPolicy(paths)
}

// FilterByGitignore returns the paths the ignore-file text keeps. The built-in
// list is not consulted.
func FilterByGitignore(paths []string, ignoreFileText string) []string {
	return defaultPipeline.FilterByGitignore(paths, ignoreFileText)
}

func (p *Pipeline) FilterByBuiltInPolicy(paths []string) []string {
	return p.Filter(paths, ignorer.BuiltIn())
}

func (p *Pipeline) FilterByGitignore(paths []string, ignoreFileText string) []string {
	return p.Filter(paths, p.GitignoreStage(ignoreFileText))
}

// GitignoreStage compiles ignore-file text, reusing an earlier compilation of
// identical text.
func (p *Pipeline) GitignoreStage(text string) *ignorer.Stage {
	return p.cache.get(text)
}

// Filter keeps the paths stage does not ignore, in input order.
func (p *Pipeline) Filter(paths []string, stage *ignorer.Stage) []string {
	kept := make([]string, 0, len(paths))
	if len(paths) == 0 {
		return kept
	}

	if stage.Len() == 0 {
		return append(kept, paths...)
	}

	verdicts, _ := p.Classify(paths, ignorer.NewMatcher(stage))
	for _, v := range verdicts {
		if !v.Ignored {
			kept = append(kept, v.Path)
		}
	}

	logger.Debug("Batch filtered", "stage", stage.Name, "paths", len(paths), "kept", len(kept))
	return kept
}

// Classify returns one verdict per path in input order, plus per-rule hit
// counts for the ignored ones.
func (p *Pipeline) Classify(paths []string, classifier concurrent.Classifier) ([]domain.Verdict, domain.RuleHits) {
	start := time.Now()
	collector := concurrent.NewResultCollector(len(paths))

	if p.threshold > 0 && len(paths) >= p.threshold {
		p.classifyParallel(paths, classifier, collector)
	} else {
		for i, path := range paths {
			collector.AddResult(concurrent.PathResult{Index: i, Verdict: classifier.Classify(path)})
			p.report(len(paths), i+1)
		}
	}

	verdicts, kept, ignored := collector.GetResults()
	logger.Debug("Batch classified", "paths", len(paths), "kept", kept, "ignored", ignored, "duration", time.Since(start))
	return verdicts, collector.RuleHits()
}

func (p *Pipeline) classifyParallel(paths []string, classifier concurrent.Classifier, collector *concurrent.ResultCollector) {
	pool := concurrent.NewWorkerPool(p.workers, jobBufferSize, classifier)
	pool.Start()
	logger.Debug("Classifying in parallel", "paths", len(paths), "workers", pool.WorkerCount())

	go concurrent.FeedPaths(paths, pool.Jobs())

	processed := 0
	for result := range pool.Results() {
		collector.AddResult(result)
		processed++
		p.report(len(paths), processed)
	}
	<-pool.Done()
}

func (p *Pipeline) report(found, processed int) {
	if p.progress == nil {
		return
	}
	if processed%progressInterval == 0 || processed == found {
		p.progress(found, processed)
	}
}
