package concurrent

import (
	"slices"
	"sort"
	"sync"

	"github.com/ogdakke/pathfilter/internal/domain"
)

// Classifier decides a single path. Implementations must be safe for
// concurrent use.
type Classifier interface {
	Classify(path string) domain.Verdict
}

type PathJob struct {
	Index int
	Path  string
}

type PathResult struct {
	Index   int
	Verdict domain.Verdict
}

type ProgressCallback func(filesFound, filesProcessed int)

type WorkerPool struct {
	workerCount int
	classifier  Classifier
	jobs        chan PathJob
	results     chan PathResult
	done        chan struct{}
	wg          sync.WaitGroup
}

type hitKey struct {
	stage string
	rule  string
}

// ResultCollector stores verdicts at their input index so the final order
// matches the batch order regardless of which worker finished first.
type ResultCollector struct {
	verdicts  []domain.Verdict
	hits      map[hitKey]int
	processed int
	ignored   int
	mu        sync.RWMutex
}

func NewResultCollector(size int) *ResultCollector {
	return &ResultCollector{
		verdicts: make([]domain.Verdict, size),
		hits:     make(map[hitKey]int),
	}
}

func (rc *ResultCollector) AddResult(result PathResult) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if result.Index < 0 || result.Index >= len(rc.verdicts) {
		return
	}

	rc.verdicts[result.Index] = result.Verdict
	rc.processed++
	if result.Verdict.Ignored {
		rc.ignored++
		rc.hits[hitKey{result.Verdict.Stage, result.Verdict.Rule}]++
	}
}

func (rc *ResultCollector) Processed() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.processed
}

// GetResults returns a copy of the verdicts in input order plus the kept and
// ignored counts.
func (rc *ResultCollector) GetResults() ([]domain.Verdict, int, int) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	return slices.Clone(rc.verdicts), rc.processed - rc.ignored, rc.ignored
}

// RuleHits returns how many paths each rule ignored, most frequent first.
func (rc *ResultCollector) RuleHits() domain.RuleHits {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	hits := make(domain.RuleHits, 0, len(rc.hits))
	for key, count := range rc.hits {
		hits = append(hits, domain.RuleHit{Stage: key.stage, Rule: key.rule, Count: count})
	}
	sort.Sort(hits)
	return hits
}
