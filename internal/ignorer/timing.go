package ignorer

import (
	"sync/atomic"
	"time"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/logger"
)

// Builder produces a stage; NewTimingMatcher measures how long it takes.
type Builder func() *Stage

type TimingMatcher struct {
	*Matcher
	compileTime int64 // nanoseconds, atomic
	matchTime   int64 // nanoseconds, atomic
}

func NewTimingMatcher(builders ...Builder) *TimingMatcher {
	compileStart := time.Now()
	stages := make([]*Stage, 0, len(builders))
	for _, build := range builders {
		stages = append(stages, build())
	}
	matcher := NewMatcher(stages...)
	compileDuration := time.Since(compileStart)

	tm := &TimingMatcher{
		Matcher: matcher,
	}
	atomic.AddInt64(&tm.compileTime, int64(compileDuration))

	logger.Debug("Timing matcher created", "stages", len(matcher.stages), "compile_duration", compileDuration)
	return tm
}

func (tm *TimingMatcher) Classify(path string) domain.Verdict {
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		atomic.AddInt64(&tm.matchTime, int64(duration))
		if duration > time.Microsecond*100 {
			logger.Trace("Slow path classification", "path", path, "duration", duration)
		}
	}()

	return tm.Matcher.Classify(path)
}

func (tm *TimingMatcher) ShouldIgnore(path string) bool {
	return tm.Classify(path).Ignored
}

func (tm *TimingMatcher) GetCompileTime() time.Duration {
	if tm == nil {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&tm.compileTime))
}

// GetMatchTime is the summed classification time across all goroutines.
func (tm *TimingMatcher) GetMatchTime() time.Duration {
	if tm == nil {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&tm.matchTime))
}

func (tm *TimingMatcher) GetTotalTime() time.Duration {
	if tm == nil {
		return 0
	}
	return tm.GetCompileTime() + tm.GetMatchTime()
}
