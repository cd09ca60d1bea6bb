package ignorer

import (
	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/logger"
)

// Matcher applies stages in order. The first stage that ignores a path decides
// it, so a later stage can never re-include what an earlier one dropped.
type Matcher struct {
	stages []*Stage
}

func NewMatcher(stages ...*Stage) *Matcher {
	m := &Matcher{}
	for _, s := range stages {
		if s.Len() == 0 {
			continue
		}
		m.stages = append(m.stages, s)
	}
	return m
}

func (m *Matcher) Stages() []*Stage {
	if m == nil {
		return nil
	}
	return m.stages
}

func (m *Matcher) ShouldIgnore(path string) bool {
	return m.Classify(path).Ignored
}

// Classify returns the verdict for path. Kept paths carry the negation rule that
// re-included them, if any.
func (m *Matcher) Classify(path string) domain.Verdict {
	verdict := domain.Verdict{Path: path, RuleIndex: -1}
	if m == nil {
		return verdict
	}

	for _, s := range m.stages {
		d := s.Decide(path)
		if !d.Matched {
			continue
		}

		verdict.Stage = s.Name
		verdict.Rule = s.Patterns[d.RuleIndex]
		verdict.RuleIndex = d.RuleIndex

		if d.Ignored {
			verdict.Ignored = true
			logger.Trace("Path ignored", "path", path, "stage", s.Name, "rule", verdict.Rule)
			return verdict
		}
		logger.Trace("Path re-included", "path", path, "stage", s.Name, "rule", verdict.Rule)
	}

	return verdict
}
