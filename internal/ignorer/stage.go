package ignorer

import (
	"sync"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/evaluator"
	"github.com/ogdakke/pathfilter/internal/pattern"
	"github.com/ogdakke/pathfilter/internal/patternset"
	"github.com/ogdakke/pathfilter/internal/policy"
)

// Stage is one closed precedence chain: its patterns are evaluated together
// with last-match-wins, independently of every other stage.
type Stage struct {
	Name     string
	Patterns []string
	matchers []*pattern.Matcher
}

func NewStage(name string, patterns []string) *Stage {
	return &Stage{
		Name:     name,
		Patterns: patterns,
		matchers: pattern.CompileAll(patterns),
	}
}

var builtIn = sync.OnceValue(func() *Stage {
	return NewStage(domain.StageBuiltIn, policy.Patterns())
})

// BuiltIn returns the built-in block list stage. It is compiled once per process.
func BuiltIn() *Stage {
	return builtIn()
}

// Gitignore parses and compiles user ignore-file text.
func Gitignore(text string) *Stage {
	return NewStage(domain.StageGitignore, patternset.Parse(text))
}

func Extensions(exts []string) *Stage {
	return NewStage(domain.StageExtension, policy.ExtensionPatterns(exts))
}

func Dotfiles() *Stage {
	return NewStage(domain.StageDotfile, []string{policy.DotfilePattern})
}

func (s *Stage) Decide(path string) evaluator.Decision {
	if s == nil {
		return evaluator.Decision{RuleIndex: -1}
	}
	return evaluator.Decide(path, s.matchers)
}

func (s *Stage) ShouldIgnore(path string) bool {
	return s.Decide(path).Ignored
}

func (s *Stage) Len() int {
	if s == nil {
		return 0
	}
	return len(s.matchers)
}
