// Package gitcompat evaluates ignore text with strict Git semantics and reports
// where the simplified engine decides differently.
//
// The engine matches patterns with an internal slash at any depth and lets a
// negation re-include a file below an excluded directory. Git does neither.
package gitcompat

import (
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/ignorer"
	"github.com/ogdakke/pathfilter/internal/logger"
)

// Oracle answers ignore questions the way Git would for a root ignore file.
type Oracle struct {
	ignore gitignore.GitIgnore
}

func NewOracle(text string) *Oracle {
	ignore := gitignore.New(strings.NewReader(text), "", func(e gitignore.Error) bool {
		logger.Warn("Skipping unparsable ignore pattern", "error", e.Error())
		return true
	})
	return &Oracle{ignore: ignore}
}

// Decide returns whether Git ignores path and the 1-based line of the deciding
// pattern, 0 when none matched. A path below an ignored directory is ignored
// whatever its own patterns say.
func (o *Oracle) Decide(path string) (bool, int) {
	if o == nil || o.ignore == nil {
		return false, 0
	}

	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		dir := strings.Join(segments[:i], "/")
		if m := o.ignore.Relative(dir, true); m != nil && m.Ignore() {
			return true, m.Position().Line
		}
	}

	m := o.ignore.Relative(path, false)
	if m == nil {
		return false, 0
	}
	return m.Ignore(), m.Position().Line
}

// Compare lists the paths on which the engine and Git disagree, in input order.
func Compare(paths []string, text string) []domain.Divergence {
	stage := ignorer.Gitignore(text)
	oracle := NewOracle(text)

	divergences := []domain.Divergence{}
	for _, path := range paths {
		engineIgnored := stage.ShouldIgnore(path)
		gitIgnored, line := oracle.Decide(path)
		if engineIgnored == gitIgnored {
			continue
		}

		divergences = append(divergences, domain.Divergence{
			Path:          path,
			EngineIgnored: engineIgnored,
			GitIgnored:    gitIgnored,
			GitLine:       line,
		})
	}

	logger.Debug("Compared with git semantics", "paths", len(paths), "divergences", len(divergences))
	return divergences
}
