// Package evaluator applies an ordered list of compiled patterns to a path.
package evaluator

import "github.com/ogdakke/pathfilter/internal/pattern"

// Decision describes how a path was resolved against a matcher list.
type Decision struct {
	Ignored bool
	Matched bool
	// RuleIndex is the index of the last matching matcher, -1 when none matched.
	RuleIndex int
}

// IsIgnored reports whether path is ignored by matchers. The last matching
// matcher decides: a normal pattern ignores, a negated one re-includes.
func IsIgnored(path string, matchers []*pattern.Matcher) bool {
	return Decide(path, matchers).Ignored
}

// Decide is IsIgnored with the deciding rule attached.
func Decide(path string, matchers []*pattern.Matcher) Decision {
	d := Decision{RuleIndex: -1}

	for i, m := range matchers {
		if !m.Match(path) {
			continue
		}

		d.Matched = true
		d.RuleIndex = i
		d.Ignored = !m.Negated()
	}

	return d
}
