// Package pattern compiles ignore-file patterns into path matchers.
//
// The grammar is a subset of the Git ignore syntax:
//
//   - "!" prefix negates the pattern
//   - "/" prefix anchors the pattern to the start of the path
//   - "/" suffix marks a directory; the match also covers everything below it
//   - "**" spans any number of path segments, "*" one segment, "?" one character
//
// Patterns without a leading "/" match at any depth, including patterns with an
// internal slash such as "dist/bundle.js". Character classes and backslash escapes
// are not interpreted; their characters match literally.
package pattern

import (
	"regexp"
	"strings"
)

// Pattern is the parsed form of one ignore line.
type Pattern struct {
	Raw            string
	Negated        bool
	AnchoredToRoot bool
	DirectoryOnly  bool

	body string
}

// Options adjusts how patterns are compiled.
type Options struct {
	CaseInsensitive bool
}

// Matcher is a compiled pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	re      *regexp.Regexp
	negated bool
}

// Parse splits raw into its flags and the remaining pattern body.
func Parse(raw string) Pattern {
	p := Pattern{Raw: raw}
	body := raw

	if rest, ok := strings.CutPrefix(body, "!"); ok {
		p.Negated = true
		body = rest
	}
	if rest, ok := strings.CutSuffix(body, "/"); ok {
		p.DirectoryOnly = true
		body = rest
	}
	if rest, ok := strings.CutPrefix(body, "/"); ok {
		p.AnchoredToRoot = true
		body = rest
	}

	p.body = body
	return p
}

// Compile compiles a single pattern with default options.
func Compile(raw string) *Matcher {
	return CompileWith(raw, Options{})
}

// CompileWith compiles a single pattern. It never fails: a pattern with an empty
// body, or one that cannot be expressed as a regular expression, yields a matcher
// that matches nothing.
func CompileWith(raw string, opts Options) *Matcher {
	p := Parse(raw)
	m := &Matcher{negated: p.Negated}
	if p.body == "" {
		return m
	}

	var expr strings.Builder
	if opts.CaseInsensitive {
		expr.WriteString("(?i)")
	}
	if p.AnchoredToRoot {
		expr.WriteString("^")
	} else {
		expr.WriteString("(?:^|/)")
	}
	expr.WriteString(translate(p.body))
	expr.WriteString("(?:$|/)")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return m
	}
	m.re = re
	return m
}

// CompileAll compiles patterns in order.
func CompileAll(patterns []string) []*Matcher {
	return CompileAllWith(patterns, Options{})
}

// CompileAllWith compiles patterns in order using opts.
func CompileAllWith(patterns []string, opts Options) []*Matcher {
	matchers := make([]*Matcher, len(patterns))
	for i, raw := range patterns {
		matchers[i] = CompileWith(raw, opts)
	}
	return matchers
}

// Match reports whether path is matched. path must be relative and "/"-separated.
func (m *Matcher) Match(path string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(path)
}

// Negated reports whether a match re-includes the path.
func (m *Matcher) Negated() bool {
	return m != nil && m.negated
}

func (m *Matcher) String() string {
	if m == nil || m.re == nil {
		return ""
	}
	return m.re.String()
}

// translate converts a pattern body into a regular expression fragment.
// "**" is handled before "*" so the single-star rule never splits it.
func translate(body string) string {
	var b strings.Builder
	for i := 0; i < len(body); {
		switch {
		case strings.HasPrefix(body[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(body[i:], "**"):
			b.WriteString(".*")
			i += 2
		case body[i] == '*':
			b.WriteString("[^/]*")
			i++
		case body[i] == '?':
			b.WriteString("[^/]")
			i++
		default:
			j := i + 1
			for j < len(body) && body[j] != '*' && body[j] != '?' {
				j++
			}
			b.WriteString(regexp.QuoteMeta(body[i:j]))
			i = j
		}
	}
	return b.String()
}
