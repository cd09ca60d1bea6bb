// Package policy holds the always-applied block list and helpers that express
// other fixed exclusions in the same pattern grammar.
package policy

import (
	_ "embed"
	"slices"
	"strings"

	"github.com/ogdakke/pathfilter/internal/patternset"
)

//go:embed builtin.ignore
var builtinText string

var builtinPatterns = patternset.Parse(builtinText)

// DotfilePattern matches any path with a segment starting with ".".
const DotfilePattern = ".*"

// Patterns returns the built-in block list in evaluation order.
func Patterns() []string {
	return slices.Clone(builtinPatterns)
}

// Text returns the built-in block list as ignore-file text.
func Text() string {
	return builtinText
}

// ExtensionPatterns converts extensions to "*.ext" patterns.
//
// "svg", ".svg" and "*.svg" are all accepted. Blank entries are skipped and
// input order is kept.
func ExtensionPatterns(exts []string) []string {
	patterns := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*.")
		ext = strings.TrimLeft(ext, ".")
		if ext == "" {
			continue
		}
		patterns = append(patterns, "*."+ext)
	}
	return patterns
}
