// Package patternset turns raw ignore-file text into an ordered list of patterns.
package patternset

import "strings"

const byteOrderMark = "\ufeff"

// Parse splits text into trimmed pattern lines, dropping blanks and `#` comments.
// Source order is preserved and duplicates are kept, since later lines take
// precedence over earlier ones.
func Parse(text string) []string {
	text = strings.TrimPrefix(text, byteOrderMark)

	patterns := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}

	return patterns
}
