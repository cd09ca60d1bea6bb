package snapshot

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

var (
	deleted  = color.New(color.FgRed)
	inserted = color.New(color.FgGreen)
)

// Diff renders a line diff of expected against actual with a few lines of
// context around each change.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var result strings.Builder
	result.WriteString("\n--- Expected\n+++ Actual\n")

	expectedLine, actualLine := 1, 1
	for i, diff := range diffs {
		text := splitLines(diff.Text)

		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range text {
				result.WriteString(deleted.Sprintf("-%4d %s", expectedLine, line) + "\n")
				expectedLine++
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range text {
				result.WriteString(inserted.Sprintf("+%4d %s", actualLine, line) + "\n")
				actualLine++
			}
		case diffmatchpatch.DiffEqual:
			head, tail := contextLines, contextLines
			if i == 0 {
				head = 0
			}
			if i == len(diffs)-1 {
				tail = 0
			}

			if len(text) <= head+tail {
				for _, line := range text {
					fmt.Fprintf(&result, " %4d %s\n", expectedLine, line)
					expectedLine++
					actualLine++
				}
				continue
			}

			for _, line := range text[:head] {
				fmt.Fprintf(&result, " %4d %s\n", expectedLine, line)
				expectedLine++
				actualLine++
			}
			skipped := len(text) - head - tail
			fmt.Fprintf(&result, "      ... (%d lines)\n", skipped)
			expectedLine += skipped
			actualLine += skipped
			for _, line := range text[len(text)-tail:] {
				fmt.Fprintf(&result, " %4d %s\n", expectedLine, line)
				expectedLine++
				actualLine++
			}
		}
	}

	return result.String()
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
