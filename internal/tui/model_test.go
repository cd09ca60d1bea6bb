package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/selection"
)

func sampleOutput() domain.JSONOutput {
	return domain.JSONOutput{
		Result: domain.JSONResult{
			Kept: []string{"src/app.ts", "README.md"},
			Ignored: []domain.Verdict{
				{Path: "a.log", Ignored: true, Stage: domain.StageGitignore, Rule: "*.log"},
				{Path: "b.log", Ignored: true, Stage: domain.StageGitignore, Rule: "*.log"},
				{Path: ".git/HEAD", Ignored: true, Stage: domain.StageBuiltIn, Rule: ".git/"},
			},
		},
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModelFromJSON(t *testing.T) {
	m := NewModelFromJSON(sampleOutput())

	if !m.ready || m.loading {
		t.Fatal("Expected model from JSON to be ready")
	}
	if len(m.result.Verdicts) != 5 {
		t.Errorf("Expected 5 verdicts, got %d", len(m.result.Verdicts))
	}
	if m.result.FilesFound != 5 {
		t.Errorf("Expected 5 files found, got %d", m.result.FilesFound)
	}
	if len(m.result.RuleHits) != 2 || m.result.RuleHits[0].Rule != "*.log" || m.result.RuleHits[0].Count != 2 {
		t.Errorf("Expected rule hits derived from ignored paths, got %+v", m.result.RuleHits)
	}
	if m.Init() != nil {
		t.Error("Expected no startup command for a JSON model")
	}
}

func TestFilterKeys(t *testing.T) {
	var model tea.Model = NewModelFromJSON(sampleOutput())

	tests := []struct {
		key      rune
		mode     FilterMode
		expected int
	}{
		{'i', FilterIgnored, 3},
		{'k', FilterKept, 2},
		{'a', FilterAll, 5},
	}

	for _, test := range tests {
		model, _ = model.Update(keyPress(test.key))
		m := model.(Model)
		if m.filterMode != test.mode {
			t.Errorf("Key %q: expected mode %s, got %s", test.key, test.mode, m.filterMode)
		}
		if len(m.filtered) != test.expected {
			t.Errorf("Key %q: expected %d paths, got %d", test.key, test.expected, len(m.filtered))
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModelFromJSON(sampleOutput())
	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestRefreshDisabledForJSON(t *testing.T) {
	m := NewModelFromJSON(sampleOutput())
	updated, cmd := m.Update(keyPress('r'))
	if cmd != nil {
		t.Error("Expected no command when refreshing a JSON model")
	}
	if !updated.(Model).ready {
		t.Error("Expected model to stay ready")
	}
}

func TestView(t *testing.T) {
	var model tea.Model = NewModelFromJSON(sampleOutput())
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := model.View()
	for _, want := range []string{"Upload Selection", "Kept: 2", "Ignored: 3", "src/app.ts", "a.log"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestLoadingAndErrorViews(t *testing.T) {
	m := NewModel("/tmp/project", selection.Options{})
	if !strings.Contains(m.View(), "Selecting files") {
		t.Errorf("Expected loading view, got %q", m.View())
	}

	updated, _ := m.Update(progressMsg{filesFound: 10, filesProcessed: 4})
	if !strings.Contains(updated.View(), "Files found: 10, Classified: 4") {
		t.Errorf("Expected progress view, got %q", updated.View())
	}

	updated, _ = updated.Update(selectionCompleteMsg{err: errors.New("boom")})
	if !strings.Contains(updated.View(), "Error: boom") {
		t.Errorf("Expected error view, got %q", updated.View())
	}
}

func TestSelectionCompleteMsg(t *testing.T) {
	m := NewModel("/tmp/project", selection.Options{})
	result := selection.SelectPaths([]string{"main.go", "debug.log"}, "*.log\n", selection.Options{})

	updated, _ := m.Update(selectionCompleteMsg{result: result})
	um := updated.(Model)
	if !um.ready || um.loading {
		t.Fatal("Expected model to be ready after completion")
	}
	if len(um.filtered) != 2 {
		t.Errorf("Expected 2 paths listed, got %d", len(um.filtered))
	}
}

func TestStartSelection(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	msg := startSelection(dir, selection.Options{})()
	started, ok := msg.(selectionStartedMsg)
	if !ok {
		t.Fatalf("Expected selectionStartedMsg, got %T", msg)
	}

	done := (<-started.doneChan)
	if done.err != nil {
		t.Fatalf("Selection failed: %v", done.err)
	}
	if len(done.result.Kept) != 1 || done.result.Kept[0] != "main.go" {
		t.Errorf("Expected main.go to be kept, got %v", done.result.Kept)
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{5: "5", 1500: "1.5k", 2500000: "2.5M"}
	for n, expected := range tests {
		if got := formatCount(n); got != expected {
			t.Errorf("formatCount(%d) = %q, expected %q", n, got, expected)
		}
	}
}
