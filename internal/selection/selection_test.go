package selection

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/traversal"
)

func createTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tempDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	return tempDir
}

func TestSelectPaths(t *testing.T) {
	paths := []string{"test.txt", ".git/HEAD", "index.ts", "error.log", "important.log", "logo.svg", ".env"}

	tests := []struct {
		name     string
		text     string
		opts     Options
		expected []string
	}{
		{
			name:     "built-in and ignore file",
			text:     "*.log\n!important.log\n",
			expected: []string{"test.txt", "index.ts", "important.log", "logo.svg", ".env"},
		},
		{
			name:     "built-in disabled",
			text:     "",
			opts:     Options{NoBuiltIn: true},
			expected: paths,
		},
		{
			name:     "ignore file disabled",
			text:     "*.log\n",
			opts:     Options{NoGitignore: true},
			expected: []string{"test.txt", "index.ts", "error.log", "important.log", "logo.svg", ".env"},
		},
		{
			name:     "extensions and dotfiles",
			text:     "",
			opts:     Options{ExcludeExtensions: []string{"svg", ".log"}, ExcludeDotfiles: true},
			expected: []string{"test.txt", "index.ts"},
		},
		{
			name:     "user negation cannot undo an extension exclusion",
			text:     "!logo.svg\n",
			opts:     Options{ExcludeExtensions: []string{"svg"}},
			expected: []string{"test.txt", "index.ts", "error.log", "important.log", ".env"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SelectPaths(paths, tt.text, tt.opts)
			if !slices.Equal(result.Kept, tt.expected) {
				t.Errorf("Expected kept %v, got %v", tt.expected, result.Kept)
			}
			if len(result.Kept)+len(result.Ignored) != len(paths) {
				t.Errorf("Expected every path to be accounted for")
			}
			if result.FilesFound != len(paths) || len(result.Verdicts) != len(paths) {
				t.Errorf("Expected %d verdicts, got %d", len(paths), len(result.Verdicts))
			}
		})
	}
}

func TestSelectPathsStages(t *testing.T) {
	result := SelectPaths([]string{".git/HEAD", "a.log", "logo.svg"}, "*.log\n", Options{ExcludeExtensions: []string{"svg"}})

	stages := map[string]string{}
	for _, v := range result.Ignored {
		stages[v.Path] = v.Stage
	}

	expected := map[string]string{
		".git/HEAD": domain.StageBuiltIn,
		"a.log":     domain.StageGitignore,
		"logo.svg":  domain.StageExtension,
	}
	for path, stage := range expected {
		if stages[path] != stage {
			t.Errorf("Expected %s to be ignored by %s, got %q", path, stage, stages[path])
		}
	}
	if len(result.RuleHits) != 3 {
		t.Errorf("Expected 3 rule hits, got %+v", result.RuleHits)
	}
}

func TestSelectPathsCompareGit(t *testing.T) {
	paths := []string{"dist/bundle.js", "web/dist/bundle.js", ".git/dist/bundle.js"}
	result := SelectPaths(paths, "dist/bundle.js\n", Options{CompareGit: true})

	if len(result.Divergences) != 1 || result.Divergences[0].Path != "web/dist/bundle.js" {
		t.Errorf("Expected one divergence for web/dist/bundle.js, got %+v", result.Divergences)
	}

	result = SelectPaths(paths, "dist/bundle.js\n", Options{})
	if result.Divergences != nil {
		t.Errorf("Expected no comparison without CompareGit, got %+v", result.Divergences)
	}
}

func TestSelectPathsEmpty(t *testing.T) {
	result := SelectPaths(nil, "*.log", Options{})
	if result.Kept == nil || result.Ignored == nil {
		t.Error("Expected empty non-nil lists")
	}
	if result.FilesFound != 0 {
		t.Errorf("Expected 0 files found, got %d", result.FilesFound)
	}
}

func TestSelect(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		".gitignore":                "*.log\ndist/\n",
		"src/app.ts":                "export {}",
		"error.log":                 "boom",
		"dist/bundle.js":            "",
		"node_modules/pkg/index.js": "",
		".DS_Store":                 "",
	})

	calls := 0
	result, err := Select(dir, Options{}, func(found, processed int) { calls++ })
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	expected := []string{".gitignore", "src/app.ts"}
	if !slices.Equal(result.Kept, expected) {
		t.Errorf("Expected kept %v, got %v", expected, result.Kept)
	}
	if result.IgnoreFile != traversal.IgnoreFileName {
		t.Errorf("Expected ignore file %q, got %q", traversal.IgnoreFileName, result.IgnoreFile)
	}
	if result.FilesFound != 6 {
		t.Errorf("Expected 6 files found, got %d", result.FilesFound)
	}
	if calls == 0 {
		t.Error("Expected progress to be reported")
	}
}

func TestSelectExplicitIgnoreFile(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		".gitignore": "*.ts\n",
		"a.ts":       "",
		"b.md":       "",
	})
	custom := filepath.Join(t.TempDir(), "upload.ignore")
	if err := os.WriteFile(custom, []byte("*.md\n"), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	result, err := Select(dir, Options{IgnoreFile: custom}, nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if !slices.Equal(result.Kept, []string{".gitignore", "a.ts"}) {
		t.Errorf("Expected the explicit ignore file to be used, got %v", result.Kept)
	}

	_, err = Select(dir, Options{IgnoreFile: filepath.Join(dir, "missing")}, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestSelectNotDirectory(t *testing.T) {
	dir := createTestDir(t, map[string]string{"file.txt": ""})

	_, err := Select(filepath.Join(dir, "file.txt"), Options{}, nil)
	if !errors.Is(err, traversal.ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}

func TestRun(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		".gitignore": "*.log\n",
		"main.go":    "package main",
		"debug.log":  "",
	})

	var stdout, stderr bytes.Buffer
	if err := Run(&stdout, &stderr, dir, Options{}, "json", true); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var out domain.JSONOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if !slices.Equal(out.Result.Kept, []string{".gitignore", "main.go"}) {
		t.Errorf("Unexpected kept list %v", out.Result.Kept)
	}
	if out.Metadata == nil || out.Metadata.FilesFound != 3 || out.Metadata.IgnoreFile != ".gitignore" {
		t.Errorf("Unexpected metadata %+v", out.Metadata)
	}
	if !strings.Contains(stderr.String(), "Files ignored: 1") {
		t.Errorf("Expected summary on stderr, got %q", stderr.String())
	}
}

func TestRunUnknownFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := Run(&stdout, &stderr, t.TempDir(), Options{}, "yaml", false); err == nil {
		t.Error("Expected error for unknown format")
	}
}
