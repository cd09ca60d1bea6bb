// Package snapshot compares selection results against golden JSON files.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/selection"
)

type TestSnapshot struct {
	TestName    string              `json:"test_name"`
	Options     TestOptions         `json:"options"`
	IgnoreText  string              `json:"ignore_text"`
	Kept        []string            `json:"kept"`
	Ignored     []IgnoredPath       `json:"ignored"`
	RuleHits    domain.RuleHits     `json:"rule_hits"`
	Divergences []domain.Divergence `json:"divergences,omitempty"`
}

type IgnoredPath struct {
	Path  string `json:"path"`
	Stage string `json:"stage"`
	Rule  string `json:"rule"`
}

type TestOptions struct {
	NoBuiltIn         bool     `json:"no_builtin"`
	ExcludeExtensions []string `json:"exclude_extensions,omitempty"`
	ExcludeDotfiles   bool     `json:"exclude_dotfiles"`
	CompareGit        bool     `json:"compare_git"`
	WorkerCount       int      `json:"worker_count"`
}

func (o TestOptions) selection() selection.Options {
	return selection.Options{
		NoBuiltIn:         o.NoBuiltIn,
		ExcludeExtensions: o.ExcludeExtensions,
		ExcludeDotfiles:   o.ExcludeDotfiles,
		CompareGit:        o.CompareGit,
		Workers:           o.WorkerCount,
	}
}

type SnapshotTester struct {
	snapshotDir  string
	baselineMode bool
}

func NewSnapshotTester(snapshotDir string, baselineMode bool) *SnapshotTester {
	return &SnapshotTester{
		snapshotDir:  snapshotDir,
		baselineMode: baselineMode,
	}
}

// Test classifies in-memory paths and checks the result against the golden
// file named after testName.
func (st *SnapshotTester) Test(t *testing.T, testName string, paths []string, ignoreText string, options TestOptions) {
	t.Helper()

	result := selection.SelectPaths(paths, ignoreText, options.selection())
	st.check(t, newSnapshot(testName, ignoreText, options, result))
}

// TestDirectory walks directory and checks the result against the golden file
// named after testName. The ignore text recorded is the one found on disk.
func (st *SnapshotTester) TestDirectory(t *testing.T, testName string, directory string, options TestOptions) {
	t.Helper()

	result, err := selection.Select(directory, options.selection(), nil)
	if err != nil {
		t.Fatalf("Selection failed: %v", err)
	}

	ignoreText := ""
	if result.IgnoreFile != "" {
		data, err := os.ReadFile(filepath.Join(directory, result.IgnoreFile))
		if err != nil {
			t.Fatalf("Failed to read ignore file: %v", err)
		}
		ignoreText = string(data)
	}

	st.check(t, newSnapshot(testName, ignoreText, options, result))
}

func newSnapshot(testName, ignoreText string, options TestOptions, result domain.SelectionResult) TestSnapshot {
	snapshot := TestSnapshot{
		TestName:    testName,
		Options:     options,
		IgnoreText:  ignoreText,
		Kept:        result.Kept,
		Ignored:     make([]IgnoredPath, 0, len(result.Ignored)),
		RuleHits:    result.RuleHits,
		Divergences: result.Divergences,
	}
	for _, v := range result.Ignored {
		snapshot.Ignored = append(snapshot.Ignored, IgnoredPath{Path: v.Path, Stage: v.Stage, Rule: v.Rule})
	}
	return snapshot
}

func (st *SnapshotTester) check(t *testing.T, snapshot TestSnapshot) {
	t.Helper()

	snapshotPath := filepath.Join(st.snapshotDir, snapshot.TestName+".json")
	if st.baselineMode {
		st.createSnapshot(t, snapshot, snapshotPath)
	} else {
		st.compareSnapshot(t, snapshot, snapshotPath)
	}
}

func (st *SnapshotTester) createSnapshot(t *testing.T, snapshot TestSnapshot, snapshotPath string) {
	t.Helper()

	if err := os.MkdirAll(st.snapshotDir, 0755); err != nil {
		t.Fatalf("Failed to create snapshot directory: %v", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}

	if err := os.WriteFile(snapshotPath, append(data, '\n'), 0644); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	t.Logf("Created snapshot: %s", snapshotPath)
}

func (st *SnapshotTester) compareSnapshot(t *testing.T, actual TestSnapshot, snapshotPath string) {
	t.Helper()

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		t.Fatalf("Failed to read snapshot %s: %v. Run with UPDATE_SNAPSHOTS=1 to create baseline.", snapshotPath, err)
	}

	var expected TestSnapshot
	if err := json.Unmarshal(data, &expected); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}

	// Both sides go through the same encoder so formatting never matters.
	actualJSON, _ := json.MarshalIndent(actual, "", "  ")
	expectedJSON, _ := json.MarshalIndent(expected, "", "  ")

	if string(actualJSON) != string(expectedJSON) {
		t.Errorf("Snapshot mismatch for %s\n%s", actual.TestName, Diff(string(expectedJSON), string(actualJSON)))
	}
}

func IsBaselineMode() bool {
	return os.Getenv("UPDATE_SNAPSHOTS") == "1" ||
		os.Getenv("BASELINE_MODE") == "1" ||
		strings.Contains(strings.Join(os.Args, " "), "-update-snapshots")
}
