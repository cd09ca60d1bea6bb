package domain

import "time"

// Stage names used in verdicts.
const (
	StageBuiltIn   = "builtin"
	StageExtension = "extension"
	StageDotfile   = "dotfile"
	StageGitignore = "gitignore"
)

type Verdict struct {
	Path    string `json:"path"`
	Ignored bool   `json:"ignored"`
	Stage   string `json:"stage,omitempty"`
	Rule    string `json:"rule,omitempty"`
	// RuleIndex is the position of Rule inside its stage, -1 when no rule matched.
	RuleIndex int `json:"rule_index"`
}

type RuleHit struct {
	Stage string `json:"stage"`
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

type RuleHits []RuleHit

func (r RuleHits) Len() int { return len(r) }
func (r RuleHits) Less(i, j int) bool {
	if r[i].Count != r[j].Count {
		return r[i].Count > r[j].Count
	}
	if r[i].Stage != r[j].Stage {
		return r[i].Stage < r[j].Stage
	}
	return r[i].Rule < r[j].Rule
}
func (r RuleHits) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Divergence is a path where strict Git semantics disagree with the engine.
type Divergence struct {
	Path          string `json:"path"`
	EngineIgnored bool   `json:"engine_ignored"`
	GitIgnored    bool   `json:"git_ignored"`
	GitLine       int    `json:"git_line,omitempty"`
}

type TimingBreakdown struct {
	TotalDuration     time.Duration `json:"total_duration"`
	TraversalDuration time.Duration `json:"traversal_duration"`
	CompileDuration   time.Duration `json:"compile_duration"`
	MatchDuration     time.Duration `json:"match_duration"`
	OutputDuration    time.Duration `json:"output_duration"`
}

type SelectionResult struct {
	// Verdicts holds one entry per candidate path, in input order.
	Verdicts    []Verdict
	Kept        []string
	Ignored     []Verdict
	RuleHits    RuleHits
	Divergences []Divergence
	FilesFound  int
	IgnoreFile  string
	Timing      TimingBreakdown
}

type JSONMetadata struct {
	Directory    string          `json:"directory"`
	IgnoreFile   string          `json:"ignore_file,omitempty"`
	FilesFound   int             `json:"files_found"`
	FilesKept    int             `json:"files_kept"`
	FilesIgnored int             `json:"files_ignored"`
	RuleHits     RuleHits        `json:"rule_hits"`
	Timing       TimingBreakdown `json:"timing"`
}

type JSONResult struct {
	Kept        []string     `json:"kept"`
	Ignored     []Verdict    `json:"ignored"`
	Divergences []Divergence `json:"divergences,omitempty"`
}

type JSONOutput struct {
	Result   JSONResult    `json:"result"`
	Metadata *JSONMetadata `json:"metadata,omitempty"`
}
