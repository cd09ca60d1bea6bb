package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ogdakke/pathfilter/internal/domain"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatList  = "list"
)

var formats = []string{FormatTable, FormatJSON, FormatCSV, FormatList}

func Formats() []string {
	return slices.Clone(formats)
}

func ValidFormat(kind string) bool {
	return slices.Contains(formats, kind)
}

type Outputter struct {
	w       io.Writer
	header  *color.Color
	kept    *color.Color
	ignored *color.Color
	faint   *color.Color
}

// NewOutputter writes to w. Colors are used only when w is a terminal and
// color output has not been disabled globally (NO_COLOR).
func NewOutputter(w io.Writer) *Outputter {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = !color.NoColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	return newOutputter(w, useColor)
}

func newOutputter(w io.Writer, useColor bool) *Outputter {
	o := &Outputter{
		w:       w,
		header:  color.New(color.Bold),
		kept:    color.New(color.FgGreen),
		ignored: color.New(color.FgRed),
		faint:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{o.header, o.kept, o.ignored, o.faint} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return o
}

func (o *Outputter) Output(kind string, result domain.SelectionResult, directory string, includeMetadata bool) error {
	switch kind {
	case FormatJSON:
		return o.OutputJSON(result, directory, includeMetadata)
	case FormatCSV:
		return o.OutputCSV(result.Verdicts)
	case FormatList:
		return o.OutputList(result.Kept)
	case FormatTable, "":
		o.OutputTable(result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected one of %s)", kind, strings.Join(formats, ", "))
	}
}

func (o *Outputter) OutputTable(result domain.SelectionResult) {
	width := 60
	rule := strings.Repeat("-", width)

	o.header.Fprintf(o.w, "Kept files (%d):\n", len(result.Kept))
	fmt.Fprintln(o.w, rule)
	for _, path := range result.Kept {
		o.kept.Fprintln(o.w, path)
	}
	fmt.Fprintln(o.w, rule)

	if len(result.Ignored) > 0 {
		o.header.Fprintf(o.w, "\nIgnored files (%d):\n", len(result.Ignored))
		fmt.Fprintln(o.w, rule)
		fmt.Fprintf(o.w, "%-36s %-10s %s\n", "Path", "Stage", "Rule")
		fmt.Fprintln(o.w, rule)
		for _, v := range result.Ignored {
			o.ignored.Fprintf(o.w, "%-36s", v.Path)
			o.faint.Fprintf(o.w, " %-10s %s\n", v.Stage, v.Rule)
		}
		fmt.Fprintln(o.w, rule)
	}

	if len(result.RuleHits) > 0 {
		o.header.Fprintln(o.w, "\nRule hits:")
		fmt.Fprintln(o.w, rule)
		fmt.Fprintf(o.w, "%-10s %-10s %s\n", "Count", "Stage", "Rule")
		fmt.Fprintln(o.w, rule)
		for _, hit := range result.RuleHits {
			fmt.Fprintf(o.w, "%-10d %-10s %s\n", hit.Count, hit.Stage, hit.Rule)
		}
		fmt.Fprintln(o.w, rule)
	}

	if len(result.Divergences) > 0 {
		o.header.Fprintf(o.w, "\nDiffers from git (%d):\n", len(result.Divergences))
		fmt.Fprintln(o.w, rule)
		fmt.Fprintf(o.w, "%-36s %-10s %s\n", "Path", "Engine", "Git")
		fmt.Fprintln(o.w, rule)
		for _, d := range result.Divergences {
			fmt.Fprintf(o.w, "%-36s %-10s %s\n", d.Path, decision(d.EngineIgnored), gitDecision(d))
		}
		fmt.Fprintln(o.w, rule)
	}
}

func decision(ignored bool) string {
	if ignored {
		return "ignored"
	}
	return "kept"
}

func gitDecision(d domain.Divergence) string {
	if d.GitLine > 0 {
		return fmt.Sprintf("%s (line %d)", decision(d.GitIgnored), d.GitLine)
	}
	return decision(d.GitIgnored)
}

// OutputCSV writes one row per verdict.
func (o *Outputter) OutputCSV(verdicts []domain.Verdict) error {
	writer := csv.NewWriter(o.w)

	if err := writer.Write([]string{"path", "ignored", "stage", "rule"}); err != nil {
		return err
	}
	for _, v := range verdicts {
		row := []string{v.Path, strconv.FormatBool(v.Ignored), v.Stage, v.Rule}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (o *Outputter) OutputJSON(result domain.SelectionResult, directory string, includeMetadata bool) error {
	output := domain.JSONOutput{
		Result: domain.JSONResult{
			Kept:        nonNil(result.Kept),
			Ignored:     nonNil(result.Ignored),
			Divergences: result.Divergences,
		},
	}

	if includeMetadata {
		output.Metadata = &domain.JSONMetadata{
			Directory:    directory,
			IgnoreFile:   result.IgnoreFile,
			FilesFound:   result.FilesFound,
			FilesKept:    len(result.Kept),
			FilesIgnored: len(result.Ignored),
			RuleHits:     nonNil(result.RuleHits),
			Timing:       result.Timing,
		}
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(o.w, string(data))
	return err
}

// OutputList prints the kept paths, one per line.
func (o *Outputter) OutputList(kept []string) error {
	for _, path := range kept {
		if _, err := fmt.Fprintln(o.w, path); err != nil {
			return err
		}
	}
	return nil
}

func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
