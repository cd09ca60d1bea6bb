package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/logger"
	"github.com/ogdakke/pathfilter/internal/selection"
)

type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterKept
	FilterIgnored
)

func (m FilterMode) String() string {
	switch m {
	case FilterKept:
		return "Kept"
	case FilterIgnored:
		return "Ignored"
	default:
		return "All"
	}
}

type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	All     key.Binding
	Kept    key.Binding
	Ignored key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	Kept:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "kept")),
	Ignored: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "ignored")),
}

func (k keyMap) help() string {
	var parts []string
	for _, b := range []key.Binding{k.All, k.Kept, k.Ignored, k.Refresh, k.Quit} {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, fmt.Sprintf("'%s' %s", b.Help().Key, b.Help().Desc))
	}
	return "Controls: " + strings.Join(parts, " | ") + " | ↑↓ scroll"
}

const maxChartBars = 12

type Model struct {
	directory string
	opts      selection.Options
	fromJSON  bool

	result   domain.SelectionResult
	filtered []domain.Verdict

	chart barchart.Model
	list  viewport.Model

	ready      bool
	loading    bool
	err        error
	filterMode FilterMode

	width  int
	height int

	filesFound     int
	filesProcessed int
	progressChan   chan progressMsg
}

type selectionCompleteMsg struct {
	result domain.SelectionResult
	err    error
}

type progressMsg struct {
	filesFound     int
	filesProcessed int
}

type selectionStartedMsg struct {
	progressChan chan progressMsg
	doneChan     chan selectionCompleteMsg
}

func NewModel(directory string, opts selection.Options) Model {
	return Model{
		directory: directory,
		opts:      opts,
		loading:   true,
		list:      viewport.New(80, 10),
	}
}

// NewModelFromJSON reviews a previously saved JSON result. Refresh is disabled.
func NewModelFromJSON(out domain.JSONOutput) Model {
	result := domain.SelectionResult{
		Kept:        out.Result.Kept,
		Ignored:     out.Result.Ignored,
		Divergences: out.Result.Divergences,
	}
	for _, path := range out.Result.Kept {
		result.Verdicts = append(result.Verdicts, domain.Verdict{Path: path, RuleIndex: -1})
	}
	result.Verdicts = append(result.Verdicts, out.Result.Ignored...)
	sort.SliceStable(result.Verdicts, func(i, j int) bool {
		return result.Verdicts[i].Path < result.Verdicts[j].Path
	})

	directory := "(from JSON)"
	if out.Metadata != nil {
		directory = out.Metadata.Directory
		result.FilesFound = out.Metadata.FilesFound
		result.IgnoreFile = out.Metadata.IgnoreFile
		result.RuleHits = out.Metadata.RuleHits
		result.Timing = out.Metadata.Timing
	} else {
		result.FilesFound = len(result.Verdicts)
	}
	if len(result.RuleHits) == 0 {
		result.RuleHits = countHits(out.Result.Ignored)
	}

	m := Model{
		directory: directory,
		fromJSON:  true,
		result:    result,
		ready:     true,
		list:      viewport.New(80, 10),
	}
	m.applyFilter()
	m.updateChart()
	return m
}

func countHits(ignored []domain.Verdict) domain.RuleHits {
	counts := make(map[domain.RuleHit]int)
	for _, v := range ignored {
		counts[domain.RuleHit{Stage: v.Stage, Rule: v.Rule}]++
	}
	hits := make(domain.RuleHits, 0, len(counts))
	for hit, count := range counts {
		hit.Count = count
		hits = append(hits, hit)
	}
	sort.Sort(hits)
	return hits
}

func (m Model) Init() tea.Cmd {
	if m.fromJSON {
		return nil
	}
	return startSelection(m.directory, m.opts)
}

func listenForProgress(progressChan <-chan progressMsg) tea.Cmd {
	return func() tea.Msg {
		progress, ok := <-progressChan
		if !ok {
			return nil
		}
		return progress
	}
}

func listenForCompletion(doneChan <-chan selectionCompleteMsg) tea.Cmd {
	return func() tea.Msg {
		return <-doneChan
	}
}

func startSelection(directory string, opts selection.Options) tea.Cmd {
	return func() tea.Msg {
		logger.Info("Starting async TUI selection", "directory", directory)

		progressChan := make(chan progressMsg, 10)
		doneChan := make(chan selectionCompleteMsg, 1)

		go func() {
			defer close(progressChan)
			defer close(doneChan)

			progressFunc := func(filesFound, filesProcessed int) {
				select {
				case progressChan <- progressMsg{filesFound: filesFound, filesProcessed: filesProcessed}:
				default:
					// Channel full, skip update
				}
			}

			result, err := selection.Select(directory, opts, progressFunc)
			doneChan <- selectionCompleteMsg{result: result, err: err}
		}()

		return selectionStartedMsg{
			progressChan: progressChan,
			doneChan:     doneChan,
		}
	}
}

func (m *Model) applyFilter() {
	m.filtered = nil
	for _, v := range m.result.Verdicts {
		switch {
		case m.filterMode == FilterKept && v.Ignored:
			continue
		case m.filterMode == FilterIgnored && !v.Ignored:
			continue
		}
		m.filtered = append(m.filtered, v)
	}
	m.list.SetContent(m.renderList())
	m.list.GotoTop()
}

var (
	keptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ignoredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) renderList() string {
	if len(m.filtered) == 0 {
		return ruleStyle.Render("No paths")
	}

	var b strings.Builder
	for _, v := range m.filtered {
		if v.Ignored {
			b.WriteString(ignoredStyle.Render("✗ " + v.Path))
			b.WriteString(ruleStyle.Render(fmt.Sprintf("  %s: %s", v.Stage, v.Rule)))
		} else {
			b.WriteString(keptStyle.Render("✓ " + v.Path))
			if v.Rule != "" {
				b.WriteString(ruleStyle.Render(fmt.Sprintf("  %s: %s", v.Stage, v.Rule)))
			}
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.ready {
			m.updateChart()
		}
		return m, nil

	case selectionStartedMsg:
		m.progressChan = msg.progressChan
		return m, tea.Batch(
			listenForProgress(msg.progressChan),
			listenForCompletion(msg.doneChan),
		)

	case progressMsg:
		if m.loading && msg.filesFound > 0 {
			m.filesFound = msg.filesFound
			m.filesProcessed = msg.filesProcessed
			return m, listenForProgress(m.progressChan)
		}
		return m, nil

	case selectionCompleteMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.result = msg.result
		m.ready = true
		m.applyFilter()
		m.updateChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			if m.ready && !m.fromJSON {
				m.loading = true
				m.ready = false
				return m, startSelection(m.directory, m.opts)
			}
			return m, nil
		case key.Matches(msg, keys.All):
			m.setFilter(FilterAll)
			return m, nil
		case key.Matches(msg, keys.Kept):
			m.setFilter(FilterKept)
			return m, nil
		case key.Matches(msg, keys.Ignored):
			m.setFilter(FilterIgnored)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) setFilter(mode FilterMode) {
	if !m.ready {
		return
	}
	m.filterMode = mode
	m.applyFilter()
}

func (m *Model) chartSize() (int, int) {
	// Account for border (2 chars) and padding (4 chars) and some margin
	width := max(m.width-7, 30)
	height := max(m.height/3, 8)
	return width, height
}

func (m *Model) resize() {
	_, chartHeight := m.chartSize()
	m.list.Width = max(m.width, 20)
	// title, info, stats, timing, chart window chrome, controls
	m.list.Height = max(m.height-chartHeight-12, 3)
}

func (m *Model) updateChart() {
	width, height := m.chartSize()
	m.chart = barchart.New(width, height)

	if len(m.result.RuleHits) == 0 {
		return
	}

	colors := []string{"9", "11", "14", "13", "12", "10", "6", "5", "4", "3"}
	maxBars := min(len(m.result.RuleHits), maxChartBars, max(width/12, 1))

	var barData []barchart.BarData
	for i, hit := range m.result.RuleHits[:maxBars] {
		label := hit.Rule
		if r := []rune(label); len(r) > 10 {
			label = string(r[:9]) + "…"
		}
		barData = append(barData, barchart.BarData{
			Label: fmt.Sprintf("%s:%s", label, formatCount(hit.Count)),
			Values: []barchart.BarValue{
				{Name: hit.Stage, Value: float64(hit.Count), Style: lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i%len(colors)]))},
			},
		})
	}

	m.chart.PushAll(barData)
	m.chart.Draw()
}

func formatCount(n int) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	case n >= 1000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return strconv.Itoa(n)
	}
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit", m.err)
	}

	if m.loading {
		progressText := "Selecting files..."
		if m.filesFound > 0 {
			progressText = fmt.Sprintf("Files found: %d, Classified: %d", m.filesFound, m.filesProcessed)
		}
		return progressText + "\n\nPress 'q' to quit"
	}

	if !m.ready {
		return "Loading...\n\nPress 'q' to quit"
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14")).
		Render("Upload Selection")

	ignoreFile := m.result.IgnoreFile
	if ignoreFile == "" {
		ignoreFile = "none"
	}
	info := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(fmt.Sprintf("Directory: %s | Ignore file: %s | Filter: %s | Showing: %d/%d",
			m.directory, ignoreFile, m.filterMode, len(m.filtered), len(m.result.Verdicts)))

	statsText := fmt.Sprintf("Found: %d | Kept: %d | Ignored: %d",
		m.result.FilesFound, len(m.result.Kept), len(m.result.Ignored))
	if len(m.result.Divergences) > 0 {
		statsText += fmt.Sprintf(" | Differs from git: %d", len(m.result.Divergences))
	}
	stats := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6")).
		Render(statsText)

	timing := lipgloss.NewStyle().
		Foreground(lipgloss.Color("5")).
		Render(fmt.Sprintf("Timing: Total %s | Traversal %s | Compile %s | Match %s",
			m.result.Timing.TotalDuration,
			m.result.Timing.TraversalDuration,
			m.result.Timing.CompileDuration,
			m.result.Timing.MatchDuration))

	chartBody := m.chart.View()
	if len(m.result.RuleHits) == 0 {
		chartBody = "No rule hits"
	}
	chartWindow := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 2).
		Render(chartBody)

	controls := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(keys.help())

	return fmt.Sprintf("%s\n%s\n%s\n%s\n\n%s\n\n%s\n\n%s", title, info, stats, timing, chartWindow, m.list.View(), controls)
}
