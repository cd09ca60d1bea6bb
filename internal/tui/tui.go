package tui

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ogdakke/pathfilter/internal/domain"
	"github.com/ogdakke/pathfilter/internal/selection"
)

func RunTUI(directory string, opts selection.Options) error {
	model := NewModel(directory, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

// RunTUIFromJSON reviews output previously written with --format json.
func RunTUIFromJSON(jsonFile string) error {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	var jsonOutput domain.JSONOutput
	if err := json.Unmarshal(data, &jsonOutput); err != nil {
		return fmt.Errorf("failed to parse JSON file: %w", err)
	}

	p := tea.NewProgram(
		NewModelFromJSON(jsonOutput),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
