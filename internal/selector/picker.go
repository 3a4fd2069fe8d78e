package selector

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/roelfdiedericks/llmcli/internal/catalog"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Pick shows an arrow-key menu instead of the numbered prompt.
// Only usable when stdin is a terminal.
func Pick(models []catalog.Model) (catalog.Model, error) {
	if len(models) == 0 {
		return catalog.Model{}, catalog.ErrEmptyCatalog
	}

	options := make([]huh.Option[int], len(models))
	for i, m := range models {
		label := m.ID
		if m.Name != "" && m.Name != m.ID {
			label = fmt.Sprintf("%s  (%s)", m.ID, m.Name)
		}
		options[i] = huh.NewOption(label, i)
	}

	choice := 0
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select a model").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return catalog.Model{}, err
	}

	return models[choice], nil
}
