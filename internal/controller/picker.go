package controller

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mapforge/levelsweep/internal/model"
)

// PickCandidates runs an interactive selection over the delete candidates
// and returns the chosen subset. A nil slice with ok=false means the user
// aborted without confirming.
func PickCandidates(candidates []m.DeleteCandidate) ([]m.DeleteCandidate, bool, error) {
	model := newPickerModel(candidates)

	program := tea.NewProgram(model)

	final, err := program.Run()
	if err != nil {
		return nil, false, err
	}

	result, ok := final.(pickerModel)
	if !ok || result.aborted {
		return nil, false, nil
	}

	var selected []m.DeleteCandidate

	for i, candidate := range candidates {
		if result.selected[i] {
			selected = append(selected, candidate)
		}
	}

	return selected, true, nil
}

// pickerModel is the Bubble Tea model for toggling delete candidates.
type pickerModel struct {
	candidates []m.DeleteCandidate
	selected   []bool
	cursor     int
	height     int
	offset     int
	aborted    bool
	done       bool
}

func newPickerModel(candidates []m.DeleteCandidate) pickerModel {
	selected := make([]bool, len(candidates))
	for i, candidate := range candidates {
		selected[i] = candidate.PreSelected
	}

	return pickerModel{
		candidates: candidates,
		selected:   selected,
		height:     24,
	}
}

// Init implements tea.Model.
func (p pickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			p.aborted = true
			return p, tea.Quit
		case "enter":
			p.done = true
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.candidates)-1 {
				p.cursor++
			}
		case " ":
			if p.cursor < len(p.selected) {
				p.selected[p.cursor] = !p.selected[p.cursor]
			}
		case "a":
			for i := range p.selected {
				p.selected[i] = true
			}
		case "n":
			for i := range p.selected {
				p.selected[i] = false
			}
		}
	}

	p.scrollToCursor()

	return p, nil
}

func (p *pickerModel) scrollToCursor() {
	visible := p.visibleRows()

	if p.cursor < p.offset {
		p.offset = p.cursor
	}

	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}
}

func (p pickerModel) visibleRows() int {
	// Header plus footer take four lines.
	rows := p.height - 4
	if rows < 1 {
		rows = 1
	}

	return rows
}

// View implements tea.Model.
func (p pickerModel) View() string {
	if p.done || p.aborted {
		return ""
	}

	var b strings.Builder

	b.WriteString("Select files to delete (space toggle, a all, n none, enter confirm, q abort)\n\n")

	end := p.offset + p.visibleRows()
	if end > len(p.candidates) {
		end = len(p.candidates)
	}

	for i := p.offset; i < end; i++ {
		cursor := " "
		if i == p.cursor {
			cursor = ">"
		}

		check := " "
		if p.selected[i] {
			check = "x"
		}

		fmt.Fprintf(&b, "%s [%s] %s (%.2f MB)\n", cursor, check, p.candidates[i].Rel, p.candidates[i].SizeMB)
	}

	count := 0

	for _, sel := range p.selected {
		if sel {
			count++
		}
	}

	fmt.Fprintf(&b, "\n%d of %d selected\n", count, len(p.candidates))

	return b.String()
}
