package controller

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mapforge/levelsweep/internal/model"
)

var (
	infoStyle    = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd     *cobra.Command
	verbose bool
}

// NewSimpleUI creates a new SimpleUI. With verbose false, info-level
// notifications are suppressed.
func NewSimpleUI(cmd *cobra.Command, verbose bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, verbose: verbose}
}

// Notify implements Notifier by printing the styled diagnostic.
func (s *SimpleUI) Notify(severity m.Severity, message string) {
	switch severity {
	case m.SeverityError:
		s.cmd.Println(errorStyle.Render("error: " + message))
	case m.SeverityWarning:
		s.cmd.Println(warningStyle.Render("warning: " + message))
	default:
		if s.verbose {
			s.cmd.Println(infoStyle.Render(message))
		}
	}
}

// DisplayCandidates renders the delete-candidate table.
func (s *SimpleUI) DisplayCandidates(candidates []m.DeleteCandidate) error {
	if len(candidates) == 0 {
		s.cmd.Println("no delete candidates found")
		return nil
	}

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Path", "Size (MB)", "Selected"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER})

	var totalMB float64

	for _, candidate := range candidates {
		selected := ""
		if candidate.PreSelected {
			selected = "x"
		}

		table.Append([]string{
			string(candidate.Rel),
			fmt.Sprintf("%.2f", candidate.SizeMB),
			selected,
		})

		totalMB += candidate.SizeMB
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(candidates)),
		fmt.Sprintf("%.2f", totalMB),
		"",
	})
	table.Render()

	s.cmd.Print(buffer.String())

	return nil
}

// DisplayDiff prints a unified diff.
func (s *SimpleUI) DisplayDiff(diff string) error {
	s.cmd.Print(diff)

	return nil
}

// DisplaySummary prints the operation result line.
func (s *SimpleUI) DisplaySummary(message string) error {
	s.cmd.Println(message)

	return nil
}
