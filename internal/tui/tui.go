package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"drafty/internal/core"
)

// model represents the state of the draft review TUI.
type model struct {
	drafts      []core.Draft
	selectedIdx int
	width       int
	height      int
	quitting    bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func initialModel(drafts []core.Draft) model {
	return model{drafts: drafts}
}

// Init is the first command that will be run. We don't need any for now.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model accordingly.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.drafts)-1 {
				m.selectedIdx++
			}
		}
	}

	return m, nil
}

// View renders the draft list with the selected draft's detail below it.
func (m model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.drafts) == 0 {
		return "No drafts to review.\n\nPress q to quit.\n"
	}

	s := titleStyle.Render(fmt.Sprintf("Drafts (%d)", len(m.drafts))) + "\n\n"

	for i, draft := range m.drafts {
		line := truncateLine(draft.Text, maxInt(20, m.width-6))
		if i == m.selectedIdx {
			s += selectedStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}

	selected := m.drafts[m.selectedIdx]
	detail := selected.Text + "\n\n"
	if selected.Community != nil {
		detail += dimStyle.Render("community: "+*selected.Community) + "\n"
	} else {
		detail += dimStyle.Render("community: none") + "\n"
	}
	if selected.Reasoning != "" {
		detail += dimStyle.Render("reasoning: " + selected.Reasoning)
	}

	s += "\n" + detailStyle.Render(detail) + "\n"
	s += dimStyle.Render("\nup/down to browse, q to quit\n")
	return s
}

// ReviewDrafts launches the interactive draft browser.
func ReviewDrafts(drafts []core.Draft) error {
	p := tea.NewProgram(initialModel(drafts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}

func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
