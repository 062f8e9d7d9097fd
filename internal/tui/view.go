package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/devonepao/geo-cam/internal/panel"
)

// Style definitions
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8AE234")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)
)

func (m Model) View() string {
	values := []string{m.readout.Coordinates, m.readout.Altitude, m.readout.Accuracy, m.readout.DateTime}
	rows := make([]string, 0, len(values)+2)
	for i, v := range values {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(panel.Labels[i]+":"),
			valueStyle.Render(v)))
	}

	capture := "disabled"
	if m.enabled {
		capture = "ready"
	}
	rows = append(rows, "", fmt.Sprintf("Camera: %s  Capture: %s", m.facing, capture))
	if m.lastSaved != "" {
		rows = append(rows, "Last photo: "+m.lastSaved)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.brand))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	if m.prompt {
		b.WriteString(promptStyle.Render("Camera permission needed: " + m.promptErr + "  (r: retry)"))
		b.WriteString("\n")
	}
	bar := statusBarStyle
	if m.width > 0 {
		bar = bar.Width(m.width)
	}
	b.WriteString(bar.Render(fmt.Sprintf("%s | c: capture  f: flip  r: retry  q: quit", m.status)))
	return b.String()
}
