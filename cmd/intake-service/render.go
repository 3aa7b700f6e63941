package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/devcatalyst/intake-service/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	statusStyles = map[models.ReviewStatus]lipgloss.Style{
		models.StatusPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		models.StatusViewed:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		models.StatusAccepted: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		models.StatusRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
)

func renderStatus(s models.ReviewStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// table renders rows under headers with columns sized to their widest cell.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(titleStyle.Render(t.title))
		sb.WriteString("\n")
	}
	sep := mutedStyle.Render("|")
	line := func(style lipgloss.Style, cells []string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(style.Width(widths[i] + 2).Render(cell))
			if i < len(widths)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	line(headerStyle, t.headers)
	for _, row := range t.rows {
		line(cellStyle, row)
	}
	if len(t.rows) == 0 {
		sb.WriteString(mutedStyle.Render("(no rows)"))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
