package controller

import (
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stockroom/internal/domain/entity"
)

// Styles holds the lipgloss styles used by the menu.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles binds styles to out so colour is only emitted on a terminal.
func NewStyles(out io.Writer) Styles {
	r := lipgloss.NewRenderer(out)
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Bold:    r.NewStyle().Bold(true),
		Body:    r.NewStyle(),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#6b7685")),
		Success: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#e53935")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFC107")),
	}
}

type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) addRow(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *table) len() int {
	return len(t.rows)
}

func (t *table) view(styles Styles) string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// padding on both sides
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	header := styles.Bold.Padding(0, 1)
	cell := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	var sb strings.Builder
	writeRow := func(style lipgloss.Style, row []string) {
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			sb.WriteString(style.Width(widths[i]).Render(c))
			if i < len(widths)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header, t.headers)
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range t.rows {
		writeRow(cell, row)
	}
	return sb.String()
}

func itemTable(items iter.Seq[*entity.Item], withCategory bool) *table {
	headers := []string{"ID", "Name", "Quantity", "Price"}
	if withCategory {
		headers = append(headers, "Category")
	}
	t := newTable(headers...)
	for it := range items {
		row := []string{it.ID, it.Name, strconv.Itoa(it.Quantity), it.Price.StringFixed(2)}
		if withCategory {
			row = append(row, it.Category.String())
		}
		t.addRow(row...)
	}
	return t
}
