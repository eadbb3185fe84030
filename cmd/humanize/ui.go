package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"humanizer/internal/readability"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#7a8699")
	warning = lipgloss.Color("#FFC107")

	titleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	boldStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
)

// statsLine renders the counts shown under every rewrite.
func statsLine(words, chars int, stats readability.Stats) string {
	return mutedStyle.Render(fmt.Sprintf("%d words · %d characters · reading ease %.1f (%s)",
		words, chars, stats.FleschReadingEase, readability.Grade(stats.FleschReadingEase)))
}

// table renders rows under a header with padded columns.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(titleStyle.Render(t.title))
		sb.WriteString("\n")
	}

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

	header := boldStyle.Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	sep := mutedStyle.Render("|")

	for i, h := range t.headers {
		sb.WriteString(header.Width(widths[i] + 2).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i := range t.headers {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			sb.WriteString(cell.Width(widths[i] + 2).Render(v))
			if i < len(t.headers)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// clip shortens s to n runes with an ellipsis.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
