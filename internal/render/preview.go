package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/bingocards/internal/card"
)

var (
	previewBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	previewHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true).Align(lipgloss.Center)
	previewCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Align(lipgloss.Center).Padding(0, 1)
	previewFree   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true).Align(lipgloss.Center).Padding(0, 1)
	previewTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Bold(true).Padding(0, 1)
	previewSerial = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Preview prints cards to w as terminal tables.
func Preview(w io.Writer, cards []card.Card, title string) error {
	for i, c := range cards {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, PreviewCard(c, title)); err != nil {
			return err
		}
	}
	return nil
}

// PreviewCard renders one card as a lipgloss table.
func PreviewCard(c card.Card, title string) string {
	body := c.Body()
	rows := make([][]string, 0, len(body))
	for _, cells := range body {
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = strings.ReplaceAll(cell.Text, "\n", " ")
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(previewBorder).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return previewHeader
			}
			if row >= 0 && row < len(body) && col < len(body[row]) && body[row][col].Kind == card.FreeCell {
				return previewFree
			}
			return previewCell
		})
	if labels := c.Labels(); labels != nil {
		t = t.Headers(labels...).BorderHeader(true)
	}

	var b strings.Builder
	heading := fmt.Sprintf("Card %d", c.Index)
	if title != "" {
		heading = title + " · " + heading
	}
	b.WriteString(previewTitle.Render(heading))
	b.WriteString("\n")
	b.WriteString(t.Render())
	if c.Serial != "" {
		b.WriteString("\n")
		b.WriteString(previewSerial.Render(c.Serial))
	}
	return b.String()
}
