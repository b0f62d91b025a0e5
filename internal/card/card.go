// Package card lays out bingo cards: randomized, duplicate-free grids of pool
// values with an optional header row and free space.
package card

import (
	"strings"

	"github.com/lox/bingocards/internal/pool"
)

// FreeMarker is the text of the free space.
const FreeMarker = "☆"

// CellKind says what a grid cell holds.
type CellKind int

const (
	ValueCell CellKind = iota
	LabelCell
	FreeCell
)

// Cell is one position of the printed grid.
type Cell struct {
	Kind CellKind
	Text string
}

// IsMultiLine reports whether the cell text spans several lines.
func (c Cell) IsMultiLine() bool {
	return strings.Contains(c.Text, "\n")
}

// Card is a finished grid ready for rendering. Rows includes the label row
// when HasLabels is set.
type Card struct {
	Index     int // 1-based position in the print run
	Serial    string
	Size      pool.Size
	HasLabels bool
	Rows      [][]Cell
}

// Values returns the drawn values on the card, row by row, excluding labels
// and the free space.
func (c Card) Values() []string {
	values := make([]string, 0, c.Size.Rows()*c.Size.Columns())
	for _, row := range c.Rows {
		for _, cell := range row {
			if cell.Kind == ValueCell {
				values = append(values, cell.Text)
			}
		}
	}
	return values
}

// Labels returns the header row texts, or nil without a header.
func (c Card) Labels() []string {
	if !c.HasLabels || len(c.Rows) == 0 {
		return nil
	}
	labels := make([]string, len(c.Rows[0]))
	for i, cell := range c.Rows[0] {
		labels[i] = cell.Text
	}
	return labels
}

// Body returns the value rows, without the header row.
func (c Card) Body() [][]Cell {
	if c.HasLabels && len(c.Rows) > 0 {
		return c.Rows[1:]
	}
	return c.Rows
}

// FreeSpace returns the grid position of the free space.
func (c Card) FreeSpace() (row, col int, ok bool) {
	for r, cells := range c.Rows {
		for col, cell := range cells {
			if cell.Kind == FreeCell {
				return r, col, true
			}
		}
	}
	return 0, 0, false
}

// Texts returns the printed text of every cell.
func (c Card) Texts() [][]string {
	texts := make([][]string, len(c.Rows))
	for r, cells := range c.Rows {
		texts[r] = make([]string, len(cells))
		for col, cell := range cells {
			texts[r][col] = cell.Text
		}
	}
	return texts
}
