package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lox/bingocards/internal/card"
)

const (
	xlsxColWidth     = 12.0
	xlsxRowHeight    = 48.0
	xlsxFontSize     = 16.0
	xlsxSerialSize   = 7.0
	xlsxDefaultSheet = "Sheet1"
)

// XLSX renders cards into a workbook with one sheet per page.
type XLSX struct{}

// SheetName returns the sheet holding page n (1-based).
func SheetName(n int) string {
	return fmt.Sprintf("Page %d", n)
}

// Render writes doc as XLSX to w.
func (XLSX) Render(w io.Writer, doc Document) error {
	f, err := buildWorkbook(doc)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

type xlsxStyles struct {
	label, value, multi, free, title, serial int
}

func newXLSXStyles(f *excelize.File, doc Document) (xlsxStyles, error) {
	box := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	centred := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	var s xlsxStyles
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.label, &excelize.Style{
			Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
			Font:      &excelize.Font{Bold: true, Size: xlsxFontSize},
			Alignment: centred,
		}},
		{&s.value, &excelize.Style{Border: box, Font: &excelize.Font{Size: xlsxFontSize}, Alignment: centred}},
		{&s.multi, &excelize.Style{Border: box, Font: &excelize.Font{Size: doc.MultiLineFontSize}, Alignment: centred}},
		{&s.free, &excelize.Style{Border: box, Font: &excelize.Font{Size: xlsxFontSize * 1.5}, Alignment: centred}},
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: titleFontSize}, Alignment: centred}},
		{&s.serial, &excelize.Style{
			Font:      &excelize.Font{Size: xlsxSerialSize, Color: "626262"},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
	}

	for _, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return s, fmt.Errorf("create cell style: %w", err)
		}
		*def.id = id
	}
	return s, nil
}

func buildWorkbook(doc Document) (*excelize.File, error) {
	gridRows, gridCols, err := PageLayout(doc.CardsPerPage)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	fail := func(err error) (*excelize.File, error) {
		f.Close()
		return nil, err
	}

	created := doc.CreatedAt.UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    doc.Title,
		Creator:  "bingo",
		Created:  created,
		Modified: created,
	}); err != nil {
		return fail(fmt.Errorf("set document properties: %w", err))
	}

	styles, err := newXLSXStyles(f, doc)
	if err != nil {
		return fail(err)
	}

	for i, cards := range doc.Pages() {
		sheet := SheetName(i + 1)
		if i == 0 {
			err = f.SetSheetName(xlsxDefaultSheet, sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return fail(fmt.Errorf("create sheet %s: %w", sheet, err))
		}

		w := &sheetWriter{f: f, sheet: sheet, doc: doc, styles: styles}
		for j, c := range cards {
			row, col := slot(j, gridCols)
			if err := w.writeCard(c, row, col); err != nil {
				return fail(fmt.Errorf("%s: card %d: %w", sheet, c.Index, err))
			}
		}
		if err := w.size(cards, gridRows, gridCols); err != nil {
			return fail(fmt.Errorf("%s: %w", sheet, err))
		}
	}
	return f, nil
}

// sheetWriter places card blocks on one sheet. Cards sit in a grid of
// blocks separated by an empty row and column.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	doc    Document
	styles xlsxStyles
}

func (w *sheetWriter) blockHeight(c card.Card) int {
	h := len(c.Rows)
	if w.doc.Title != "" {
		h++
	}
	if c.Serial != "" {
		h++
	}
	return h
}

func (w *sheetWriter) origin(c card.Card, slotRow, slotCol int) (row, col int) {
	return 1 + slotRow*(w.blockHeight(c)+1), 1 + slotCol*(c.Size.Columns()+1)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *sheetWriter) writeCard(c card.Card, slotRow, slotCol int) error {
	row, col := w.origin(c, slotRow, slotCol)
	cols := c.Size.Columns()

	if w.doc.Title != "" {
		left, right := cellName(col, row), cellName(col+cols-1, row)
		if err := w.f.MergeCell(w.sheet, left, right); err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, left, w.doc.Title); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, left, right, w.styles.title); err != nil {
			return err
		}
		row++
	}

	for r, cells := range c.Rows {
		for i, cell := range cells {
			name := cellName(col+i, row+r)
			if err := w.f.SetCellValue(w.sheet, name, cell.Text); err != nil {
				return err
			}
			if err := w.f.SetCellStyle(w.sheet, name, name, w.styleFor(cell)); err != nil {
				return err
			}
		}
	}
	row += len(c.Rows)

	if c.Serial != "" {
		left, right := cellName(col, row), cellName(col+cols-1, row)
		if err := w.f.MergeCell(w.sheet, left, right); err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, left, c.Serial); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, left, right, w.styles.serial); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) styleFor(cell card.Cell) int {
	switch {
	case cell.Kind == card.LabelCell:
		return w.styles.label
	case cell.Kind == card.FreeCell:
		return w.styles.free
	case cell.IsMultiLine():
		return w.styles.multi
	}
	return w.styles.value
}

// size sets column widths and grid row heights for the used area.
func (w *sheetWriter) size(cards []card.Card, gridRows, gridCols int) error {
	if len(cards) == 0 {
		return nil
	}
	first := cards[0]
	lastCol := gridCols*(first.Size.Columns()+1) - 1
	last, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return err
	}
	if err := w.f.SetColWidth(w.sheet, "A", last, xlsxColWidth); err != nil {
		return err
	}

	for slotRow := range gridRows {
		top, _ := w.origin(first, slotRow, 0)
		if w.doc.Title != "" {
			top++
		}
		for r := range first.Rows {
			lines := maxLines(cards, r)
			if err := w.f.SetRowHeight(w.sheet, top+r, max(xlsxRowHeight, float64(lines)*w.doc.MultiLineFontSize*1.4)); err != nil {
				return err
			}
		}
	}
	return nil
}

// maxLines returns the most text lines in grid row r across cards.
func maxLines(cards []card.Card, r int) int {
	n := 1
	for _, c := range cards {
		if r >= len(c.Rows) {
			continue
		}
		for _, cell := range c.Rows[r] {
			n = max(n, strings.Count(cell.Text, "\n")+1)
		}
	}
	return n
}
