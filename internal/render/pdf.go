package render

import (
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/lox/bingocards/internal/card"
)

// Page geometry in points on US Letter portrait.
const (
	pageMargin    = 36.0
	slotGutter    = 18.0
	titleFontSize = 20.0
	titleHeight   = 30.0
	serialHeight  = 12.0
	serialFont    = 7.0
	labelFontSize = 16.0
	lineSpacing   = 1.15
	fitRatio      = 0.85
)

// PDF renders cards as a PDF document, the default output.
type PDF struct{}

// Render writes doc as PDF to w.
func (PDF) Render(w io.Writer, doc Document) error {
	pdf, err := buildPDF(doc)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// buildPDF lays every page out without writing it anywhere.
func buildPDF(doc Document) (*fpdf.Fpdf, error) {
	gridRows, gridCols, err := PageLayout(doc.CardsPerPage)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("bingo", true)
	pdf.SetCreationDate(doc.CreatedAt)
	pdf.SetCatalogSort(true)
	registerFonts(pdf)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}

	p := &pdfPage{
		pdf:       pdf,
		doc:       doc,
		slotsWide: gridCols,
		slotsHigh: gridRows,
	}

	for _, cards := range doc.Pages() {
		pdf.AddPage()
		for i, c := range cards {
			row, col := slot(i, gridCols)
			p.drawCard(c, row, col)
		}
		if pdf.Err() {
			return nil, pdf.Error()
		}
	}
	return pdf, pdf.Error()
}

// pdfPage draws cards into the slots of the current page.
type pdfPage struct {
	pdf       *fpdf.Fpdf
	doc       Document
	slotsWide int
	slotsHigh int
}

func (p *pdfPage) drawCard(c card.Card, slotRow, slotCol int) {
	pageW, pageH := p.pdf.GetPageSize()
	slotW := (pageW - 2*pageMargin) / float64(p.slotsWide)
	slotH := (pageH - 2*pageMargin) / float64(p.slotsHigh)
	x := pageMargin + float64(slotCol)*slotW
	y := pageMargin + float64(slotRow)*slotH

	availW := slotW - slotGutter
	availH := slotH - slotGutter
	if p.doc.Title != "" {
		availH -= titleHeight
	}
	if c.Serial != "" {
		availH -= serialHeight
	}

	rows := len(c.Rows)
	cols := c.Size.Columns()
	cellW := availW / float64(cols)
	cellH := math.Min(cellW, availH/float64(rows))
	tableW := cellW * float64(cols)
	left := x + (slotW-tableW)/2
	top := y

	if p.doc.Title != "" {
		p.pdf.SetFont(fontFamily, "B", titleFontSize)
		p.pdf.SetXY(left, top)
		p.pdf.CellFormat(tableW, titleHeight, p.doc.Title, "", 0, "C", false, 0, "")
		top += titleHeight
	}

	p.pdf.SetLineWidth(1)
	for r, cells := range c.Rows {
		for col, cell := range cells {
			cx := left + float64(col)*cellW
			cy := top + float64(r)*cellH
			p.drawCell(cell, cx, cy, cellW, cellH)
		}
	}

	if c.Serial != "" {
		p.pdf.SetFont(fontFamily, "", serialFont)
		p.pdf.SetXY(left, top+float64(rows)*cellH)
		p.pdf.CellFormat(tableW, serialHeight, c.Serial, "", 0, "R", false, 0, "")
	}
}

func (p *pdfPage) drawCell(cell card.Cell, x, y, w, h float64) {
	switch cell.Kind {
	case card.LabelCell:
		// Header cells only get their bottom edge.
		p.pdf.Line(x, y+h, x+w, y+h)
		p.pdf.SetFont(fontFamily, "B", labelFontSize)
		p.pdf.SetXY(x, y)
		p.pdf.CellFormat(w, h, cell.Text, "", 0, "C", false, 0, "")
		return
	case card.FreeCell:
		p.pdf.Rect(x, y, w, h, "D")
		p.drawStar(x+w/2, y+h/2, math.Min(w, h)*0.35)
		return
	}

	p.pdf.Rect(x, y, w, h, "D")
	if cell.IsMultiLine() {
		p.drawLines(strings.Split(cell.Text, "\n"), x, y, w, h)
		return
	}
	p.pdf.SetFont(fontFamily, "", p.fitFontSize(cell.Text, w, h))
	p.pdf.SetXY(x, y)
	p.pdf.CellFormat(w, h, cell.Text, "", 0, "C", false, 0, "")
}

// fitFontSize returns the largest font size at which text fits the cell.
func (p *pdfPage) fitFontSize(text string, w, h float64) float64 {
	size := h * 0.5
	p.pdf.SetFont(fontFamily, "", size)
	if tw := p.pdf.GetStringWidth(text); tw > w*fitRatio {
		size *= w * fitRatio / tw
	}
	return size
}

// drawLines centres multi-line text in a cell at the configured font size.
func (p *pdfPage) drawLines(lines []string, x, y, w, h float64) {
	size := p.doc.MultiLineFontSize
	p.pdf.SetFont(fontFamily, "", size)
	lineH := size * lineSpacing
	ly := y + (h-lineH*float64(len(lines)))/2
	for _, line := range lines {
		p.pdf.SetXY(x, ly)
		p.pdf.CellFormat(w, lineH, line, "", 0, "C", false, 0, "")
		ly += lineH
	}
}

// drawStar outlines a five-pointed star. The Go font has no star glyph.
func (p *pdfPage) drawStar(cx, cy, r float64) {
	inner := r * 0.382
	points := make([]fpdf.PointType, 0, 10)
	for i := range 10 {
		radius := r
		if i%2 == 1 {
			radius = inner
		}
		angle := -math.Pi/2 + float64(i)*math.Pi/5
		points = append(points, fpdf.PointType{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	p.pdf.Polygon(points, "D")
}
