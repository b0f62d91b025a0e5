// Package render turns laid-out bingo cards into printable documents.
package render

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/bingocards/internal/card"
	"github.com/lox/bingocards/internal/fileutil"
	"github.com/lox/bingocards/internal/pool"
)

// Defaults for a print run.
const (
	DefaultCardsPerPage      = 4
	DefaultMultiLineFontSize = 12
	DefaultFile              = "bingo_cards.pdf"
)

// CardsPerPageChoices are the supported page layouts.
var CardsPerPageChoices = []int{1, 2, 4}

// Document is everything a renderer needs to print a run of cards.
type Document struct {
	Cards             []card.Card
	Title             string
	CardsPerPage      int
	MultiLineFontSize float64
	CreatedAt         time.Time
}

// Validate checks the document settings.
func (d Document) Validate() error {
	if _, _, err := PageLayout(d.CardsPerPage); err != nil {
		return err
	}
	if d.MultiLineFontSize <= 0 {
		return pool.Configf("multi-line font size must be positive, got %v", d.MultiLineFontSize)
	}
	return nil
}

// PageLayout maps cards per page to the page sub-grid as rows x columns.
func PageLayout(perPage int) (rows, cols int, err error) {
	switch perPage {
	case 1:
		return 1, 1, nil
	case 2:
		return 2, 1, nil
	case 4:
		return 2, 2, nil
	}
	return 0, 0, pool.Configf("cards per page must be one of 1, 2 or 4, got %d", perPage)
}

// Pages splits the cards into page-sized groups. The last page holds the
// remainder and may be partially filled.
func (d Document) Pages() [][]card.Card {
	if d.CardsPerPage < 1 {
		return nil
	}
	var pages [][]card.Card
	for start := 0; start < len(d.Cards); start += d.CardsPerPage {
		end := min(start+d.CardsPerPage, len(d.Cards))
		pages = append(pages, d.Cards[start:end])
	}
	return pages
}

// slot returns the sub-grid position of the i-th card on a page.
func slot(i, cols int) (row, col int) {
	return i / cols, i % cols
}

// Renderer writes a document in one file format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// ForPath picks the renderer for the output file's extension.
func ForPath(path string) (Renderer, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return PDF{}, nil
	case ".xlsx":
		return XLSX{}, nil
	default:
		return nil, pool.Configf("unsupported card file %q: use a .pdf or .xlsx extension", path)
	}
}

// WriteFile renders doc in memory and then writes it to path atomically, so
// a failed run never leaves a partial document behind.
func WriteFile(path string, r Renderer, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
