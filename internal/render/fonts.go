package render

import (
	"slices"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/lox/bingocards/internal/card"
)

// fontFamily is the embedded Go font family used for all PDF text.
const fontFamily = "Go"

func registerFonts(pdf *fpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
}

var regularFont = sync.OnceValues(func() (*sfnt.Font, error) {
	return sfnt.Parse(goregular.TTF)
})

// MissingGlyphs returns the distinct card and title texts holding characters
// the PDF font cannot draw. Such characters print as empty boxes.
func MissingGlyphs(doc Document) []string {
	f, err := regularFont()
	if err != nil {
		return nil
	}

	var (
		buf     sfnt.Buffer
		missing []string
	)
	check := func(text string) {
		if slices.Contains(missing, text) {
			return
		}
		for _, r := range text {
			if r == '\n' {
				continue
			}
			if idx, err := f.GlyphIndex(&buf, r); err != nil || idx == 0 {
				missing = append(missing, text)
				return
			}
		}
	}

	check(doc.Title)
	for _, c := range doc.Cards {
		for _, row := range c.Rows {
			for _, cell := range row {
				if cell.Kind != card.FreeCell {
					check(cell.Text)
				}
			}
		}
	}
	return missing
}
