package card

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/bingocards/internal/cardid"
	"github.com/lox/bingocards/internal/deck"
	"github.com/lox/bingocards/internal/pool"
)

// Options controls how cards are laid out.
type Options struct {
	Size pool.Size

	// Labels are printed above the columns. nil disables the header row.
	Labels []string

	// FreeSpace replaces one centre cell with FreeMarker.
	FreeSpace bool

	// Scatter draws every cell from all values merged together instead of
	// keeping each column to its own values.
	Scatter bool

	// Serials gives every card a short serial number.
	Serials bool
}

// Validate checks that cards can be laid out from src with these options.
// src must already be fitted to the card's column count.
func (o Options) Validate(src pool.Pool) error {
	if !o.Size.Valid() {
		return pool.Configf("card size %d is not one of 3x3, 4x4, 5x5", int(o.Size))
	}
	rows, cols := o.Size.Rows(), o.Size.Columns()

	if o.Labels != nil && len(o.Labels) != cols {
		return pool.Configf("%d column labels given for %d card columns", len(o.Labels), cols)
	}

	if o.scatters(src) {
		if need := rows * cols; src.Len() < need {
			return pool.Configf("%d values available but a %s card needs %d", src.Len(), o.Size, need)
		}
		return nil
	}

	if len(src.Columns) != cols {
		return pool.Configf("the value source has %d column labels but the cards have %d columns",
			len(src.Columns), cols)
	}
	for _, c := range src.Columns {
		if len(c.Values) < rows {
			return pool.Configf("column %q has %d values but a %s card needs %d per column",
				c.Label, len(c.Values), o.Size, rows)
		}
	}
	return nil
}

// scatters reports whether values are drawn from one merged list. Unlabeled
// pools have no columns to keep values in, so they always scatter.
func (o Options) scatters(src pool.Pool) bool {
	return o.Scatter || !src.IsLabeled()
}

// Engine generates cards. Each card is built from its own copy of the source
// pool so cards never influence each other.
type Engine struct {
	opts    Options
	rng     *rand.Rand
	serials *cardid.Generator
	logger  *log.Logger
}

// NewEngine creates a layout engine drawing randomness from rng.
func NewEngine(opts Options, rng *rand.Rand, logger *log.Logger) *Engine {
	e := &Engine{
		opts:   opts,
		rng:    rng,
		logger: logger.WithPrefix("layout"),
	}
	if opts.Serials {
		e.serials = cardid.NewGenerator(rng)
	}
	return e
}

// Layout validates the options against src and then generates n cards. No
// card is generated when validation fails.
func (e *Engine) Layout(src pool.Pool, n int) ([]Card, error) {
	if n < 1 {
		return nil, pool.Configf("card count must be at least 1, got %d", n)
	}
	if err := e.opts.Validate(src); err != nil {
		return nil, err
	}

	e.logger.Debug("Laying out cards",
		"cards", n,
		"size", e.opts.Size,
		"scatter", e.opts.scatters(src),
		"free", e.opts.FreeSpace,
		"labels", e.opts.Labels != nil)

	cards := make([]Card, 0, n)
	for i := 1; i <= n; i++ {
		c, err := e.Generate(src)
		if err != nil {
			return nil, err
		}
		c.Index = i
		cards = append(cards, c)
	}
	return cards, nil
}

// Generate builds one card from a private copy of src.
func (e *Engine) Generate(src pool.Pool) (Card, error) {
	if err := e.opts.Validate(src); err != nil {
		return Card{}, err
	}
	work, err := src.Clone()
	if err != nil {
		return Card{}, err
	}

	rows, cols := e.opts.Size.Rows(), e.opts.Size.Columns()

	// columns[i] holds the values for column slot i, top to bottom.
	columns := make([][]string, cols)
	if e.opts.scatters(work) {
		bag := deck.New(work.Merged(), e.rng)
		bag.Shuffle()
		for i := range columns {
			columns[i] = bag.DealN(rows)
		}
	} else {
		for i := range columns {
			bag := deck.New(work.Columns[i].Values, e.rng)
			bag.Shuffle()
			columns[i] = bag.DealN(rows)
		}
	}

	c := Card{
		Size:      e.opts.Size,
		HasLabels: e.opts.Labels != nil,
	}
	if c.HasLabels {
		header := make([]Cell, cols)
		for i, label := range e.opts.Labels {
			header[i] = Cell{Kind: LabelCell, Text: label}
		}
		c.Rows = append(c.Rows, header)
	}
	for r := range rows {
		row := make([]Cell, cols)
		for i := range cols {
			row[i] = Cell{Kind: ValueCell, Text: columns[i][r]}
		}
		c.Rows = append(c.Rows, row)
	}

	if e.opts.FreeSpace {
		r, col := e.freeSpace()
		if c.HasLabels {
			r++
		}
		c.Rows[r][col] = Cell{Kind: FreeCell, Text: FreeMarker}
	}

	if e.serials != nil {
		serial, err := e.serials.Next()
		if err != nil {
			return Card{}, err
		}
		c.Serial = serial
	}
	return c, nil
}

// freeSpace picks the free space position in value-row coordinates: the
// centre on odd sizes, a random row or column on even ones.
func (e *Engine) freeSpace() (row, col int) {
	rows, cols := e.opts.Size.Rows(), e.opts.Size.Columns()
	if rows%2 != 0 {
		row = rows / 2
	} else {
		row = e.rng.IntN(rows)
	}
	if cols%2 != 0 {
		col = cols / 2
	} else {
		col = e.rng.IntN(cols)
	}
	return row, col
}
