package main

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bingocards/internal/card"
	"github.com/lox/bingocards/internal/pool"
	"github.com/lox/bingocards/internal/randutil"
	"github.com/lox/bingocards/internal/render"
)

const (
	defaultCardSize     = "5x5"
	defaultColumnLabels = "B,I,N,G,O"
)

type CardsCmd struct {
	Count             int     `arg:"" name:"card-count" help:"Number of cards to generate"`
	CardFile          string  `default:"${default_card_file}" help:"Output file, .pdf or .xlsx"`
	CardSize          string  `default:"${default_card_size}" enum:"${sizes}" help:"Rows and columns of each card (${sizes})"`
	CardsPerPage      int     `default:"${default_cards_per_page}" enum:"${cards_per_page_choices}" help:"Cards per printed page (${cards_per_page_choices})"`
	CardTitle         string  `help:"Title printed on each card"`
	ColumnLabels      string  `xor:"labels" help:"Comma separated column labels (default ${default_column_labels})"`
	ColumnLabelsOff   bool    `xor:"labels" help:"Do not print column labels"`
	MultilineFontSize float64 `default:"${default_multiline_font_size}" help:"Font size for values spread over several lines"`
	NoFree            bool    `help:"Do not make a free space"`
	Scatter           bool    `help:"Mix values from every column across the card"`
	ValueFile         string  `help:"File of card values, one per line, optionally LABEL::value"`
	Serials           bool    `help:"Print a short serial under each card"`
	Preview           bool    `help:"Print the cards to the terminal instead of writing a file"`
	Seed              *int64  `env:"BINGO_SEED" help:"Random seed for reproducible cards"`
}

func (c *CardsCmd) Run(logger *log.Logger, clock quartz.Clock, streams *Streams) error {
	logger = logger.WithPrefix("cards")

	if c.Count < 1 {
		return pool.Configf("card count must be at least 1, got %d", c.Count)
	}
	size, err := pool.ParseSize(c.CardSize)
	if err != nil {
		return err
	}

	// Pick the output format before doing any work.
	var renderer render.Renderer
	if !c.Preview {
		if renderer, err = render.ForPath(c.CardFile); err != nil {
			return err
		}
	}

	src, err := loadPool(c.ValueFile, size)
	if err != nil {
		return err
	}
	if src, err = src.Fit(size.Columns()); err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed, clock)
	logger.Debug("Laying out cards", "count", c.Count, "size", size, "values", src.Len(),
		"kind", src.Kind, "scatter", c.Scatter, "seed", seed)

	engine := card.NewEngine(card.Options{
		Size:      size,
		Labels:    c.labels(size, logger),
		FreeSpace: !c.NoFree,
		Scatter:   c.Scatter,
		Serials:   c.Serials,
	}, randutil.New(seed), logger)

	cards, err := engine.Layout(src, c.Count)
	if err != nil {
		return err
	}

	if c.Preview {
		return render.Preview(streams.Out, cards, c.CardTitle)
	}

	doc := render.Document{
		Cards:             cards,
		Title:             c.CardTitle,
		CardsPerPage:      c.CardsPerPage,
		MultiLineFontSize: c.MultilineFontSize,
		CreatedAt:         clock.Now(),
	}
	if _, ok := renderer.(render.PDF); ok {
		if missing := render.MissingGlyphs(doc); len(missing) > 0 {
			logger.Warn("Some values use characters the PDF font cannot draw", "values", missing)
		}
	}
	if err := render.WriteFile(c.CardFile, renderer, doc); err != nil {
		return err
	}

	logger.Info("Wrote bingo cards", "file", c.CardFile, "cards", len(cards), "pages", len(doc.Pages()))
	return nil
}

// labels returns the display labels, or nil when the header row is off. A
// label list that does not match the column count turns the header off.
func (c *CardsCmd) labels(size pool.Size, logger *log.Logger) []string {
	if c.ColumnLabelsOff {
		return nil
	}

	// No kong default: kong counts it against the xor group.
	value := c.ColumnLabels
	if value == "" {
		value = defaultColumnLabels
	}
	labels := strings.Split(value, ",")
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	if len(labels) != size.Columns() {
		// The default labels are expected to mismatch 3x3 and 4x4 cards.
		level := log.WarnLevel
		if value == defaultColumnLabels {
			level = log.DebugLevel
		}
		logger.Log(level, "Column label count does not match card columns, printing without labels",
			"labels", len(labels), "columns", size.Columns())
		return nil
	}
	return labels
}

// loadPool reads the value file, or builds the standard pool when none is
// given.
func loadPool(valueFile string, size pool.Size) (pool.Pool, error) {
	if valueFile == "" {
		return pool.Standard(size), nil
	}
	return pool.Load(valueFile)
}
