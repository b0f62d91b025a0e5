package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/bingocards/internal/caller"
	"github.com/lox/bingocards/internal/pool"
	"github.com/lox/bingocards/internal/randutil"
	"github.com/lox/bingocards/internal/tui"
)

type DrawCmd struct {
	CardSize     string `xor:"source" help:"Card size the standard values are drawn for (${sizes}, default ${default_card_size})"`
	ValueFile    string `xor:"source" help:"File of values to call, one per line, optionally LABEL::value"`
	IgnoreColumn bool   `help:"Do not announce column labels"`
	TUI          bool   `name:"tui" help:"Run the full-screen caller"`
	Seed         *int64 `env:"BINGO_SEED" help:"Random seed for a reproducible call order"`
}

func (d *DrawCmd) Run(ctx context.Context, logger *log.Logger, clock quartz.Clock, streams *Streams) error {
	logger = logger.WithPrefix("draw")

	// No kong default: kong counts it against the xor group.
	cardSize := d.CardSize
	if cardSize == "" {
		cardSize = defaultCardSize
	}
	size, err := pool.ParseSize(cardSize)
	if err != nil {
		return err
	}
	src, err := loadPool(d.ValueFile, size)
	if err != nil {
		return err
	}

	seed := randutil.Seed(d.Seed, clock)
	seq := caller.NewSequence(src, randutil.New(seed))
	showLabels := !d.IgnoreColumn
	logger.Debug("Starting draw", "values", seq.Total(), "labels", seq.Labels(), "seed", seed, "tui", d.TUI)

	if d.TUI {
		return tui.RunCaller(ctx, seq, showLabels, logger)
	}
	session := caller.NewSession(seq, streams.In, streams.Out, showLabels, logger)
	defer session.Close()
	return session.Run(ctx)
}
