package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"

	"github.com/lox/bingocards/cmd/bingo/shared"
	"github.com/lox/bingocards/internal/config"
	"github.com/lox/bingocards/internal/pool"
	"github.com/lox/bingocards/internal/render"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging" env:"BINGO_DEBUG"`
	Cards   CardsCmd         `cmd:"" help:"Generate printable bingo cards"`
	Draw    DrawCmd          `cmd:"" help:"Call bingo values in random order"`
}

// Streams are the process streams handed to commands.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	if err := loadEnv(); err != nil {
		shared.SetupLogger(os.Stderr, false).Warn("Could not load .env", "error", err)
	}

	shared.ConfigureColor(os.Stdout)
	streams := &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	os.Exit(run(os.Args[1:], streams, quartz.NewReal()))
}

// loadEnv loads .env files into the environment. A missing file is fine.
func loadEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// vars are the interpolation variables for the kong tags.
func vars() kong.Vars {
	choices := make([]string, len(render.CardsPerPageChoices))
	for i, n := range render.CardsPerPageChoices {
		choices[i] = strconv.Itoa(n)
	}
	return kong.Vars{
		"version":                     version,
		"sizes":                       strings.Join(pool.SizeNames, ","),
		"default_card_size":           defaultCardSize,
		"default_card_file":           render.DefaultFile,
		"default_cards_per_page":      strconv.Itoa(render.DefaultCardsPerPage),
		"cards_per_page_choices":      strings.Join(choices, ","),
		"default_column_labels":       defaultColumnLabels,
		"default_multiline_font_size": strconv.FormatFloat(render.DefaultMultiLineFontSize, 'g', -1, 64),
	}
}

func newParser(cli *CLI, streams *Streams, clock quartz.Clock) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("bingo"),
		kong.Description("Make printable bingo cards and call bingo games"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		vars(),
		kong.Writers(streams.Out, streams.Err),
		kong.Configuration(config.Loader, config.Paths()...),
		kong.BindTo(clock, (*quartz.Clock)(nil)),
	)
}

// run parses args, runs the selected command and returns the exit code.
func run(args []string, streams *Streams, clock quartz.Clock) int {
	var cli CLI
	parser, err := newParser(&cli, streams, clock)
	if err != nil {
		fmt.Fprintf(streams.Err, "bingo: %v\n", err)
		return exitCode(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	logger := shared.SetupLogger(streams.Err, cli.Debug)
	ctx, cancel := shared.SetupSignalHandler(context.Background(), logger)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(logger, streams)
	logFailure(logger, err)
	return exitCode(err)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var cfgErr *pool.ConfigError
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	case errors.As(err, &cfgErr):
		return 2
	default:
		return 1
	}
}

func logFailure(logger *log.Logger, err error) {
	var (
		cfgErr   *pool.ConfigError
		inputErr *pool.InputError
	)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		logger.Debug("Interrupted")
	case errors.As(err, &cfgErr):
		logger.Error("Invalid settings", "reason", cfgErr.Reason)
	case errors.As(err, &inputErr):
		logger.Error("Could not read values", "error", err)
	default:
		logger.Error("Command failed", "error", err)
	}
}
