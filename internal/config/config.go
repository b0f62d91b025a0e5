// Package config reads bingo.hcl files that supply defaults for command
// line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/bingocards/internal/pool"
)

// FileName is the config file looked up in the working directory.
const FileName = "bingo.hcl"

// Config mirrors the command line. Unset attributes leave the flag default
// alone.
type Config struct {
	Cards *CardsConfig `hcl:"cards,block"`
	Draw  *DrawConfig  `hcl:"draw,block"`
}

// CardsConfig holds defaults for `bingo cards`.
type CardsConfig struct {
	CardFile          *string  `hcl:"card_file,optional"`
	CardSize          *string  `hcl:"card_size,optional"`
	CardsPerPage      *int     `hcl:"cards_per_page,optional"`
	CardTitle         *string  `hcl:"card_title,optional"`
	ColumnLabels      []string `hcl:"column_labels,optional"`
	ColumnLabelsOff   *bool    `hcl:"column_labels_off,optional"`
	MultilineFontSize *float64 `hcl:"multiline_font_size,optional"`
	NoFree            *bool    `hcl:"no_free,optional"`
	Scatter           *bool    `hcl:"scatter,optional"`
	ValueFile         *string  `hcl:"value_file,optional"`
	Serials           *bool    `hcl:"serials,optional"`
	Seed              *int64   `hcl:"seed,optional"`
}

// DrawConfig holds defaults for `bingo draw`.
type DrawConfig struct {
	CardSize     *string `hcl:"card_size,optional"`
	ValueFile    *string `hcl:"value_file,optional"`
	IgnoreColumn *bool   `hcl:"ignore_column,optional"`
	TUI          *bool   `hcl:"tui,optional"`
	Seed         *int64  `hcl:"seed,optional"`
}

// DefaultConfig returns a configuration that sets nothing.
func DefaultConfig() *Config {
	return &Config{}
}

// Paths returns the config files consulted, lowest precedence first.
func Paths() []string {
	return []string{"~/.config/bingo/" + FileName, FileName}
}

// Load reads filename, returning the default configuration when it does not
// exist.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, pool.Configf("failed to parse %s: %s", filename, diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, pool.Configf("failed to decode %s: %s", filename, diags.Error())
	}

	if c := config.Cards; c != nil && c.ColumnLabels != nil && c.ColumnLabelsOff != nil && *c.ColumnLabelsOff {
		return nil, pool.Configf("%s: column_labels and column_labels_off are mutually exclusive", filename)
	}
	if d := config.Draw; d != nil && d.CardSize != nil && d.ValueFile != nil {
		return nil, pool.Configf("%s: draw card_size and value_file are mutually exclusive", filename)
	}
	return &config, nil
}

// Values flattens the configuration into flag values keyed by
// "<command>.<flag_name>".
func (c *Config) Values() map[string]string {
	values := make(map[string]string)
	set := func(key string, v *string) {
		if v != nil {
			values[key] = *v
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			values[key] = strconv.FormatBool(*v)
		}
	}
	setInt := func(key string, v *int64) {
		if v != nil {
			values[key] = strconv.FormatInt(*v, 10)
		}
	}

	if cards := c.Cards; cards != nil {
		set("cards.card_file", cards.CardFile)
		set("cards.card_size", cards.CardSize)
		if cards.CardsPerPage != nil {
			values["cards.cards_per_page"] = strconv.Itoa(*cards.CardsPerPage)
		}
		set("cards.card_title", cards.CardTitle)
		if cards.ColumnLabels != nil {
			values["cards.column_labels"] = strings.Join(cards.ColumnLabels, ",")
		}
		setBool("cards.column_labels_off", cards.ColumnLabelsOff)
		if cards.MultilineFontSize != nil {
			values["cards.multiline_font_size"] = strconv.FormatFloat(*cards.MultilineFontSize, 'g', -1, 64)
		}
		setBool("cards.no_free", cards.NoFree)
		setBool("cards.scatter", cards.Scatter)
		set("cards.value_file", cards.ValueFile)
		setBool("cards.serials", cards.Serials)
		setInt("cards.seed", cards.Seed)
	}

	if draw := c.Draw; draw != nil {
		set("draw.card_size", draw.CardSize)
		set("draw.value_file", draw.ValueFile)
		setBool("draw.ignore_column", draw.IgnoreColumn)
		setBool("draw.tui", draw.TUI)
		setInt("draw.seed", draw.Seed)
	}
	return values
}

// Loader is a kong.ConfigurationLoader for bingo.hcl files.
func Loader(r io.Reader) (kong.Resolver, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	config, err := Parse(src, FileName)
	if err != nil {
		return nil, err
	}
	return NewResolver(config), nil
}

// Resolver supplies flag values from a Config. Values given on the command
// line, and flags whose xor partner was given there, are left alone.
type Resolver struct {
	values map[string]string
}

// NewResolver creates a resolver over config.
func NewResolver(config *Config) *Resolver {
	return &Resolver{values: config.Values()}
}

// Validate checks every configured value names a real flag.
func (r *Resolver) Validate(app *kong.Application) error {
	known := make(map[string]bool)
	for _, cmd := range app.Children {
		for _, flag := range cmd.Flags {
			known[key(cmd.Name, flag.Name)] = true
		}
	}
	for k := range r.values {
		if !known[k] {
			return pool.Configf("%s: unknown setting %q", FileName, k)
		}
	}
	return nil
}

// Resolve returns the configured value for flag, or nil.
func (r *Resolver) Resolve(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	node := parent.Node()
	if node == nil || node.Type != kong.CommandNode {
		return nil, nil
	}
	if xorPartnerSet(kctx, flag) {
		return nil, nil
	}
	if v, ok := r.values[key(node.Name, flag.Name)]; ok {
		return v, nil
	}
	return nil, nil
}

func key(command, flag string) string {
	return command + "." + strings.ReplaceAll(flag, "-", "_")
}

// xorPartnerSet reports whether a flag sharing an xor group with flag was
// given on the command line.
func xorPartnerSet(kctx *kong.Context, flag *kong.Flag) bool {
	if len(flag.Xor) == 0 {
		return false
	}
	for _, p := range kctx.Path {
		if p.Flag == nil || p.Flag == flag || p.Resolved {
			continue
		}
		for _, group := range p.Flag.Xor {
			if slices.Contains(flag.Xor, group) {
				return true
			}
		}
	}
	return false
}
