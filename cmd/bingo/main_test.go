package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lox/bingocards/internal/pool"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	// Keep a developer's own config out of the way.
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	streams := &Streams{In: strings.NewReader(stdin), Out: &stdout, Err: &stderr}
	code := run(args, streams, quartz.NewMock(t))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// useConfig runs the test from a directory holding a bingo.hcl.
func useConfig(t *testing.T, src string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bingo.hcl"), []byte(src), 0o644))
	t.Chdir(dir)
}

func writeValueFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCardsWritesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cards.pdf")
	res := runCLI(t, "", "cards", "5", "--card-file", out, "--seed", "1", "--card-title", "Fun Night")
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, res.stderr, "Wrote bingo cards")
}

func TestCardsWritesXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cards.xlsx")
	res := runCLI(t, "", "cards", "3", "--card-file", out, "--cards-per-page", "2", "--card-size", "3x3", "--seed", "9")
	require.Equal(t, 0, res.code, res.stderr)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Page 1", "Page 2"}, f.GetSheetList())

	// The default B,I,N,G,O labels do not fit 3x3 cards, so no header row.
	rows, err := f.GetRows("Page 1")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.NotEqual(t, "B", rows[0][0])
	assert.NotContains(t, res.stderr, "WARN")
}

func TestCardsLabelMismatchConfigError(t *testing.T) {
	values := writeValueFile(t, "B::1\nB::2\nN::3\n")
	out := filepath.Join(t.TempDir(), "cards.pdf")

	res := runCLI(t, "", "cards", "2", "--card-size", "3x3", "--value-file", values, "--card-file", out)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "Invalid settings")
	assert.NoFileExists(t, out, "nothing is rendered on a configuration error")
}

func TestCardsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"zero cards", []string{"cards", "0"}, 2},
		{"unsupported format", []string{"cards", "1", "--card-file", "cards.docx"}, 2},
		{"missing value file", []string{"cards", "1", "--value-file", "/nonexistent/values.txt", "--preview"}, 1},
		{"labels both ways", []string{"cards", "1", "--column-labels", "A,B,C,D,E", "--column-labels-off"}, 2},
		{"bad card size", []string{"cards", "1", "--card-size", "6x6"}, 2},
		{"bad cards per page", []string{"cards", "1", "--cards-per-page", "3"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, tt.code, res.code, res.stderr)
		})
	}
}

func TestCardsNotEnoughValues(t *testing.T) {
	values := writeValueFile(t, "a\nb\nc\nd\ne\n")
	res := runCLI(t, "", "cards", "1", "--card-size", "3x3", "--value-file", values, "--preview")
	assert.Equal(t, 2, res.code)
	assert.Empty(t, res.stdout)
}

func TestCardsPreview(t *testing.T) {
	res := runCLI(t, "", "cards", "2", "--preview", "--seed", "4", "--serials")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Card 1")
	assert.Contains(t, res.stdout, "Card 2")
	assert.Contains(t, res.stdout, "☆")

	again := runCLI(t, "", "cards", "2", "--preview", "--seed", "4", "--serials")
	assert.Equal(t, res.stdout, again.stdout, "the same seed gives the same cards")
}

func TestCardsWarnsOnMissingGlyphs(t *testing.T) {
	values := writeValueFile(t, "中1\n中2\n中3\n中4\n中5\n中6\n中7\n中8\n中9\n")
	out := filepath.Join(t.TempDir(), "cards.pdf")

	res := runCLI(t, "", "cards", "1", "--card-size", "3x3", "--value-file", values, "--card-file", out)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "characters the PDF font cannot draw")
	assert.FileExists(t, out)
}

func TestCardsWarnsOnCustomLabelMismatch(t *testing.T) {
	res := runCLI(t, "", "cards", "1", "--preview", "--column-labels", "X,Y")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Column label count does not match")
}

func TestDrawSession(t *testing.T) {
	res := runCLI(t, "\n\nq\n", "draw", "--card-size", "3x3", "--seed", "5")
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Enter Q or q to quit.", lines[0])
	for i, line := range lines[1:] {
		assert.Regexp(t, `^`+string(rune('1'+i))+`\) [BIN] \d+$`, line)
	}
}

func TestDrawFromValueFile(t *testing.T) {
	values := writeValueFile(t, "Free\\nParking\nGo\nJail\n")
	res := runCLI(t, "\n\n\n", "draw", "--value-file", values, "--seed", "2")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Free\nParking")
	assert.Contains(t, res.stdout, "All the values have been drawn.")
}

func TestDrawIgnoreColumn(t *testing.T) {
	res := runCLI(t, "q\n", "draw", "--ignore-column", "--seed", "3")
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^1\) \d+$`, lines[1])
}

func TestDrawSourcesAreExclusive(t *testing.T) {
	values := writeValueFile(t, "1\n2\n")
	res := runCLI(t, "", "draw", "--card-size", "3x3", "--value-file", values)
	assert.Equal(t, 2, res.code)
}

func TestConfigSetsOneSideOfExclusiveFlags(t *testing.T) {
	values := writeValueFile(t, "Go\nJail\n")
	useConfig(t, fmt.Sprintf("cards {\n  column_labels_off = true\n}\ndraw {\n  value_file = %q\n}\n", values))

	t.Run("draw from configured value file", func(t *testing.T) {
		res := runCLI(t, "\n\n", "draw", "--seed", "1")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Jail")
		assert.Contains(t, res.stdout, "All the values have been drawn.")
	})

	t.Run("card size on the command line", func(t *testing.T) {
		res := runCLI(t, "q\n", "draw", "--card-size", "3x3", "--seed", "1")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Regexp(t, `1\) [BIN] \d+`, res.stdout)
	})

	t.Run("cards with labels off", func(t *testing.T) {
		res := runCLI(t, "", "cards", "1", "--preview", "--seed", "1")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "Card 1")
	})

	t.Run("labels on the command line", func(t *testing.T) {
		res := runCLI(t, "", "cards", "1", "--preview", "--seed", "1", "--column-labels", "A,B,C,D,E")
		require.Equal(t, 0, res.code, res.stderr)
		assert.NotContains(t, res.stderr, "WARN")
	})
}

func TestVars(t *testing.T) {
	v := vars()
	assert.Equal(t, "3x3,4x4,5x5", v["sizes"])
	assert.Equal(t, "5x5", v["default_card_size"])
	assert.Equal(t, "bingo_cards.pdf", v["default_card_file"])
	assert.Equal(t, "4", v["default_cards_per_page"])
	assert.Equal(t, "1,2,4", v["cards_per_page_choices"])
	assert.Equal(t, "12", v["default_multiline_font_size"])
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		assert.NoError(t, loadEnv(filepath.Join(dir, "missing.env")))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.env")
		require.NoError(t, os.WriteFile(path, []byte("BINGO_DEBUG=\"unterminated\n"), 0o644))
		assert.Error(t, loadEnv(path))
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "good.env")
		require.NoError(t, os.WriteFile(path, []byte("BINGO_TEST_LOAD_ENV=yes\n"), 0o644))
		t.Setenv("BINGO_TEST_LOAD_ENV", "")
		require.NoError(t, os.Unsetenv("BINGO_TEST_LOAD_ENV"))
		require.NoError(t, loadEnv(path))
		assert.Equal(t, "yes", os.Getenv("BINGO_TEST_LOAD_ENV"))
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{context.Canceled, 0},
		{fmt.Errorf("draw: %w", context.Canceled), 0},
		{pool.Configf("bad"), 2},
		{fmt.Errorf("cards: %w", pool.Configf("bad")), 2},
		{&pool.InputError{Path: "v.txt", Err: pool.ErrEmptySource}, 1},
		{errors.New("disk full"), 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}
