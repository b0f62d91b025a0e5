package card

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bingocards/internal/cardid"
	"github.com/lox/bingocards/internal/pool"
	"github.com/lox/bingocards/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

var bingoLabels = []string{"B", "I", "N", "G", "O"}

func newEngine(opts Options, seed int64) *Engine {
	return NewEngine(opts, randutil.New(seed), quietLogger())
}

// columnOf maps every standard value to the index of its column.
func columnOf(p pool.Pool) map[string]int {
	index := make(map[string]int)
	for i, c := range p.Columns {
		for _, v := range c.Values {
			index[v] = i
		}
	}
	return index
}

func TestGenerateShape(t *testing.T) {
	for _, size := range []pool.Size{pool.Size3x3, pool.Size4x4, pool.Size5x5} {
		t.Run(size.String(), func(t *testing.T) {
			src := pool.Standard(size)

			withLabels := newEngine(Options{Size: size, Labels: src.Labels(), FreeSpace: true}, 1)
			c, err := withLabels.Generate(src)
			require.NoError(t, err)
			require.Len(t, c.Rows, size.Rows()+1)
			for _, row := range c.Rows {
				assert.Len(t, row, size.Columns())
			}
			assert.Equal(t, src.Labels(), c.Labels())
			assert.Len(t, c.Values(), size.Rows()*size.Columns()-1)

			noLabels := newEngine(Options{Size: size}, 1)
			c, err = noLabels.Generate(src)
			require.NoError(t, err)
			require.Len(t, c.Rows, size.Rows())
			assert.Nil(t, c.Labels())
			assert.Len(t, c.Values(), size.Rows()*size.Columns())
			_, _, ok := c.FreeSpace()
			assert.False(t, ok)
		})
	}
}

func TestGenerateValuesComeFromOwnColumn(t *testing.T) {
	src := pool.Standard(pool.Size5x5)
	columns := columnOf(src)
	e := newEngine(Options{Size: pool.Size5x5, Labels: bingoLabels, FreeSpace: true}, 7)

	for range 50 {
		c, err := e.Generate(src)
		require.NoError(t, err)

		seen := make(map[string]bool)
		for _, row := range c.Body() {
			for col, cell := range row {
				if cell.Kind == FreeCell {
					continue
				}
				require.Equal(t, ValueCell, cell.Kind)
				assert.False(t, seen[cell.Text], "value %s repeated on one card", cell.Text)
				seen[cell.Text] = true

				from, ok := columns[cell.Text]
				require.True(t, ok, "value %s is not in the pool", cell.Text)
				assert.Equal(t, col, from, "value %s placed outside its column", cell.Text)
			}
		}
	}
}

func TestGenerateDoesNotMutateSource(t *testing.T) {
	src := pool.Standard(pool.Size5x5)
	before, err := src.Clone()
	require.NoError(t, err)

	e := newEngine(Options{Size: pool.Size5x5, Scatter: true}, 3)
	_, err = e.Layout(src, 20)
	require.NoError(t, err)

	assert.Equal(t, before, src)
}

func TestFreeSpaceIsCentredOnOddSizes(t *testing.T) {
	tests := []struct {
		size    pool.Size
		labels  bool
		wantRow int
		wantCol int
	}{
		{size: pool.Size5x5, labels: true, wantRow: 3, wantCol: 2},
		{size: pool.Size5x5, labels: false, wantRow: 2, wantCol: 2},
		{size: pool.Size3x3, labels: true, wantRow: 2, wantCol: 1},
		{size: pool.Size3x3, labels: false, wantRow: 1, wantCol: 1},
	}

	for _, tt := range tests {
		src := pool.Standard(tt.size)
		opts := Options{Size: tt.size, FreeSpace: true}
		if tt.labels {
			opts.Labels = src.Labels()
		}

		for seed := int64(0); seed < 25; seed++ {
			c, err := newEngine(opts, seed).Generate(src)
			require.NoError(t, err)

			row, col, ok := c.FreeSpace()
			require.True(t, ok)
			assert.Equal(t, tt.wantRow, row, "%s labels=%v seed=%d", tt.size, tt.labels, seed)
			assert.Equal(t, tt.wantCol, col, "%s labels=%v seed=%d", tt.size, tt.labels, seed)
			assert.Equal(t, FreeMarker, c.Rows[row][col].Text)
		}
	}
}

func TestFreeSpaceVariesOnEvenSizes(t *testing.T) {
	src := pool.Standard(pool.Size4x4)
	e := newEngine(Options{Size: pool.Size4x4, Labels: src.Labels(), FreeSpace: true}, 11)

	rows := make(map[int]bool)
	cols := make(map[int]bool)
	for range 200 {
		c, err := e.Generate(src)
		require.NoError(t, err)
		row, col, ok := c.FreeSpace()
		require.True(t, ok)
		require.GreaterOrEqual(t, row, 1, "free space must not replace a label")
		rows[row] = true
		cols[col] = true
	}

	assert.Len(t, rows, 4)
	assert.Len(t, cols, 4)
}

func TestScatterMixesColumns(t *testing.T) {
	src := pool.Standard(pool.Size5x5)
	columns := columnOf(src)
	e := newEngine(Options{Size: pool.Size5x5, Scatter: true}, 5)

	// origins[col] collects the source columns seen in each card column.
	origins := make([]map[int]bool, 5)
	for i := range origins {
		origins[i] = make(map[int]bool)
	}

	for range 200 {
		c, err := e.Generate(src)
		require.NoError(t, err)

		seen := make(map[string]bool)
		for _, row := range c.Body() {
			for col, cell := range row {
				assert.False(t, seen[cell.Text], "value %s repeated on one card", cell.Text)
				seen[cell.Text] = true
				origins[col][columns[cell.Text]] = true
			}
		}
	}

	for col, seen := range origins {
		assert.Len(t, seen, 5, "card column %d should receive values from every pool column", col)
	}
}

func TestUnlabeledPoolsScatter(t *testing.T) {
	values := make([]string, 12)
	for i := range values {
		values[i] = strings.Repeat("x", i+1)
	}
	src := pool.NewUnlabeled(values...)

	c, err := newEngine(Options{Size: pool.Size3x3, FreeSpace: true}, 9).Generate(src)
	require.NoError(t, err)
	assert.Len(t, c.Values(), 8)
	assert.Subset(t, values, c.Values())
}

func TestMultiLineValues(t *testing.T) {
	src := pool.NewUnlabeled("a\nb", "c", "d", "e", "f", "g", "h", "i", "j")
	c, err := newEngine(Options{Size: pool.Size3x3}, 2).Generate(src)
	require.NoError(t, err)

	multi := 0
	for _, row := range c.Rows {
		for _, cell := range row {
			if cell.IsMultiLine() {
				multi++
			}
		}
	}
	assert.Equal(t, 1, multi)
}

func TestLayoutIsReproducible(t *testing.T) {
	src := pool.Standard(pool.Size5x5)
	opts := Options{Size: pool.Size5x5, Labels: bingoLabels, FreeSpace: true, Serials: true}

	a, err := newEngine(opts, 42).Layout(src, 4)
	require.NoError(t, err)
	b, err := newEngine(opts, 42).Layout(src, 4)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	for i, c := range a {
		assert.Equal(t, i+1, c.Index)
		assert.NoError(t, cardid.Validate(c.Serial))
	}
	assert.NotEqual(t, a[0].Texts(), a[1].Texts(), "two cards from one run should differ")
}

func TestLayoutValidation(t *testing.T) {
	shortColumns, err := pool.Parse(strings.NewReader("B::1\nB::2\nN::3\n"), "short.txt")
	require.NoError(t, err)

	tests := []struct {
		name string
		src  pool.Pool
		opts Options
		n    int
	}{
		{
			name: "zero cards",
			src:  pool.Standard(pool.Size5x5),
			opts: Options{Size: pool.Size5x5},
			n:    0,
		},
		{
			name: "label count differs from columns",
			src:  pool.Standard(pool.Size5x5),
			opts: Options{Size: pool.Size5x5, Labels: []string{"B", "I", "N"}},
			n:    1,
		},
		{
			name: "too few pool columns",
			src:  shortColumns,
			opts: Options{Size: pool.Size3x3},
			n:    1,
		},
		{
			name: "too few values in a column",
			src: pool.NewLabeled(
				pool.Column{Label: "A", Values: []string{"1", "2", "3"}},
				pool.Column{Label: "B", Values: []string{"4", "5"}},
				pool.Column{Label: "C", Values: []string{"6", "7", "8"}},
			),
			opts: Options{Size: pool.Size3x3},
			n:    1,
		},
		{
			name: "too few values to scatter",
			src:  pool.NewUnlabeled("1", "2", "3"),
			opts: Options{Size: pool.Size3x3, Scatter: true},
			n:    1,
		},
		{
			name: "invalid size",
			src:  pool.Standard(pool.Size5x5),
			opts: Options{Size: pool.Size(6)},
			n:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := newEngine(tt.opts, 1).Layout(tt.src, tt.n)
			var cfgErr *pool.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Nil(t, cards)
		})
	}
}
