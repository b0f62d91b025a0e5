// Package pool loads the candidate values that cards are filled from and that
// the caller draws.
//
// A Pool is either unlabeled (one undifferentiated list of values) or labeled
// (ordered columns, each with its own values). Pools are treated as immutable
// once loaded; consumers that shuffle or pop take a Clone first.
package pool

import (
	"fmt"
	"strconv"

	"github.com/tiendc/go-deepcopy"
)

// Kind distinguishes unlabeled pools from labeled ones.
type Kind int

const (
	Unlabeled Kind = iota
	Labeled
)

func (k Kind) String() string {
	switch k {
	case Unlabeled:
		return "unlabeled"
	case Labeled:
		return "labeled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is a labeled group of values.
type Column struct {
	Label  string
	Values []string
}

// DrawValue is a single callable value and the label of the column it belongs
// to. Label is empty for unlabeled pools.
type DrawValue struct {
	Label string
	Value string
}

// Pool is the set of candidate values for cards and draws.
type Pool struct {
	Kind    Kind
	Values  []string // Unlabeled pools only
	Columns []Column // Labeled pools only, in first-seen order
}

// NewUnlabeled returns a pool with a single undifferentiated list of values.
func NewUnlabeled(values ...string) Pool {
	return Pool{Kind: Unlabeled, Values: values}
}

// NewLabeled returns a pool made of the given columns, in order.
func NewLabeled(columns ...Column) Pool {
	return Pool{Kind: Labeled, Columns: columns}
}

// IsLabeled reports whether the pool is split into labeled columns.
func (p Pool) IsLabeled() bool {
	return p.Kind == Labeled
}

// Labels returns the column labels in order, or nil for unlabeled pools.
func (p Pool) Labels() []string {
	if !p.IsLabeled() {
		return nil
	}
	labels := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		labels[i] = c.Label
	}
	return labels
}

// Len returns the total number of values in the pool.
func (p Pool) Len() int {
	if !p.IsLabeled() {
		return len(p.Values)
	}
	n := 0
	for _, c := range p.Columns {
		n += len(c.Values)
	}
	return n
}

// Merged returns every value in the pool as one new list, columns in order.
func (p Pool) Merged() []string {
	merged := make([]string, 0, p.Len())
	if !p.IsLabeled() {
		return append(merged, p.Values...)
	}
	for _, c := range p.Columns {
		merged = append(merged, c.Values...)
	}
	return merged
}

// Flatten returns every value paired with its column label.
func (p Pool) Flatten() []DrawValue {
	values := make([]DrawValue, 0, p.Len())
	if !p.IsLabeled() {
		for _, v := range p.Values {
			values = append(values, DrawValue{Value: v})
		}
		return values
	}
	for _, c := range p.Columns {
		for _, v := range c.Values {
			values = append(values, DrawValue{Label: c.Label, Value: v})
		}
	}
	return values
}

// Clone returns a deep copy of the pool that can be shuffled and popped
// without touching the original.
func (p Pool) Clone() (Pool, error) {
	var out Pool
	if err := deepcopy.Copy(&out, p); err != nil {
		return Pool{}, fmt.Errorf("copy value pool: %w", err)
	}
	return out, nil
}

// Fit reconciles a labeled pool with the number of card columns. Extra labels
// are dropped from the end; too few labels is a configuration error.
// Unlabeled pools are returned unchanged.
func (p Pool) Fit(columns int) (Pool, error) {
	if !p.IsLabeled() {
		return p, nil
	}
	switch {
	case len(p.Columns) > columns:
		return NewLabeled(p.Columns[:columns]...), nil
	case len(p.Columns) < columns:
		return Pool{}, Configf("the value source has %d column labels but the cards have %d columns; "+
			"make the number of column labels equal to the number of card columns", len(p.Columns), columns)
	}
	return p, nil
}

// standardColumns are the classic 75-ball ranges.
var standardColumns = []struct {
	label    string
	from, to int
}{
	{"B", 1, 15},
	{"I", 16, 30},
	{"N", 31, 45},
	{"G", 46, 60},
	{"O", 61, 75},
}

// Standard returns the built-in pool for a card size: B, I, N, G and O with
// 15 numbers each, keeping only the first size.Columns() columns. The classic
// 1-75 numbering is kept for smaller cards rather than re-deriving ranges.
func Standard(size Size) Pool {
	n := min(size.Columns(), len(standardColumns))
	columns := make([]Column, 0, n)
	for _, sc := range standardColumns[:n] {
		values := make([]string, 0, sc.to-sc.from+1)
		for v := sc.from; v <= sc.to; v++ {
			values = append(values, strconv.Itoa(v))
		}
		columns = append(columns, Column{Label: sc.label, Values: values})
	}
	return NewLabeled(columns...)
}
