// Package caller draws bingo values in random order, one call at a time.
package caller

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/bingocards/internal/deck"
	"github.com/lox/bingocards/internal/pool"
)

// Call is one drawn value with its 1-based position in the game.
type Call struct {
	Number int
	pool.DrawValue
}

// Format renders the call the way the caller reads it out, e.g. "3) B 12".
// The label is left out when showLabel is false or the value has none.
func (c Call) Format(showLabel bool) string {
	if showLabel && c.Label != "" {
		return fmt.Sprintf("%d) %s %s", c.Number, c.Label, c.Value)
	}
	return fmt.Sprintf("%d) %s", c.Number, c.Value)
}

// Sequence is the shuffled call order of a game. Next is a pure step
// function; no input or output happens here.
type Sequence struct {
	bag    *deck.Deck[pool.DrawValue]
	labels []string
	total  int
	drawn  []Call
}

// NewSequence flattens p and shuffles it into a call order.
func NewSequence(p pool.Pool, rng *rand.Rand) *Sequence {
	values := p.Flatten()
	bag := deck.New(values, rng)
	bag.Shuffle()
	return &Sequence{
		bag:    bag,
		labels: p.Labels(),
		total:  len(values),
	}
}

// Next draws the next value. It returns false once every value was drawn.
func (s *Sequence) Next() (Call, bool) {
	v, ok := s.bag.Deal()
	if !ok {
		return Call{}, false
	}
	call := Call{Number: len(s.drawn) + 1, DrawValue: v}
	s.drawn = append(s.drawn, call)
	return call, true
}

// Remaining returns the number of values not drawn yet.
func (s *Sequence) Remaining() int {
	return s.bag.Remaining()
}

// Total returns the number of values in the game.
func (s *Sequence) Total() int {
	return s.total
}

// Drawn returns the calls made so far, oldest first.
func (s *Sequence) Drawn() []Call {
	return slices.Clone(s.drawn)
}

// Labels returns the column labels of the pool, or nil when unlabeled.
func (s *Sequence) Labels() []string {
	return s.labels
}
