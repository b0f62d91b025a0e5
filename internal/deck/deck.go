// Package deck provides an owned, shuffled working sequence that is dealt
// without replacement.
package deck

import (
	rand "math/rand/v2"
)

// Deck holds items that are dealt from the end after an unbiased shuffle.
// Dealing from the end of a uniformly shuffled slice is equivalent to sampling
// without replacement.
type Deck[T any] struct {
	items []T
	rng   *rand.Rand
}

// New creates a deck over items. The deck takes ownership of the slice; callers
// hand in a copy when the source must stay untouched.
func New[T any](items []T, rng *rand.Rand) *Deck[T] {
	return &Deck[T]{
		items: items,
		rng:   rng,
	}
}

// Shuffle randomizes the order of the remaining items using Fisher-Yates
func (d *Deck[T]) Shuffle() {
	Shuffle(d.items, d.rng)
}

// Deal removes and returns the last item of the deck
func (d *Deck[T]) Deal() (T, bool) {
	var zero T
	if len(d.items) == 0 {
		return zero, false
	}

	last := len(d.items) - 1
	item := d.items[last]
	d.items[last] = zero
	d.items = d.items[:last]
	return item, true
}

// DealN deals up to n items. Fewer are returned when the deck runs out.
func (d *Deck[T]) DealN(n int) []T {
	if n > len(d.items) {
		n = len(d.items)
	}

	items := make([]T, 0, n)
	for range n {
		item, _ := d.Deal()
		items = append(items, item)
	}

	return items
}

// Remaining returns the number of items left in the deck
func (d *Deck[T]) Remaining() int {
	return len(d.items)
}

// IsEmpty returns true if the deck has no items left
func (d *Deck[T]) IsEmpty() bool {
	return len(d.items) == 0
}

// Shuffle permutes items in place. Every permutation is equally likely.
func Shuffle[T any](items []T, rng *rand.Rand) {
	for i := len(items) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		items[i], items[j] = items[j], items[i]
	}
}
