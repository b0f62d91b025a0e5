package pool

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the number of rows and columns of a square card.
type Size int

const (
	Size3x3 Size = 3
	Size4x4 Size = 4
	Size5x5 Size = 5
)

// SizeNames lists the accepted card size tokens.
var SizeNames = []string{"3x3", "4x4", "5x5"}

// ParseSize parses a card size token such as "5x5".
func ParseSize(s string) (Size, error) {
	rows, cols, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, Configf("card size %q must look like 5x5", s)
	}
	r, errR := strconv.Atoi(rows)
	c, errC := strconv.Atoi(cols)
	if errR != nil || errC != nil {
		return 0, Configf("card size %q must look like 5x5", s)
	}
	if r != c {
		return 0, Configf("card size %q must be square", s)
	}
	size := Size(r)
	if !size.Valid() {
		return 0, Configf("card size %q is not one of %s", s, strings.Join(SizeNames, ", "))
	}
	return size, nil
}

// Valid reports whether the size is one of 3x3, 4x4 or 5x5.
func (s Size) Valid() bool {
	return s >= Size3x3 && s <= Size5x5
}

// Rows returns the number of value rows on a card.
func (s Size) Rows() int { return int(s) }

// Columns returns the number of columns on a card.
func (s Size) Columns() int { return int(s) }

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", int(s), int(s))
}
