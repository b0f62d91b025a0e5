// Package cardid generates short serial numbers printed under bingo cards so
// that a claimed card can be told apart from a copy.
package cardid

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet: no I, L, O or U to confuse when read aloud.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Length is the number of characters in a serial.
const Length = 8

// RandSource interface for dependency injection of randomness
type RandSource interface {
	Uint64() uint64
}

// Generator produces card serials. With a RandSource the sequence is
// reproducible; without one serials come from crypto/rand.
type Generator struct {
	reader io.Reader
}

// NewGenerator creates a generator. randSource may be nil.
func NewGenerator(randSource RandSource) *Generator {
	g := &Generator{}
	if randSource != nil {
		g.reader = &sourceReader{src: randSource}
	}
	return g
}

// Next returns a new serial.
func (g *Generator) Next() (string, error) {
	var (
		id  uuid.UUID
		err error
	)
	if g.reader != nil {
		id, err = uuid.NewRandomFromReader(g.reader)
	} else {
		id, err = uuid.NewRandom()
	}
	if err != nil {
		return "", fmt.Errorf("generate card serial: %w", err)
	}
	return encode(id), nil
}

// encode turns the first 40 random bits of a UUIDv4 into 8 base32 characters.
func encode(id uuid.UUID) string {
	var buf [8]byte
	copy(buf[3:], id[:5])
	bits := binary.BigEndian.Uint64(buf[:])

	result := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		result[i] = alphabet[bits&0x1f]
		bits >>= 5
	}
	return string(result)
}

// Validate checks if a serial is valid (8 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("card serial must be exactly %d characters, got %d", Length, len(id))
	}

	for i, char := range id {
		valid := false
		for _, validChar := range alphabet {
			if char == validChar {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}

// sourceReader adapts a RandSource to io.Reader for uuid.NewRandomFromReader.
type sourceReader struct {
	src RandSource
}

func (r *sourceReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], r.src.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}
