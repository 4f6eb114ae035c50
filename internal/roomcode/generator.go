// Package roomcode implements the short uppercase room-code allocator
// (spec §4.2, component C2), grounded on the teacher's
// srv/ws.go:generateRoomID but generalized to a configurable alphabet,
// length, and injectable RNG so tests can force deterministic sequences
// (spec §8 scenario 6).
package roomcode

import (
	"math/rand/v2"

	"bombparty/internal/apperr"
)

// RNG returns a float in [0, 1). math/rand/v2's Float64 satisfies this,
// matching the teacher's use of math/rand/v2 throughout srv/game.go and
// srv/ws.go.
type RNG func() float64

// Generator allocates room codes from a fixed alphabet.
type Generator struct {
	alphabet string
	length   int
	rng      RNG
}

// New constructs a Generator. It rejects an empty alphabet or a
// non-positive length at construction time, per spec §4.2.
func New(alphabet string, length int, rng RNG) (*Generator, error) {
	if len(alphabet) == 0 {
		return nil, apperr.New(apperr.InvalidPayload, "alphabet must be non-empty")
	}
	if length <= 0 {
		return nil, apperr.New(apperr.InvalidPayload, "length must be positive")
	}
	if rng == nil {
		rng = rand.Float64
	}
	return &Generator{alphabet: alphabet, length: length, rng: rng}, nil
}

// Generate produces one candidate code. Each character is
// alphabet[floor(rng()*len(alphabet))], clamped to alphabet[0] when rng()
// returns exactly 1.0.
func (g *Generator) Generate() string {
	b := make([]byte, g.length)
	n := len(g.alphabet)
	for i := range b {
		idx := int(g.rng() * float64(n))
		if idx >= n {
			idx = 0
		}
		b[i] = g.alphabet[idx]
	}
	return string(b)
}

const defaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultGenerator returns a Generator producing 4-character codes from
// the uppercase Latin alphabet using the package-level math/rand/v2
// source.
func DefaultGenerator() *Generator {
	g, _ := New(defaultAlphabet, 4, rand.Float64)
	return g
}
