package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Generator produces fixed-length numeric passcodes from a secure random source.
type Generator struct {
	length int
}

// New returns a Generator emitting codes of the given digit count.
// Lengths outside 4..10 fall back to 6.
func New(length int) *Generator {
	if length < 4 || length > 10 {
		length = 6
	}
	return &Generator{length: length}
}

// Length returns the digit count of generated codes.
func (g *Generator) Length() int { return g.length }

// Generate returns a string of exactly g.length ASCII digits, each drawn
// independently and uniformly from crypto/rand.
func (g *Generator) Generate() (string, error) {
	var b strings.Builder
	b.Grow(g.length)
	for i := 0; i < g.length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate code digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
