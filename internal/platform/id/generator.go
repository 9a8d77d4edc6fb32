// Package id mints the public identifiers exposed through the API.
package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// idEncoding is lowercase base32 without padding, so IDs stay URL-safe
// and survive case-folding clients unchanged.
var idEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

const idEntropyBytes = 20

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a fresh 32-character identifier with 160 bits of
// entropy.
func (g *RandomGenerator) NewID() (string, error) {
	var buf [idEntropyBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read id entropy: %w", err)
	}

	return idEncoding.EncodeToString(buf[:]), nil
}
