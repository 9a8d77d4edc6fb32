// Package invitecode generates the short share codes used to join
// leagues.
package invitecode

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
)

// Alphabet is the full code character set. Ambiguity is tolerated: the
// join flow uppercases input, so lowercase letters never collide.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of characters in a generated code.
const Length = 6

const maxAttempts = 10

// Checker reports whether a candidate code is already taken. The
// storage layer stays the source of truth for uniqueness; the checker
// only makes collisions unlikely up front.
type Checker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	checker Checker
}

func NewGenerator(checker Checker) *Generator {
	return &Generator{checker: checker}
}

// Generate returns a fresh code that the checker did not know at the
// time of the call. It gives up after a bounded number of attempts so a
// saturated code space cannot spin forever.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode(rand.Reader)
		if err != nil {
			return "", err
		}

		if g.checker == nil {
			return code, nil
		}

		exists, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check invite code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("generate invite code: no unique code after %d attempts", maxAttempts)
}

// byteLimit is the largest multiple of the alphabet size that fits in a
// byte. Bytes at or beyond it are discarded so every character draws
// with equal probability.
const byteLimit = 256 - 256%len(Alphabet)

func randomCode(src io.Reader) (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for len(out) < Length {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= byteLimit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}
