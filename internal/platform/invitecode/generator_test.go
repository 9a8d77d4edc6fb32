package invitecode

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

type stubChecker struct {
	taken map[string]bool
	calls int
}

func (s *stubChecker) CodeExists(_ context.Context, code string) (bool, error) {
	s.calls++
	return s.taken[code], nil
}

func TestGenerateFormat(t *testing.T) {
	gen := NewGenerator(&stubChecker{})

	for i := 0; i < 100; i++ {
		code, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if len(code) != Length {
			t.Fatalf("code %q has length %d, want %d", code, len(code), Length)
		}
		for _, r := range code {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q is not uppercase", code)
		}
	}
}

func TestGenerateSkipsTakenCodes(t *testing.T) {
	checker := &stubChecker{taken: map[string]bool{}}
	gen := NewGenerator(checker)

	first, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	// Mark every code taken except ones we have not seen; the generator
	// must keep trying until the checker says the code is free.
	checker.taken[first] = true
	second, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if second == first && checker.taken[second] {
		t.Fatalf("Generate returned a code the checker reported as taken: %q", second)
	}
}

func TestRandomCodeDiscardsBytesBeyondLimit(t *testing.T) {
	// Six bytes at or past the rejection limit, then one draw per
	// alphabet position. The first batch must be skipped entirely:
	// mapping them through a plain modulo would skew codes toward the
	// start of the alphabet.
	src := bytes.NewReader([]byte{
		byte(byteLimit), 253, 254, 255, 255, 255,
		0, 1, 2, 3, 4, 5,
	})

	code, err := randomCode(src)
	if err != nil {
		t.Fatalf("randomCode returned error: %v", err)
	}
	if code != "ABCDEF" {
		t.Fatalf("code = %q, want %q", code, "ABCDEF")
	}
}

func TestGenerateWithoutChecker(t *testing.T) {
	gen := NewGenerator(nil)

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(code) != Length {
		t.Fatalf("code %q has length %d, want %d", code, len(code), Length)
	}
}
