package crypto

import (
	"strings"
	"testing"
)

func TestRandomHex(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := RandomHex(16)
		if err != nil {
			t.Fatal(err)
		}
		if len(s) != 32 {
			t.Fatalf("RandomHex(16) length = %d, want 32", len(s))
		}
		if seen[s] {
			t.Fatalf("duplicate value %q", s)
		}
		seen[s] = true
	}
}

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := RandomCode(8)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 8 {
			t.Fatalf("RandomCode(8) length = %d, want 8", len(code))
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}
