package token

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.HasPrefix(tok, Prefix) {
		t.Errorf("token %q lacks prefix %q", tok, Prefix)
	}
	if len(tok) != len(Prefix)+43 {
		t.Errorf("len = %d, want %d", len(tok), len(Prefix)+43)
	}
	if err := Parse(tok); err != nil {
		t.Errorf("Parse(Generate()) error = %v", err)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no prefix", strings.Repeat("a", 43)},
		{"short body", Prefix + "abc"},
		{"bad alphabet", Prefix + strings.Repeat("!", 43)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Parse(tt.in); err != ErrMalformedToken {
				t.Errorf("Parse(%q) = %v, want ErrMalformedToken", tt.in, err)
			}
		})
	}
}

func TestHash(t *testing.T) {
	h := Hash("secret")
	if !strings.HasPrefix(h, HashPrefix) {
		t.Errorf("hash %q lacks prefix", h)
	}
	if len(h) != len(HashPrefix)+64 {
		t.Errorf("len = %d, want %d", len(h), len(HashPrefix)+64)
	}
	if Hash("secret") != h {
		t.Error("Hash is not deterministic")
	}
	if Hash("other") == h {
		t.Error("different tokens share a hash")
	}
}

func TestVerify(t *testing.T) {
	want := Hash("secret")
	if !Verify("secret", want) {
		t.Error("Verify rejected the matching token")
	}
	for _, bad := range []string{"", "secre", "secret ", "SECRET"} {
		if Verify(bad, want) {
			t.Errorf("Verify(%q) accepted a wrong token", bad)
		}
	}
}
