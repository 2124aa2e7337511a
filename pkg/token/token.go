package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// Prefix marks a generated token.
	Prefix = "aaatk_"
	// HashPrefix marks a token hash.
	HashPrefix = "aaath_"
	// Length is the random byte length of a generated token.
	Length = 32
)

// ErrMalformedToken is returned by Parse for strings that are not
// generated tokens.
var ErrMalformedToken = errors.New("token: malformed token")

var bodyLen = base64.RawURLEncoding.EncodedLen(Length)

// Generate returns a new random token.
func Generate() (string, error) {
	b := make([]byte, Length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// Parse checks that s has the generated token shape. Operators may
// still configure free-form tokens; Parse only backs the CLI check.
func Parse(s string) error {
	body, ok := strings.CutPrefix(s, Prefix)
	if !ok || len(body) != bodyLen {
		return ErrMalformedToken
	}
	if _, err := base64.RawURLEncoding.DecodeString(body); err != nil {
		return ErrMalformedToken
	}
	return nil
}

// Hash returns the prefixed SHA-256 hash of tok.
func Hash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return HashPrefix + hex.EncodeToString(h[:])
}

// Verify reports whether tok hashes to want.
func Verify(tok, want string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(tok)), []byte(want)) == 1
}
