package benchmark

import (
	"testing"

	"github.com/yndnr/aaamesh-go/pkg/token"
)

// BenchmarkTokenGenerate benchmarks admin token generation.
func BenchmarkTokenGenerate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := token.Generate(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTokenVerify benchmarks the per-request bearer token check.
func BenchmarkTokenVerify(b *testing.B) {
	tok, err := token.Generate()
	if err != nil {
		b.Fatal(err)
	}
	want := token.Hash(tok)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !token.Verify(tok, want) {
			b.Fatal("verify failed")
		}
	}
}
