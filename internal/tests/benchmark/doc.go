// Package benchmark provides performance benchmarks for aaamesh.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run the mirror benchmarks at larger scales:
//
//	go test -bench=BenchmarkMirror -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
