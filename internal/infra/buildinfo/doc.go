// Package buildinfo exposes the version of the running aaamesh binary.
//
// Version, Commit and BuildTime are set with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/aaamesh-go/internal/infra/buildinfo.Version=v0.3.0"
//
// When Commit is not injected it falls back to the VCS revision recorded
// by the Go toolchain.
package buildinfo
