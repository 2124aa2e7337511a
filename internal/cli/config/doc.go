// Package config holds the client-side defaults of aaamesh-node
// (~/.aaamesh/cli.yaml): which node to talk to, its bearer token and the
// preferred output format. Flags and AAAMESH_* variables override it.
package config
