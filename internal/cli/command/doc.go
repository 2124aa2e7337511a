// Package command defines the aaamesh-node command line with urfave/cli/v2.
//
//   - root.go: application, global flags and shared helpers
//   - node.go: run, the node daemon itself
//   - config.go: config check and config show
//   - status.go, session.go, claim.go: admin API clients
//   - shell.go: interactive mode over the same commands
//   - version.go: build information
//
// Client commands talk to a running node over its admin HTTP API. Their
// defaults come from ~/.aaamesh/cli.yaml, then AAAMESH_* variables, then
// flags.
package command
