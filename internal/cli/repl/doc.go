// Package repl provides the interactive shell of aaamesh-node.
//
//   - repl.go: read loop and command dispatch
//   - completer.go: command name completion
//   - history.go: command history persistence
//
// Each line is split into arguments and handed to an Executor, which in
// practice re-enters the urfave/cli application.
package repl
