package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/cli/repl"
)

// notInShell lists commands that make no sense inside the shell.
var notInShell = map[string]bool{"run": true, "shell": true}

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Run client commands interactively",
		Action: shell,
	}
}

func shell(c *cli.Context) error {
	history := repl.NewHistory(historyFile(c))
	if err := history.Load(); err != nil {
		PrintError("load history: %v", err)
	}

	flags := ParseGlobalFlags(c)
	base := []string{c.App.Name,
		"--cli-config", c.String("cli-config"),
		"--server", flags.Server,
		"--output", flags.Output,
	}
	if flags.Token != "" {
		base = append(base, "--token", flags.Token)
	}
	if flags.CAFile != "" {
		base = append(base, "--ca-file", flags.CAFile)
	}
	if flags.Wide {
		base = append(base, "--wide")
	}

	exec := func(args []string) error {
		if len(args) > 0 && notInShell[args[0]] {
			return fmt.Errorf("%q is not available in the shell", args[0])
		}
		return c.App.Run(append(append([]string(nil), base...), args...))
	}

	fmt.Fprintf(stdout(c), "connected to %s; type a command, \"<prefix> ?\" to complete, exit to leave\n", flags.Server)
	r := repl.New(os.Stdin, stdout(c), exec, repl.NewCompleter(commandPaths(c.App.Commands, "")), history)
	runErr := r.Run()
	return errors.Join(runErr, history.Save())
}

// historyFile returns the shell history path from the client defaults.
func historyFile(c *cli.Context) string {
	if f := cliConfigFrom(c).HistoryFile; f != "" {
		return f
	}
	return repl.DefaultHistoryFile()
}

// commandPaths lists "cmd" and "cmd sub" paths for completion.
func commandPaths(cmds []*cli.Command, prefix string) []string {
	var out []string
	for _, cmd := range cmds {
		if cmd.Hidden || notInShell[cmd.Name] {
			continue
		}
		path := prefix + cmd.Name
		out = append(out, path)
		out = append(out, commandPaths(cmd.Subcommands, path+" ")...)
	}
	return out
}
