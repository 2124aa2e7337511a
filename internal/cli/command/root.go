package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/aaamesh-go/internal/cli/config"
	"github.com/yndnr/aaamesh-go/internal/cli/connection"
	"github.com/yndnr/aaamesh-go/internal/cli/output"
	"github.com/yndnr/aaamesh-go/internal/infra/buildinfo"
	"github.com/yndnr/aaamesh-go/internal/infra/tlsroots"
)

// AppName is the binary name.
const AppName = "aaamesh-node"

const metaCLIConfig = "cliConfig"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 AppName,
		Usage:                "AAAMesh replication node and admin client",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			RunCommand(),
			ConfigCommand(),
			StatusCommand(),
			SessionCommand(),
			ClaimCommand(),
			ShellCommand(),
			VersionCommand(),
		},
		Before: applyCLIConfig,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cli-config",
			Usage:   "Client defaults file",
			EnvVars: []string{"AAAMESH_CLI_CONFIG"},
			Value:   cliconfig.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Admin API address of the node (host:port or URL)",
			EnvVars: []string{"AAAMESH_SERVER"},
			Value:   cliconfig.Default().Server,
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM file of CAs trusted for an https server (default: system roots)",
			EnvVars: []string{"AAAMESH_CA_FILE"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer token for the admin API",
			EnvVars: []string{"AAAMESH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   cliconfig.Default().Output,
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:  "no-headers",
			Usage: "Omit table headers",
		},
	}
}

// applyCLIConfig fills global flags the user did not set from the
// client defaults file.
func applyCLIConfig(c *cli.Context) error {
	cfg, err := cliconfig.Load(c.String("cli-config"))
	if err != nil {
		return err
	}
	c.App.Metadata = map[string]any{metaCLIConfig: cfg}

	defaults := map[string]string{
		"server":  cfg.Server,
		"token":   cfg.Token,
		"ca-file": cfg.CAFile,
		"output":  cfg.Output,
	}
	for name, value := range defaults {
		if value == "" || c.IsSet(name) {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server    string
	Token     string
	CAFile    string
	Output    string
	Wide      bool
	NoHeaders bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:    c.String("server"),
		Token:     c.String("token"),
		CAFile:    c.String("ca-file"),
		Output:    c.String("output"),
		Wide:      c.Bool("wide"),
		NoHeaders: c.Bool("no-headers"),
	}
}

// cliConfigFrom returns the client defaults loaded in Before.
func cliConfigFrom(c *cli.Context) *cliconfig.CLIConfig {
	if cfg, ok := c.App.Metadata[metaCLIConfig].(*cliconfig.CLIConfig); ok {
		return cfg
	}
	return cliconfig.Default()
}

// newClient builds an admin API client from the global flags.
func newClient(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)
	var opts []connection.Option
	if flags.CAFile != "" {
		pool, err := tlsroots.LoadPool(flags.CAFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, connection.WithTLSConfig(pool.ClientTLSConfig()))
	}
	return connection.NewHTTPClient(flags.Server, flags.Token, opts...), nil
}

// apiGet calls GET path on the node and decodes the response data.
func apiGet(c *cli.Context, path string, target any) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, connection.DefaultTimeout)
	defer cancel()
	return client.Get(ctx, path, target)
}

// apiPost calls POST path on the node with a JSON body.
func apiPost(c *cli.Context, path string, body, target any) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, connection.DefaultTimeout)
	defer cancel()
	return client.Post(ctx, path, body, target)
}

// render writes data in the selected output format.
func render(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}

	var f output.Formatter
	if format == output.FormatTable {
		f = &output.TableFormatter{Wide: flags.Wide, NoHeaders: flags.NoHeaders}
	} else {
		f = output.NewFormatter(format, flags.Wide)
	}
	return f.Format(stdout(c), data)
}

func stdout(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// requireArg returns the single positional argument of a command.
func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one %s argument", name)
	}
	return c.Args().First(), nil
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

// tableMode reports whether the table format is selected. An invalid
// format counts as table; render reports it.
func tableMode(c *cli.Context) bool {
	format, err := output.ParseFormat(c.String("output"))
	return err != nil || format == output.FormatTable
}
