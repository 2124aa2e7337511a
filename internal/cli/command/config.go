package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/cli/output"
	"github.com/yndnr/aaamesh-go/internal/server/config"
	"github.com/yndnr/aaamesh-go/internal/telemetry/logger"
	"github.com/yndnr/aaamesh-go/pkg/token"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Inspect node configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Load and verify the node configuration",
				Flags:  nodeConfigFlags(),
				Action: configCheck,
			},
			{
				Name:   "show",
				Usage:  "Print the effective node configuration with secrets masked",
				Flags:  nodeConfigFlags(),
				Action: configShow,
			},
			{
				Name:   "cli",
				Usage:  "Print the client defaults in effect",
				Action: configCLIShow,
			},
			{
				Name:   "token",
				Usage:  "Generate a random admin bearer token",
				Action: configToken,
			},
		},
	}
}

func configCheck(c *cli.Context) error {
	cfg, loader, err := loadNodeConfig(c)
	if err != nil {
		return err
	}
	source := loader.FilePath()
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(stdout(c), "configuration OK (%s): cluster %s:%d, %d peers\n",
		source, cfg.Cluster.Host, cfg.Cluster.Port, len(cfg.Peers))
	if t := cfg.HTTP.BearerToken; t != "" && token.Parse(t) != nil {
		fmt.Fprintln(stdout(c), "note: http.bearer_token was not produced by 'config token'")
	}
	return nil
}

func configToken(c *cli.Context) error {
	t, err := token.Generate()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(c), t)
	return nil
}

func configShow(c *cli.Context) error {
	cfg, _, err := loadNodeConfig(c)
	if err != nil {
		return err
	}
	return render(c, config.Flatten(config.Sanitize(cfg)))
}

func configCLIShow(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	tokenView := "-"
	switch {
	case logger.IsSensitiveValue(flags.Token):
		tokenView = logger.RedactString(flags.Token)
	case flags.Token != "":
		tokenView = "******"
	}
	caFile := flags.CAFile
	if caFile == "" {
		caFile = "-"
	}

	t := &output.Table{Headers: []string{"SETTING", "VALUE"}}
	t.AddRow("file", c.String("cli-config"))
	t.AddRow("server", flags.Server)
	t.AddRow("token", tokenView)
	t.AddRow("ca_file", caFile)
	t.AddRow("output", flags.Output)
	t.AddRow("history_file", historyFile(c))
	return t.Render(stdout(c), flags.NoHeaders)
}
