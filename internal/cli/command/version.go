package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			if tableMode(c) {
				fmt.Fprintln(stdout(c), buildinfo.String())
				return nil
			}
			info := buildinfo.Get()
			return render(c, &info)
		},
	}
}
