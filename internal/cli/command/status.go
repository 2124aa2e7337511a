package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/server/httpserver/handler"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show node state and connected peers",
		Action: status,
	}
}

func status(c *cli.Context) error {
	var st handler.StatusResponse
	if err := apiGet(c, "/admin/v1/status", &st); err != nil {
		return fmt.Errorf("status: %w", err)
	}

	if !tableMode(c) {
		return render(c, &st)
	}

	w := stdout(c)
	fmt.Fprintf(w, "Node:    %s\n", st.Node)
	fmt.Fprintf(w, "State:   %s\n", st.State)
	fmt.Fprintf(w, "Version: %s\n", st.Version)
	fmt.Fprintf(w, "Objects: %d\n", st.MirrorObjects)
	fmt.Fprintf(w, "Peers:   %d\n", len(st.Peers))
	if len(st.Peers) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return render(c, st.Peers)
}
