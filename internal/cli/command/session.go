package command

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/internal/server/httpserver/handler"
)

// sessionRow is the table view of a session.
type sessionRow struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Domain   string `json:"domain"`
	ClientIP string `json:"client_ip" table:"wide"`
	Active   string `json:"active"`
	Expires  string `json:"expires"`
}

func toSessionRow(s *domain.Session) sessionRow {
	row := sessionRow{ID: s.ID, Active: "-", Expires: "never"}
	if s.UserID != nil {
		row.UserID = *s.UserID
	}
	if s.Domain != nil {
		row.Domain = *s.Domain
	}
	if s.ClientIP != nil {
		row.ClientIP = *s.ClientIP
	}
	if s.Active != nil {
		row.Active = fmt.Sprint(*s.Active)
	}
	if s.ExpiresAt != nil {
		row.Expires = s.ExpiresAtTime().UTC().Format(time.RFC3339)
	}
	return row
}

// renderSessions prints sessions as rows in table mode and as the raw
// objects otherwise.
func renderSessions(c *cli.Context, sessions ...*domain.Session) error {
	if !tableMode(c) {
		if len(sessions) == 1 {
			return render(c, sessions[0])
		}
		return render(c, sessions)
	}
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, toSessionRow(s))
	}
	return render(c, rows)
}

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Manage replicated sessions",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show one session",
				ArgsUsage: "SESSION_ID",
				Action:    sessionGet,
			},
			{
				Name:      "check",
				Usage:     "Check that a session is active and not expired",
				ArgsUsage: "SESSION_ID",
				Action:    sessionCheck,
			},
			{
				Name:  "create",
				Usage: "Create a session and replicate it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "User ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "domain",
						Aliases: []string{"d"},
						Usage:   "Authentication domain",
					},
					&cli.StringFlag{
						Name:  "client-ip",
						Usage: "Client address the session was opened from",
					},
					&cli.DurationFlag{
						Name:    "ttl",
						Aliases: []string{"t"},
						Value:   12 * time.Hour,
						Usage:   "Session TTL (e.g., 12h, 30m); 0 never expires",
					},
				},
				Action: sessionCreate,
			},
			{
				Name:      "end",
				Usage:     "Mark a session inactive (logout)",
				ArgsUsage: "SESSION_ID",
				Action:    sessionEnd,
			},
			{
				Name:      "revoke",
				Usage:     "Remove a session from every node",
				ArgsUsage: "SESSION_ID",
				Action:    sessionRevoke,
			},
			{
				Name:      "list",
				Usage:     "List the sessions of a user",
				ArgsUsage: "USER_ID",
				Action:    sessionList,
			},
			{
				Name:      "revoke-user",
				Usage:     "Remove every session of a user",
				ArgsUsage: "USER_ID",
				Action:    sessionRevokeUser,
			},
		},
	}
}

func sessionGet(c *cli.Context) error {
	id, err := requireArg(c, "SESSION_ID")
	if err != nil {
		return err
	}
	var s domain.Session
	if err := apiGet(c, "/sessions/"+url.PathEscape(id), &s); err != nil {
		return err
	}
	return renderSessions(c, &s)
}

func sessionCheck(c *cli.Context) error {
	id, err := requireArg(c, "SESSION_ID")
	if err != nil {
		return err
	}
	var s domain.Session
	if err := apiGet(c, "/sessions/"+url.PathEscape(id)+"/validate", &s); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "session %s is valid\n", id)
	return nil
}

func sessionCreate(c *cli.Context) error {
	ttl := c.Duration("ttl")
	if ttl < 0 {
		return errors.New("--ttl must not be negative")
	}
	req := handler.CreateSessionRequest{
		UserID:     c.String("user-id"),
		Domain:     c.String("domain"),
		ClientIP:   c.String("client-ip"),
		TTLSeconds: int64(ttl / time.Second),
	}

	var s domain.Session
	if err := apiPost(c, "/sessions", req, &s); err != nil {
		return err
	}
	return renderSessions(c, &s)
}

func sessionEnd(c *cli.Context) error {
	return sessionAction(c, "end", "ended")
}

func sessionRevoke(c *cli.Context) error {
	return sessionAction(c, "revoke", "revoked")
}

func sessionAction(c *cli.Context, action, done string) error {
	id, err := requireArg(c, "SESSION_ID")
	if err != nil {
		return err
	}
	if err := apiPost(c, "/sessions/"+url.PathEscape(id)+"/"+action, nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "session %s %s\n", id, done)
	return nil
}

func sessionList(c *cli.Context) error {
	userID, err := requireArg(c, "USER_ID")
	if err != nil {
		return err
	}
	var resp handler.SessionListResponse
	if err := apiGet(c, "/users/"+url.PathEscape(userID)+"/sessions", &resp); err != nil {
		return err
	}
	if !tableMode(c) {
		return render(c, &resp)
	}
	return renderSessions(c, resp.Sessions...)
}

func sessionRevokeUser(c *cli.Context) error {
	userID, err := requireArg(c, "USER_ID")
	if err != nil {
		return err
	}
	var resp handler.RevokeUserResponse
	if err := apiPost(c, "/users/"+url.PathEscape(userID)+"/sessions/revoke", nil, &resp); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "revoked %d sessions of %s\n", resp.Revoked, resp.UserID)
	return nil
}
