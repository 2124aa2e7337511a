package command

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/internal/server/httpserver/handler"
)

type claimRow struct {
	ID       string   `json:"id"`
	ClientID string   `json:"client_id"`
	UserID   string   `json:"user_id"`
	User     string   `json:"user" table:"wide"`
	Domain   string   `json:"domain" table:"wide"`
	Roles    []string `json:"roles"`
}

func renderClaim(c *cli.Context, cl *domain.Claim) error {
	if !tableMode(c) {
		return render(c, cl)
	}
	row := claimRow{ID: cl.ID, Roles: cl.Roles}
	for dst, src := range map[*string]*string{
		&row.ClientID: cl.ClientID,
		&row.UserID:   cl.UserID,
		&row.User:     cl.User,
		&row.Domain:   cl.Domain,
	} {
		if src != nil {
			*dst = *src
		}
	}
	return render(c, []claimRow{row})
}

// ClaimCommand returns the claim subcommand group.
func ClaimCommand() *cli.Command {
	return &cli.Command{
		Name:  "claim",
		Usage: "Manage replicated authorization claims",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show one claim",
				ArgsUsage: "CLAIM_ID",
				Action:    claimGet,
			},
			{
				Name:  "create",
				Usage: "Issue a claim and replicate it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "client-id",
						Usage:    "Client application the claim is issued to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Usage:    "User ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "user",
						Usage: "User display name or login",
					},
					&cli.StringFlag{
						Name:    "domain",
						Aliases: []string{"d"},
						Usage:   "Authentication domain",
					},
					&cli.StringSliceFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Usage:   "Granted role (repeatable)",
					},
				},
				Action: claimCreate,
			},
			{
				Name:      "revoke",
				Usage:     "Remove a claim from every node",
				ArgsUsage: "CLAIM_ID",
				Action:    claimRevoke,
			},
		},
	}
}

func claimGet(c *cli.Context) error {
	id, err := requireArg(c, "CLAIM_ID")
	if err != nil {
		return err
	}
	var cl domain.Claim
	if err := apiGet(c, "/claims/"+url.PathEscape(id), &cl); err != nil {
		return err
	}
	return renderClaim(c, &cl)
}

func claimCreate(c *cli.Context) error {
	req := handler.CreateClaimRequest{
		ClientID: c.String("client-id"),
		UserID:   c.String("user-id"),
		User:     c.String("user"),
		Domain:   c.String("domain"),
		Roles:    c.StringSlice("role"),
	}

	var cl domain.Claim
	if err := apiPost(c, "/claims", req, &cl); err != nil {
		return err
	}
	return renderClaim(c, &cl)
}

func claimRevoke(c *cli.Context) error {
	id, err := requireArg(c, "CLAIM_ID")
	if err != nil {
		return err
	}
	if err := apiPost(c, "/claims/"+url.PathEscape(id)+"/revoke", nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "claim %s revoked\n", id)
	return nil
}
