package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/plmtools/centric-cli/internal/cli/config"
)

// TokenCommand returns the token subcommand: print a usable token
// without calling any endpoint.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Print a usable token and exit (no endpoint call)",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			explicitToken := c.String("token")
			if err := cfg.Validate(explicitToken != ""); err != nil {
				return err
			}
			return printToken(c, cfg, explicitToken)
		},
	}
}

// printToken resolves a token (explicit, cached, or freshly issued)
// and writes it to stdout. Backs both `centric token` and --token-only.
func printToken(c *cli.Context, cfg *config.Config, explicitToken string) error {
	exec := newExecutor(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout(cfg))
	defer cancel()

	token, err := exec.ResolveToken(ctx, explicitToken)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, token)
	return nil
}
