package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/plmtools/centric-cli/internal/cli/alias"
)

// AliasCommand returns the alias subcommand group.
func AliasCommand() *cli.Command {
	return &cli.Command{
		Name:  "alias",
		Usage: "Endpoint alias management",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List configured endpoint aliases",
				Action: aliasList,
			},
		},
	}
}

func aliasList(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	set, err := alias.Load(cfg.Files.Aliases)
	if err != nil {
		return err
	}

	if len(set) == 0 {
		fmt.Fprintf(c.App.Writer, "No aliases defined in %s\n", cfg.Files.Aliases)
		return nil
	}

	for _, name := range set.Names() {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", name, set[name])
	}
	return nil
}
