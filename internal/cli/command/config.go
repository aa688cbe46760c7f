package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/plmtools/centric-cli/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective merged configuration",
				Action: configShow,
			},
			{
				Name:   "init",
				Usage:  "Write a starter configuration file",
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	configPath := c.String("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Config file:      %s\n\n", configPath)
	fmt.Fprintf(w, "api:\n")
	fmt.Fprintf(w, "  base_url:         %s\n", orUnset(cfg.API.BaseURL))
	fmt.Fprintf(w, "  username:         %s\n", orUnset(cfg.API.Username))
	fmt.Fprintf(w, "  password:         %s\n", mask(cfg.API.Password))
	fmt.Fprintf(w, "  default_endpoint: %s\n", orUnset(cfg.API.DefaultEndpoint))
	fmt.Fprintf(w, "  path_prefix:      %s\n", cfg.API.PathPrefix)
	fmt.Fprintf(w, "  login_path:       %s\n", cfg.API.LoginPath)
	fmt.Fprintf(w, "  token_field:      %s\n", cfg.API.TokenField)
	fmt.Fprintf(w, "  auth_failure_statuses: %v\n", cfg.API.AuthFailureStatuses)
	fmt.Fprintf(w, "  timeout:          %s\n", requestTimeout(cfg))
	fmt.Fprintf(w, "files:\n")
	fmt.Fprintf(w, "  token:   %s\n", cfg.Files.Token)
	fmt.Fprintf(w, "  aliases: %s\n", cfg.Files.Aliases)
	fmt.Fprintf(w, "  log:     %s\n", cfg.Files.Log)
	fmt.Fprintf(w, "output:\n")
	fmt.Fprintf(w, "  path: %s\n", cfg.Output.Path)
	fmt.Fprintf(w, "  raw:  %v\n", cfg.Output.Raw)
	return nil
}

const starterConfig = `# centric-cli configuration.
# Flags and CENTRIC_* environment variables override these values.
api:
  base_url: https://plm.example.com
  username: ""
  password: ""
  default_endpoint: v2/materials
  # path_prefix: csi-requesthandler/api
  # login_path: csi-requesthandler/api/v2/session
  # token_field: token
  # auth_failure_statuses: [401]
  # timeout: 30s
`

func configInit(c *cli.Context) error {
	configPath := c.String("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	configPath = config.ExpandPath(configPath)

	if _, err := os.Stat(configPath); err == nil {
		return errors.Newf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o600); err != nil {
		return errors.Wrap(err, "write config file")
	}

	fmt.Fprintf(c.App.Writer, "Wrote starter config to %s\n", configPath)
	return nil
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}

func mask(value string) string {
	if value == "" {
		return "(unset)"
	}
	return "********"
}
