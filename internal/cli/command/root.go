// Package command provides CLI command definitions for centric.
//
// It uses urfave/cli/v2 for command parsing. The app-level action
// performs an API request; subcommands cover the ancillary flows
// (token, config, alias).
package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/plmtools/centric-cli/internal/cli/config"
	"github.com/plmtools/centric-cli/internal/infra/buildinfo"
	"github.com/plmtools/centric-cli/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "centric",
		Usage:   "Centric PLM REST API client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Action:  runRequest,
		Commands: []*cli.Command{
			TokenCommand(),
			ConfigCommand(),
			AliasCommand(),
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				logger.SetLevel("debug")
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"b"},
			Usage:   "API server base URL (e.g., https://plm.example.com)",
			EnvVars: []string{"CENTRIC_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Username for authentication",
			EnvVars: []string{"CENTRIC_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Password for authentication",
			EnvVars: []string{"CENTRIC_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "Versioned endpoint path (e.g., v2/materials)",
			EnvVars: []string{"CENTRIC_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "method",
			Aliases: []string{"m"},
			Usage:   "HTTP method",
			Value:   "GET",
		},
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Request body as inline JSON, or @file to load from a file",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output destination (file path, or - for stdout)",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "Write the response body unmodified (no pretty-printing)",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Explicit token; bypasses the cache and authentication",
			EnvVars: []string{"CENTRIC_TOKEN"},
		},
		&cli.BoolFlag{
			Name:  "token-only",
			Usage: "Print the token and exit without calling any endpoint",
		},
		&cli.StringFlag{
			Name:    "alias",
			Aliases: []string{"a"},
			Usage:   "Endpoint alias from the aliases file",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Config file path",
			EnvVars: []string{"CENTRIC_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "token-file",
			Usage:   "Token cache file path",
			EnvVars: []string{"CENTRIC_TOKEN_FILE"},
		},
		&cli.StringFlag{
			Name:  "aliases-file",
			Usage: "Aliases file path",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Request audit log path (empty disables)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "HTTP timeout",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// loadConfig resolves the effective configuration, layering explicitly
// set flags over environment and file values.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	loader := config.NewLoader(
		config.WithConfigFile(configPath),
		config.WithFlags(flagOverrides(c)),
	)
	return loader.Load()
}

// flagOverrides maps explicitly set flags to dotted config keys.
func flagOverrides(c *cli.Context) map[string]any {
	flags := map[string]any{}

	setString := func(flag, key string) {
		if c.IsSet(flag) {
			flags[key] = c.String(flag)
		}
	}
	setString("base-url", "api.base_url")
	setString("username", "api.username")
	setString("password", "api.password")
	setString("token-file", "files.token")
	setString("aliases-file", "files.aliases")
	setString("log-file", "files.log")
	setString("out", "output.path")

	if c.IsSet("timeout") {
		flags["api.timeout"] = c.Duration("timeout").String()
	}
	if c.IsSet("raw") {
		flags["output.raw"] = c.Bool("raw")
	}
	if c.Bool("verbose") {
		flags["log.level"] = "debug"
	}

	return flags
}

// requestTimeout returns the effective timeout with a guard against
// zero values from hand-edited config files.
func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.API.Timeout <= 0 {
		return 30 * time.Second
	}
	return cfg.API.Timeout
}
