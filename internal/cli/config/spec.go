package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the effective configuration for a single invocation.
type Config struct {
	API    APIConfig    `koanf:"api"`
	Files  FilesConfig  `koanf:"files"`
	Output OutputConfig `koanf:"output"`
	Log    LogConfig    `koanf:"log"`
}

// APIConfig describes the Centric server contract.
type APIConfig struct {
	BaseURL         string `koanf:"base_url"`
	Username        string `koanf:"username"`
	Password        string `koanf:"password"`
	DefaultEndpoint string `koanf:"default_endpoint"`

	// PathPrefix is joined between the base URL and the versioned
	// endpoint, e.g. base_url/csi-requesthandler/api/v2/materials.
	PathPrefix string `koanf:"path_prefix"`

	// LoginPath is the session endpoint exchanging credentials for a token.
	LoginPath string `koanf:"login_path"`

	// TokenField is the login response key carrying the token.
	TokenField string `koanf:"token_field"`

	// AuthFailureStatuses are the statuses treated as an expired or
	// rejected token, triggering the single re-authentication retry.
	AuthFailureStatuses []int `koanf:"auth_failure_statuses"`

	Timeout time.Duration `koanf:"timeout"`
}

// FilesConfig holds paths to the CLI's companion files.
type FilesConfig struct {
	Token   string `koanf:"token"`
	Aliases string `koanf:"aliases"`
	Log     string `koanf:"log"`
}

// OutputConfig controls where and how response bodies are written.
type OutputConfig struct {
	Path string `koanf:"path"`
	Raw  bool   `koanf:"raw"`
}

// LogConfig controls diagnostic logging to stderr.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Credentials is the immutable credential set resolved for one invocation.
type Credentials struct {
	BaseURL         string
	Username        string
	Password        string
	DefaultEndpoint string
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".centric", "cli.yaml")
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".centric")

	return &Config{
		API: APIConfig{
			PathPrefix:          "csi-requesthandler/api",
			LoginPath:           "csi-requesthandler/api/v2/session",
			TokenField:          "token",
			AuthFailureStatuses: []int{401},
			Timeout:             30 * time.Second,
		},
		Files: FilesConfig{
			Token:   filepath.Join(base, "token"),
			Aliases: filepath.Join(base, "aliases.toml"),
			Log:     filepath.Join(base, "centric.log"),
		},
		Output: OutputConfig{
			Path: "payload.json",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Credentials extracts the immutable credential set.
func (c *Config) Credentials() Credentials {
	return Credentials{
		BaseURL:         c.API.BaseURL,
		Username:        c.API.Username,
		Password:        c.API.Password,
		DefaultEndpoint: c.API.DefaultEndpoint,
	}
}

// Validate checks that the fields required for authentication are
// present. When the caller supplied an explicit token the credential
// fields are not needed and validation passes.
func (c *Config) Validate(explicitToken bool) error {
	if explicitToken {
		return nil
	}
	if c.API.BaseURL == "" {
		return &MissingFieldError{Field: "base_url"}
	}
	if c.API.Username == "" {
		return &MissingFieldError{Field: "username"}
	}
	if c.API.Password == "" {
		return &MissingFieldError{Field: "password"}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}
