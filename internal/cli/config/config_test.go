package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.TokenField != "token" {
		t.Errorf("TokenField = %q, want %q", cfg.API.TokenField, "token")
	}
	if len(cfg.API.AuthFailureStatuses) != 1 || cfg.API.AuthFailureStatuses[0] != 401 {
		t.Errorf("AuthFailureStatuses = %v, want [401]", cfg.API.AuthFailureStatuses)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Output.Path != "payload.json" {
		t.Errorf("Output.Path = %q, want %q", cfg.Output.Path, "payload.json")
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://plm.example.com
  username: svc-user
  password: secret
  default_endpoint: v2/materials
  timeout: 10s
`)

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://plm.example.com" {
		t.Errorf("BaseURL = %q, want file value", cfg.API.BaseURL)
	}
	if cfg.API.Username != "svc-user" {
		t.Errorf("Username = %q, want %q", cfg.API.Username, "svc-user")
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.API.Timeout)
	}
	// Unset keys keep their defaults.
	if cfg.API.LoginPath != "csi-requesthandler/api/v2/session" {
		t.Errorf("LoginPath = %q, want default", cfg.API.LoginPath)
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://from-file.example.com
  username: file-user
  password: file-pass
`)

	cfg, err := NewLoader(
		WithConfigFile(path),
		WithFlags(map[string]any{
			"api.base_url": "https://from-flag.example.com",
			"api.username": "flag-user",
		}),
	).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://from-flag.example.com" {
		t.Errorf("BaseURL = %q, flag should win over file", cfg.API.BaseURL)
	}
	if cfg.API.Username != "flag-user" {
		t.Errorf("Username = %q, flag should win over file", cfg.API.Username)
	}
	// Fields without flag overrides keep the file value.
	if cfg.API.Password != "file-pass" {
		t.Errorf("Password = %q, want file value", cfg.API.Password)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://from-file.example.com
`)

	t.Setenv("CENTRIC_API_BASE_URL", "https://from-env.example.com")

	cfg, err := NewLoader(WithConfigFile(path)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://from-env.example.com" {
		t.Errorf("BaseURL = %q, env should win over file", cfg.API.BaseURL)
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("CENTRIC_API_USERNAME", "env-user")

	cfg, err := NewLoader(
		WithFlags(map[string]any{"api.username": "flag-user"}),
	).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Username != "flag-user" {
		t.Errorf("Username = %q, flag should win over env", cfg.API.Username)
	}
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	cfg, err := NewLoader(WithConfigFile("/nonexistent/cli.yaml")).Load()
	if err != nil {
		t.Fatalf("Load() error = %v, missing config file should not be fatal", err)
	}
	if cfg.API.TokenField != "token" {
		t.Errorf("TokenField = %q, want default", cfg.API.TokenField)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		explicitToken bool
		wantField     string
	}{
		{"all present", func(c *Config) {}, false, ""},
		{"missing base_url", func(c *Config) { c.API.BaseURL = "" }, false, "base_url"},
		{"missing username", func(c *Config) { c.API.Username = "" }, false, "username"},
		{"missing password", func(c *Config) { c.API.Password = "" }, false, "password"},
		{"explicit token bypasses all", func(c *Config) {
			c.API.BaseURL = ""
			c.API.Username = ""
			c.API.Password = ""
		}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.API.BaseURL = "https://plm.example.com"
			cfg.API.Username = "u"
			cfg.API.Password = "p"
			tt.mutate(cfg)

			err := cfg.Validate(tt.explicitToken)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("Validate() error = %v, want MissingFieldError", err)
			}
			if missing.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", missing.Field, tt.wantField)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	got := ExpandPath("~/.centric/token")
	want := filepath.Join(homeDir, ".centric", "token")
	if got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath() = %q, absolute path should pass through", got)
	}
}
