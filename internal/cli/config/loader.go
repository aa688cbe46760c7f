package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "CENTRIC_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	filePath  string
	envPrefix string
	flags     map[string]any
}

// Option configures the Loader.
type Option func(*Loader)

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithFlags supplies explicitly set command-line values as dotted
// config keys (e.g. "api.base_url"). These take the highest priority.
func WithFlags(flags map[string]any) Option {
	return func(l *Loader) {
		l.flags = flags
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: EnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the effective configuration. Loading order (later
// sources override earlier): defaults, config file, environment
// variables, explicit flags. A missing config file is not an error;
// required-field checks happen later in Config.Validate, once it is
// known whether an explicit token bypass is in play.
func (l *Loader) Load() (*Config, error) {
	// A .env file in the working directory feeds the environment layer.
	// Absence is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if l.filePath != "" {
		if err := l.loadFile(l.filePath); err != nil {
			return nil, err
		}
	}

	if err := l.loadEnv(); err != nil {
		return nil, err
	}

	if len(l.flags) > 0 {
		if err := l.k.Load(mapProvider(l.flags), nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	if err := l.k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	cfg.Files.Token = ExpandPath(cfg.Files.Token)
	cfg.Files.Aliases = ExpandPath(cfg.Files.Aliases)
	cfg.Files.Log = ExpandPath(cfg.Files.Log)

	return cfg, nil
}

func (l *Loader) loadFile(path string) error {
	path = ExpandPath(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return errors.Wrapf(err, "load config file %s", path)
	}
	return nil
}

// loadEnv loads CENTRIC_* environment variables. The variable name maps
// to a dotted config key: CENTRIC_API_BASE_URL -> api.base_url.
func (l *Loader) loadEnv() error {
	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "_", ".")
		// Config keys themselves contain underscores (base_url,
		// token_field, ...), so restore the known two-level shape:
		// only the first separator starts a section.
		if section, rest, ok := strings.Cut(s, "."); ok {
			return section + "." + strings.ReplaceAll(rest, ".", "_")
		}
		return s
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", envTransformer), nil); err != nil {
		return errors.Wrap(err, "load env")
	}
	return nil
}
