package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "xp-theme-tools/internal/platform/errors"
)

const (
	// EnvPrefix namespaces every environment override, e.g. XPTOOLS_LOG_LEVEL.
	EnvPrefix = "XPTOOLS_"
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "xp-theme-tools.yaml"
)

// Loader layers configuration: defaults, then an optional YAML file, then
// environment variables (optionally seeded from .env).
type Loader struct {
	useDotEnv bool
	path      string
}

// NewLoader creates a loader that reads .env and the default file if present.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath sets an explicit YAML file. A missing explicit file is an error.
func (l *Loader) WithPath(path string) *Loader {
	l.path = strings.TrimSpace(path)
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.dotenv", "failed to read .env", err)
		}
	}

	cfg := DefaultConfig()
	origin := "defaults"

	path := l.path
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.parse", fmt.Sprintf("invalid YAML in %s", path), err)
		}
		origin = path
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.read", fmt.Sprintf("cannot read %s", path), err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.env", "invalid environment override", err)
	}

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config: cfg,
		Path:   origin,
	}, nil
}

func (l *Loader) validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return platformerrors.New(platformerrors.KindConfig, "config.validate", fmt.Sprintf("unknown log level %q", cfg.Log.Level))
	}

	if len(cfg.Convert.Extensions) == 0 {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "convert.extensions must not be empty")
	}
	for i, ext := range cfg.Convert.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return platformerrors.New(platformerrors.KindConfig, "config.validate", "convert.extensions contains an empty entry")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Convert.Extensions[i] = ext
	}

	if _, err := cfg.Convert.BackgroundColor(); err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config.validate", "convert.background", err)
	}

	if cfg.Convert.MaxFileSize <= 0 || cfg.Convert.MaxPixels <= 0 {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "convert.max_file_size and convert.max_pixels must be positive")
	}

	if strings.TrimSpace(cfg.Report.Readme) == "" {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "report.readme must not be empty")
	}

	if cfg.Ledger.Enabled && strings.TrimSpace(cfg.Ledger.DSN) == "" {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "ledger.dsn is required when the ledger is enabled")
	}

	if cfg.RetroBar.StopWait < 0 || cfg.RetroBar.StartWait < 0 {
		return platformerrors.New(platformerrors.KindConfig, "config.validate", "retrobar waits must not be negative")
	}
	return nil
}
