package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log" envPrefix:"LOG_"`
	Convert  ConvertConfig  `yaml:"convert" mapstructure:"convert" envPrefix:"CONVERT_"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report" envPrefix:"REPORT_"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger" envPrefix:"LEDGER_"`
	RetroBar RetroBarConfig `yaml:"retrobar" mapstructure:"retrobar" envPrefix:"RETROBAR_"`
}

type LogConfig struct {
	Level string `yaml:"log_level" mapstructure:"log_level" env:"LEVEL"`
	Dir   string `yaml:"log_dir" mapstructure:"log_dir" env:"DIR"`
	File  string `yaml:"log_file" mapstructure:"log_file" env:"FILE"`
	// Trace adds per-file span and run metric records at debug level.
	Trace bool `yaml:"trace" mapstructure:"trace" env:"TRACE"`
}

// ConvertConfig drives the icon batch converter. Empty directories are
// resolved against the executable location by the command entry point.
type ConvertConfig struct {
	InputDir   string   `yaml:"input_dir" mapstructure:"input_dir" env:"INPUT_DIR"`
	OutputDir  string   `yaml:"output_dir" mapstructure:"output_dir" env:"OUTPUT_DIR"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions" env:"EXTENSIONS" envSeparator:","`
	Background string   `yaml:"background" mapstructure:"background" env:"BACKGROUND"`

	// MaxFileSize and MaxPixels bound what a single source may cost to decode.
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size" env:"MAX_FILE_SIZE"`
	MaxPixels   int64 `yaml:"max_pixels" mapstructure:"max_pixels" env:"MAX_PIXELS"`
}

type ReportConfig struct {
	Readme string `yaml:"readme" mapstructure:"readme" env:"README"`
}

type LedgerConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled" env:"ENABLED"`
	DSN     string `yaml:"dsn" mapstructure:"dsn" env:"DSN"`
}

type RetroBarConfig struct {
	Executable string        `yaml:"executable" mapstructure:"executable" env:"EXECUTABLE"`
	ConfigDir  string        `yaml:"config_dir" mapstructure:"config_dir" env:"CONFIG_DIR"`
	Theme      string        `yaml:"theme" mapstructure:"theme" env:"THEME"`
	StopWait   time.Duration `yaml:"stop_wait" mapstructure:"stop_wait" env:"STOP_WAIT"`
	StartWait  time.Duration `yaml:"start_wait" mapstructure:"start_wait" env:"START_WAIT"`
}

// BackgroundColor parses Background as #RRGGBB. The alpha is always opaque.
func (c ConvertConfig) BackgroundColor() (color.RGBA, error) {
	return ParseHexColor(c.Background)
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
