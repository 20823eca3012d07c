package config

import "time"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Dir:   "",
			File:  "xp-theme-tools.log",
		},
		Convert: ConvertConfig{
			InputDir:    "",
			OutputDir:   "",
			Extensions:  []string{".png"},
			Background:  "#FFFFFF",
			MaxFileSize: 64 << 20,
			MaxPixels:   64 << 20,
		},
		Report: ReportConfig{
			Readme: "README.txt",
		},
		Ledger: LedgerConfig{
			Enabled: false,
			DSN:     "",
		},
		RetroBar: RetroBarConfig{
			Executable: "",
			ConfigDir:  "",
			Theme:      "Windows XP Blue",
			StopWait:   time.Second,
			StartWait:  2 * time.Second,
		},
	}
}
