package retrobar

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xp-theme-tools/internal/platform/errors"
	"xp-theme-tools/internal/platform/logging"
)

const (
	ExecutableName = "RetroBar.exe"
	SettingsFile   = "RetroBar.xml"
	ReleasesURL    = "https://github.com/dremin/RetroBar/releases"
)

var separator = strings.Repeat("=", 80)

// Options configures a Configurator. Executable is required. An empty
// ConfigDir resolves to <user config dir>/RetroBar.
type Options struct {
	Executable string
	ConfigDir  string
	Theme      string
	StopWait   time.Duration
	StartWait  time.Duration
	Processes  ProcessManager
	Out        io.Writer
	Logger     *logging.Logger
}

// Configurator writes RetroBar's settings and restarts it.
type Configurator struct {
	opts   Options
	logger *logging.Logger
}

func NewConfigurator(opts Options) (*Configurator, error) {
	if opts.Executable == "" {
		return nil, errors.New(errors.KindConfig, "retrobar.new", "executable path is required")
	}
	if opts.Processes == nil {
		opts.Processes = SystemProcesses{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Theme == "" {
		opts.Theme = DefaultTheme
	}
	return &Configurator{opts: opts, logger: opts.Logger}, nil
}

func (c *Configurator) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.opts.Out, format, args...)
}

// Run stops RetroBar, writes its settings and starts it again. User-facing
// progress goes to Options.Out; the returned error carries the cause.
func (c *Configurator) Run(ctx context.Context) error {
	exe := c.opts.Executable
	c.printf("\n")

	if _, err := os.Stat(exe); err != nil {
		c.printf("[ERROR] %s not found at: %s\n\n", ExecutableName, exe)
		c.printf("Please download RetroBar from:\n%s\n\n", ReleasesURL)
		c.printf("Place %s in the %s folder\n\n", ExecutableName, filepath.Base(filepath.Dir(exe)))
		return errors.Wrap(errors.KindPrecondition, "retrobar.locate", "RetroBar executable not found", err)
	}
	c.printf("[+] RetroBar found: %s\n\n", exe)

	c.printf("[*] Stopping any existing RetroBar processes...\n")
	c.stop(ctx)
	if err := sleep(ctx, c.opts.StopWait); err != nil {
		return err
	}
	c.printf("[+] Previous instances stopped\n\n")

	c.printf("[*] Creating RetroBar configuration...\n")
	path, err := c.writeSettings()
	if err != nil {
		c.printf("\n[ERROR] Failed to create configuration\n")
		return err
	}
	c.logger.InfoTag("retrobar", "settings written to %s", path)

	c.printf("\n%s\nCONFIGURATION COMPLETE!\n%s\n", separator, separator)

	c.printf("\n[*] Starting RetroBar...\n")
	if err := c.opts.Processes.StartDetached(exe); err != nil {
		c.printf("[ERROR] Failed to start RetroBar: %v\n", err)
		return errors.Wrap(errors.KindProcess, "retrobar.start", "failed to start RetroBar", err)
	}
	if err := sleep(ctx, c.opts.StartWait); err != nil {
		return err
	}
	c.printf("[+] RetroBar started with %s theme!\n", c.opts.Theme)

	c.printSummary()
	return nil
}

func (c *Configurator) stop(ctx context.Context) {
	killed, err := c.opts.Processes.KillByName(ctx, ExecutableName)
	if err != nil {
		c.logger.WarnTag("retrobar", "could not stop every RetroBar process: %v", err)
	}
	c.logger.DebugTag("retrobar", "stopped %d RetroBar processes", killed)
}

// writeSettings renders the settings file into the config directory and
// returns its path.
func (c *Configurator) writeSettings() (string, error) {
	c.printf("%s\nRETROBAR AUTO-CONFIGURATOR\n%s\n\n", separator, separator)

	dir := c.opts.ConfigDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			c.printf("[ERROR] Could not find APPDATA directory\n")
			return "", errors.Wrap(errors.KindPrecondition, "retrobar.config_dir", "user config directory unavailable", err)
		}
		dir = filepath.Join(base, "RetroBar")
	}
	c.printf("[*] Config directory: %s\n", dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.printf("[ERROR] Failed to create config directory: %v\n", err)
		return "", errors.Wrap(errors.KindConfig, "retrobar.config_dir", "failed to create config directory", err)
	}
	c.printf("[+] Config directory ready\n")

	data, err := DefaultSettings(c.opts.Theme).Marshal()
	if err != nil {
		return "", errors.Wrap(errors.KindConfig, "retrobar.settings", "failed to render settings", err)
	}

	path := filepath.Join(dir, SettingsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printf("[ERROR] Failed to write config: %v\n", err)
		return "", errors.Wrap(errors.KindConfig, "retrobar.settings", "failed to write settings", err)
	}

	c.printf("[+] Configuration written to: %s\n", path)
	c.printf("[+] Theme set to: %s\n", c.opts.Theme)
	c.printf("[+] Auto-hide disabled\n")
	c.printf("[+] Clock and system tray enabled\n")
	return path, nil
}

func (c *Configurator) printSummary() {
	c.printf("\n%s\nSUCCESS!\n%s\n\n", separator, separator)
	c.printf("RetroBar is now running with %s theme!\n\n", c.opts.Theme)
	c.printf("Features configured:\n")
	c.printf("  - Theme: %s\n", c.opts.Theme)
	c.printf("  - Position: Bottom of screen\n")
	c.printf("  - Auto-hide: Disabled (always visible)\n")
	c.printf("  - Clock: Enabled\n")
	c.printf("  - System tray: Enabled\n")
	c.printf("  - Animations: Enabled\n\n")
	c.printf("To customize further:\n")
	c.printf("  Right-click RetroBar > Properties\n\n")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
