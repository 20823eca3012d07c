// Command retrobar-config writes the Windows XP RetroBar settings and
// restarts RetroBar with them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"xp-theme-tools/internal/bootstrap"
	"xp-theme-tools/internal/cli"
	"xp-theme-tools/internal/domain/retrobar"
	platformerrors "xp-theme-tools/internal/platform/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("retrobar-config", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	executable := fs.String("exe", "", "path to RetroBar.exe")
	noPause := fs.Bool("no-pause", false, "never wait for Enter before exiting")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	exeDir := cli.ExecutableDir()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := bootstrap.RunRetroBar(ctx, bootstrap.RetroBarOptions{
		Options: bootstrap.Options{
			ConfigPath: cli.ConfigPath(*configPath, exeDir),
		},
		Executable:        *executable,
		DefaultExecutable: filepath.Join(exeDir, "Retro_Bar", retrobar.ExecutableName),
	})
	if errors.Is(err, context.Canceled) {
		fmt.Println("\n[!] Cancelled by user")
		return 1
	}

	if err != nil {
		switch platformerrors.KindOf(err) {
		case platformerrors.KindPrecondition, platformerrors.KindProcess:
			// already reported by the configurator
		default:
			fmt.Printf("[ERROR] %v\n", err)
		}
		cli.Pause(*noPause, os.Stdin, os.Stdout)
		return 1
	}
	cli.Pause(*noPause, os.Stdin, os.Stdout)
	return 0
}
