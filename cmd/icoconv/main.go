// Command icoconv converts a folder of PNG icons into multi-resolution
// Windows .ico files and writes an installation README next to them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"xp-theme-tools/internal/bootstrap"
	"xp-theme-tools/internal/cli"
	platformerrors "xp-theme-tools/internal/platform/errors"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	fs := flag.NewFlagSet("icoconv", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	inputDir := fs.String("input", "", "folder holding the source PNG icons")
	outputDir := fs.String("output", "", "folder receiving the .ico files")
	noPause := fs.Bool("no-pause", false, "never wait for Enter before exiting")
	history := fs.Int("history", 0, "list the N most recent runs from the ledger and exit")
	runID := fs.String("run", "", "list every item of one ledger run and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	exeDir := cli.ExecutableDir()
	opts := bootstrap.Options{ConfigPath: cli.ConfigPath(*configPath, exeDir)}

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\nUNEXPECTED ERROR: %v\n%s\n", r, debug.Stack())
			cli.Pause(*noPause, os.Stdin, os.Stdout)
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *history > 0 || *runID != "" {
		err := bootstrap.ShowHistory(ctx, bootstrap.HistoryOptions{
			Options: opts,
			Limit:   *history,
			RunID:   *runID,
		})
		if err != nil {
			printError(err)
			return 1
		}
		return 0
	}

	rep, err := bootstrap.RunConverter(ctx, bootstrap.ConverterOptions{
		Options:          opts,
		InputDir:         *inputDir,
		OutputDir:        *outputDir,
		DefaultInputDir:  filepath.Join(exeDir, "Icons"),
		DefaultOutputDir: filepath.Join(exeDir, "Icons_ICO"),
	})

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("\n\nConversion cancelled by user.")
		return 0
	case err != nil:
		printError(err)
		cli.Pause(*noPause, os.Stdin, os.Stdout)
		return 1
	case rep != nil && rep.Failure > 0:
		cli.Pause(*noPause, os.Stdin, os.Stdout)
	}
	return 0
}

// printError shows a precondition as its plain message and anything else
// with the full cause chain.
func printError(err error) {
	var typed *platformerrors.Error
	if errors.As(err, &typed) && typed.Kind == platformerrors.KindPrecondition {
		if typed.Cause != nil {
			fmt.Printf("ERROR: %s: %v\n", typed.Message, typed.Cause)
		} else {
			fmt.Printf("ERROR: %s\n", typed.Message)
		}
		return
	}
	fmt.Printf("\nUNEXPECTED ERROR: %v\n", err)
}
