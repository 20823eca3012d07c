package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"gorm.io/gorm"

	"xp-theme-tools/internal/domain/batch"
	"xp-theme-tools/internal/domain/eventbus"
	"xp-theme-tools/internal/domain/eventbus/infrastructure"
	"xp-theme-tools/internal/domain/eventbus/repository"
	"xp-theme-tools/internal/domain/icon"
	srcimage "xp-theme-tools/internal/domain/image"
	"xp-theme-tools/internal/domain/report"
	"xp-theme-tools/internal/domain/retrobar"
	platformconfig "xp-theme-tools/internal/platform/config"
	platformerrors "xp-theme-tools/internal/platform/errors"
	platformlogging "xp-theme-tools/internal/platform/logging"
	"xp-theme-tools/internal/platform/observability"
	platformstorage "xp-theme-tools/internal/platform/storage"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

// Options are shared by every entry point.
type Options struct {
	// ConfigPath is an explicit YAML file; empty means the default lookup.
	ConfigPath string
	// DisableDotEnv skips reading .env from the working directory.
	DisableDotEnv bool
	// Stdout receives user-facing output. Defaults to os.Stdout.
	Stdout io.Writer
	// LogConsole receives coloured log lines. Defaults to os.Stderr.
	LogConsole io.Writer
}

// ConverterOptions configure RunConverter. InputDir and OutputDir override
// the config file; the Default* values apply when neither is set.
type ConverterOptions struct {
	Options
	InputDir         string
	OutputDir        string
	DefaultInputDir  string
	DefaultOutputDir string
}

// HistoryOptions configure ShowHistory. RunID selects one run and lists
// every item; otherwise the Limit newest runs are listed with their failures.
type HistoryOptions struct {
	Options
	Limit int
	RunID string
}

// RetroBarOptions configure RunRetroBar.
type RetroBarOptions struct {
	Options
	Executable        string
	DefaultExecutable string
	Processes         retrobar.ProcessManager
}

type appState struct {
	opts       Options
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	ledger     *gorm.DB
	bus        eventbus.Bus
}

func (s *appState) stdout() io.Writer {
	if s.opts.Stdout != nil {
		return s.opts.Stdout
	}
	return os.Stdout
}

// close releases the ledger and the logger in reverse start order.
func (s *appState) close() {
	if s.ledger != nil {
		if err := platformstorage.CloseLedger(s.ledger); err != nil && s.logger != nil {
			s.logger.WarnTag("ledger", "ledger not closed cleanly: %v", err)
		}
		s.ledger = nil
	}
	if s.logger != nil {
		observability.Setup(observability.Config{}, nil)
		_ = s.logger.Close()
	}
}

// finish turns a panic into a KindUnknown error and logs unexpected
// failures while the logger is still open. It must be deferred directly.
func (s *appState) finish(op string, errp *error) {
	if r := recover(); r != nil {
		*errp = platformerrors.New(platformerrors.KindUnknown, op,
			fmt.Sprintf("panic: %v\n%s", r, debug.Stack()))
	}

	err := *errp
	if err == nil || s.logger == nil || errors.Is(err, context.Canceled) {
		return
	}
	switch platformerrors.KindOf(err) {
	case platformerrors.KindPrecondition:
		s.logger.WarnTag(op, "%v", err)
	default:
		s.logger.ErrorTag(op, "unexpected failure: %v", err)
	}
}

// RunConverter loads configuration, wires the event subscribers and converts
// every icon in the input directory.
func RunConverter(ctx context.Context, opts ConverterOptions) (rep *report.Report, err error) {
	state := &appState{opts: opts.Options}
	defer state.close()
	defer state.finish("converter", &err)

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return nil, err
	}
	logBootstrapGraph(steps, state.logger)

	cfg := state.config
	inputDir := firstNonEmpty(opts.InputDir, cfg.Convert.InputDir, opts.DefaultInputDir)
	outputDir := firstNonEmpty(opts.OutputDir, cfg.Convert.OutputDir, opts.DefaultOutputDir)

	background, bgErr := cfg.Convert.BackgroundColor()
	if bgErr != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "convert.background", "invalid background colour", bgErr)
	}

	converter := icon.NewConverter(icon.Options{
		Logger: state.logger,
		Limits: srcimage.Limits{
			MaxFileSize: cfg.Convert.MaxFileSize,
			MaxPixels:   cfg.Convert.MaxPixels,
		},
		Background: background,
	})

	driver, err := batch.NewDriver(batch.Options{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		Extensions: cfg.Convert.Extensions,
		ReadmeName: cfg.Report.Readme,
		Converter:  converter,
		Bus:        state.bus,
		Logger:     state.logger,
	})
	if err != nil {
		return nil, err
	}

	printBanner(state.stdout())
	return driver.Run(ctx)
}

// RunRetroBar loads configuration and reconfigures the RetroBar taskbar.
func RunRetroBar(ctx context.Context, opts RetroBarOptions) (err error) {
	state := &appState{opts: opts.Options}
	defer state.close()
	defer state.finish("retrobar", &err)

	steps := coreSteps()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}
	logBootstrapGraph(steps, state.logger)

	cfg := state.config.RetroBar
	configurator, err := retrobar.NewConfigurator(retrobar.Options{
		Executable: firstNonEmpty(opts.Executable, cfg.Executable, opts.DefaultExecutable),
		ConfigDir:  cfg.ConfigDir,
		Theme:      cfg.Theme,
		StopWait:   cfg.StopWait,
		StartWait:  cfg.StartWait,
		Processes:  opts.Processes,
		Out:        state.stdout(),
		Logger:     state.logger,
	})
	if err != nil {
		return err
	}
	return configurator.Run(ctx)
}

// ShowHistory prints runs recorded in the ledger. It fails with
// KindPrecondition when the ledger is disabled or the run is unknown.
func ShowHistory(ctx context.Context, opts HistoryOptions) (err error) {
	state := &appState{opts: opts.Options}
	defer state.close()
	defer state.finish("history", &err)

	steps := append(coreSteps(), ledgerStep())
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}
	logBootstrapGraph(steps, state.logger)

	if state.ledger == nil {
		return platformerrors.New(platformerrors.KindPrecondition, "history",
			"the run ledger is disabled; set ledger.enabled and ledger.dsn")
	}

	versions, err := platformstorage.SchemaHistory(state.ledger)
	if err != nil {
		return err
	}
	schema := "none"
	if len(versions) > 0 {
		schema = versions[len(versions)-1].Version
	}

	repo := platformstorage.NewLedgerRepository(state.ledger)
	var summaries []report.RunSummary
	if opts.RunID != "" {
		run, err := repo.FindRun(ctx, opts.RunID)
		if err != nil {
			return err
		}
		if run == nil {
			return platformerrors.New(platformerrors.KindPrecondition, "history",
				fmt.Sprintf("run %s not found in the ledger", opts.RunID))
		}
		items, err := repo.ListItems(ctx, run.ID)
		if err != nil {
			return err
		}
		summaries = append(summaries, report.RunSummary{Run: *run, Items: items})
	} else {
		runs, err := repo.RecentRuns(ctx, opts.Limit)
		if err != nil {
			return err
		}
		for _, run := range runs {
			items, err := repo.ListItems(ctx, run.ID)
			if err != nil {
				return err
			}
			failed := make([]repository.Item, 0, len(items))
			for _, item := range items {
				if !item.Success {
					failed = append(failed, item)
				}
			}
			summaries = append(summaries, report.RunSummary{Run: run, Items: failed})
		}
	}

	return report.WriteHistory(state.stdout(), schema, summaries)
}

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "%s\nHIGH-QUALITY PNG TO ICO CONVERTER\nWindows XP Icon Package\n%s\n\n",
		eventbus.Separator, eventbus.Separator)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	logger.DebugTag("bootstrap", "init graph")
	for _, step := range steps {
		logger.DebugTag("bootstrap", "%s: %s", step.ID, step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// coreSteps load configuration and logging; every command needs them.
func coreSteps() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
	}
}

// InitGraph is the converter's start-up order.
func InitGraph() []initStep {
	return append(coreSteps(),
		ledgerStep(),
		initStep{
			ID:        "events:init",
			Title:     "Subscribe progress and ledger handlers",
			DependsOn: []string{"logging:init", "storage:init-ledger"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEventsStep,
		},
	)
}

func ledgerStep() initStep {
	return initStep{
		ID:        "storage:init-ledger",
		Title:     "Open run ledger",
		DependsOn: []string{"logging:init"},
		Kind:      platformerrors.KindStorage,
		Execute:   initLedgerStep,
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().
		WithDotEnv(!state.opts.DisableDotEnv).
		WithPath(state.opts.ConfigPath).
		Load()
	if err != nil {
		return err
	}

	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
		Console:  state.opts.LogConsole,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init", "failed to initialise logging", err)
	}

	state.logger = logger
	observability.Setup(observability.Config{Enabled: state.config.Log.Trace}, logger.Slog())
	state.logger.DebugTag("bootstrap", "logging ready [%s] %s", state.config.Log.Level, state.configPath)
	return nil
}

func initLedgerStep(_ context.Context, state *appState) error {
	if !state.config.Ledger.Enabled {
		return nil
	}

	db, err := platformstorage.OpenLedger(state.config.Ledger.DSN)
	if err != nil {
		return err
	}
	state.ledger = db
	state.logger.DebugTag("ledger", "ledger open at %s", state.config.Ledger.DSN)
	return nil
}

func initEventsStep(_ context.Context, state *appState) error {
	bus := eventbus.New()
	if _, err := eventbus.SetupProgressPrinter(bus, state.stdout()); err != nil {
		return err
	}

	if state.ledger != nil {
		recorder := infrastructure.NewLedgerRecorder(platformstorage.NewLedgerRepository(state.ledger), state.logger)
		if err := recorder.Subscribe(bus); err != nil {
			return err
		}
	}

	state.bus = bus
	return nil
}
