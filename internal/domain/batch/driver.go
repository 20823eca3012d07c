package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"xp-theme-tools/internal/domain/eventbus"
	"xp-theme-tools/internal/domain/icon"
	"xp-theme-tools/internal/domain/report"
	"xp-theme-tools/internal/platform/errors"
	"xp-theme-tools/internal/platform/logging"
	"xp-theme-tools/internal/platform/observability"
)

// Converter converts one source into one icon file.
type Converter interface {
	Convert(ctx context.Context, src, dst string) icon.Result
}

// Options configures a Driver. InputDir, OutputDir and Converter are
// required.
type Options struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	ReadmeName string
	RunID      string
	Converter  Converter
	Bus        eventbus.Bus
	Logger     *logging.Logger
}

// Driver walks an input directory and converts every matching file.
type Driver struct {
	opts   Options
	logger *logging.Logger
	bus    eventbus.Bus
}

func NewDriver(opts Options) (*Driver, error) {
	if opts.InputDir == "" {
		return nil, errors.New(errors.KindConfig, "batch.new", "input directory is required")
	}
	if opts.OutputDir == "" {
		return nil, errors.New(errors.KindConfig, "batch.new", "output directory is required")
	}
	if opts.Converter == nil {
		return nil, errors.New(errors.KindConfig, "batch.new", "converter is required")
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".png"}
	}
	if opts.ReadmeName == "" {
		opts.ReadmeName = "README.txt"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.New()
	}

	return &Driver{
		opts:   opts,
		logger: opts.Logger,
		bus:    opts.Bus,
	}, nil
}

// Run converts every matching file once, in name order. A missing input
// directory or an empty match set is a KindPrecondition error and nothing
// is written. Per-item failures are counted, not returned; a source whose
// output path is already taken in this run fails without converting. A
// cancelled ctx stops the batch between items and returns ctx.Err() with
// the partial report.
func (d *Driver) Run(ctx context.Context) (*report.Report, error) {
	sources, err := d.discover()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.KindPrecondition, "batch.output", "cannot create output directory "+d.opts.OutputDir, err)
	}

	runID := d.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	rep := report.New(runID, d.opts.OutputDir)
	total := len(sources)

	d.logger.InfoTag("batch", "run %s: %d files from %s", runID, total, d.opts.InputDir)
	d.bus.Publish(eventbus.EventRunStarted, eventbus.RunStartedData{
		RunID:     runID,
		InputDir:  d.opts.InputDir,
		OutputDir: d.opts.OutputDir,
		Label:     d.label(),
		Total:     total,
		StartedAt: time.Now(),
	})

	// Sources differing only in extension case share a stem; the first one
	// in name order owns the output.
	claimed := make(map[string]string, total)
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			rep.Cancelled = true
			d.logger.WarnTag("batch", "run %s cancelled after %d/%d files", runID, rep.Total, total)
			d.publishCompleted(rep, "")
			return rep, err
		}

		name := filepath.Base(src)
		dst := filepath.Join(d.opts.OutputDir, strings.TrimSuffix(name, filepath.Ext(name))+".ico")

		var result icon.Result
		if first, taken := claimed[dst]; taken {
			d.logger.WarnTag("batch", "%s skipped: %s is already written from %s", name, filepath.Base(dst), first)
			result = icon.Failure(src, dst, "output name collides with "+first)
		} else {
			claimed[dst] = name
			endSpan := observability.StartSpan(ctx, "batch", "convert "+name)
			result = d.opts.Converter.Convert(ctx, src, dst)
			endSpan(result.Err())
		}
		rep.Record(name, result)

		d.bus.Publish(eventbus.EventItemConverted, eventbus.ItemEventData{
			RunID:  runID,
			Index:  i + 1,
			Total:  total,
			Name:   name,
			Result: result,
		})
	}

	readme, err := report.WriteReadme(d.opts.OutputDir, d.opts.ReadmeName, rep.Success)
	if err != nil {
		return rep, errors.Wrap(errors.KindUnknown, "batch.readme", "failed to write report", err)
	}

	d.logger.InfoFields(logging.FormatLog("batch", "run finished"), logging.Fields{
		"run_id":  runID,
		"total":   rep.Total,
		"success": rep.Success,
		"failure": rep.Failure,
	})
	labels := map[string]string{"run_id": runID}
	observability.RecordMetric(ctx, "batch.success", float64(rep.Success), labels)
	observability.RecordMetric(ctx, "batch.failure", float64(rep.Failure), labels)
	d.publishCompleted(rep, readme)
	return rep, nil
}

func (d *Driver) publishCompleted(rep *report.Report, readme string) {
	d.bus.Publish(eventbus.EventRunCompleted, eventbus.RunCompletedData{
		RunID:      rep.RunID,
		OutputDir:  rep.OutputDir,
		ReadmePath: readme,
		Total:      rep.Total,
		Success:    rep.Success,
		Failure:    rep.Failure,
		Cancelled:  rep.Cancelled,
		FinishedAt: time.Now(),
	})
}

// discover checks the input directory and lists matching files by name.
func (d *Driver) discover() ([]string, error) {
	info, err := os.Stat(d.opts.InputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.KindPrecondition, "batch.input",
				fmt.Sprintf("input directory not found at: %s", d.opts.InputDir))
		}
		return nil, errors.Wrap(errors.KindPrecondition, "batch.input", "cannot access input directory", err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.KindPrecondition, "batch.input",
			fmt.Sprintf("input path is not a directory: %s", d.opts.InputDir))
	}

	entries, err := os.ReadDir(d.opts.InputDir)
	if err != nil {
		return nil, errors.Wrap(errors.KindPrecondition, "batch.input", "cannot list input directory", err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !d.matches(entry.Name()) {
			continue
		}
		sources = append(sources, filepath.Join(d.opts.InputDir, entry.Name()))
	}

	if len(sources) == 0 {
		return nil, errors.New(errors.KindPrecondition, "batch.input",
			fmt.Sprintf("no %s files found in %s", d.label(), d.opts.InputDir))
	}
	return sources, nil
}

func (d *Driver) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && slices.ContainsFunc(d.opts.Extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// label names the accepted formats for console output, e.g. "PNG".
func (d *Driver) label() string {
	names := make([]string, len(d.opts.Extensions))
	for i, ext := range d.opts.Extensions {
		names[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	return strings.Join(names, "/")
}
