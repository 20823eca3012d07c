package eventbus

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"xp-theme-tools/internal/domain/report"
)

const separatorWidth = 80

// Separator is the rule printed around console section headers.
var Separator = strings.Repeat("=", separatorWidth)

// ProgressPrinter renders batch events as the live console status stream.
type ProgressPrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out}
}

// Handle dispatches an event to its renderer. Unknown events are ignored.
func (p *ProgressPrinter) Handle(eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch eventType {
	case EventRunStarted:
		if d, ok := data.(RunStartedData); ok {
			p.runStarted(d)
		}
	case EventItemConverted:
		if d, ok := data.(ItemEventData); ok {
			p.itemConverted(d)
		}
	case EventRunCompleted:
		if d, ok := data.(RunCompletedData); ok {
			p.runCompleted(d)
		}
	}
}

func (p *ProgressPrinter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *ProgressPrinter) runStarted(d RunStartedData) {
	p.printf("[+] Output directory: %s\n\n", d.OutputDir)
	p.printf("[+] Found %d %s files to convert\n\n", d.Total, d.Label)
	p.printf("%s\nCONVERTING ICONS WITH HIGH QUALITY...\n%s\n\n", Separator, Separator)
}

func (p *ProgressPrinter) itemConverted(d ItemEventData) {
	outcome := "✓ OK"
	if !d.Result.OK() {
		outcome = "✗ FAILED"
	}
	p.printf("[%d/%d] (%d%%) %s... %s\n", d.Index, d.Total, d.Percent(), d.Name, outcome)
}

func (p *ProgressPrinter) runCompleted(d RunCompletedData) {
	if d.Cancelled {
		return
	}

	p.printf("\n%s\nCONVERSION COMPLETE!\n%s\n\n", Separator, Separator)
	p.printf("Total files:    %d\n", d.Total)
	p.printf("Successful:     %d\n", d.Success)
	p.printf("Failed:         %d\n\n", d.Failure)
	p.printf("Output location: %s\n\n", d.OutputDir)
	if d.ReadmePath != "" {
		p.printf("[+] README created: %s\n\n", d.ReadmePath)
	}
	p.printf("%s\n", report.Verdict(d.Total, d.Success))
}

// SetupProgressPrinter subscribes a ProgressPrinter writing to out.
func SetupProgressPrinter(bus Bus, out io.Writer) (*ProgressPrinter, error) {
	printer := NewProgressPrinter(out)

	err := SubscribeAll(bus, map[string]interface{}{
		EventRunStarted: func(data RunStartedData) {
			printer.Handle(EventRunStarted, data)
		},
		EventItemConverted: func(data ItemEventData) {
			printer.Handle(EventItemConverted, data)
		},
		EventRunCompleted: func(data RunCompletedData) {
			printer.Handle(EventRunCompleted, data)
		},
	})
	if err != nil {
		return nil, err
	}
	return printer, nil
}
