package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"xp-theme-tools/internal/domain/eventbus/repository"
	"xp-theme-tools/internal/domain/icon"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// RunSummary is a ledger run together with the items to list under it.
type RunSummary struct {
	Run   repository.Run
	Items []repository.Item
}

// WriteHistory renders ledger runs for the console, newest first as given.
func WriteHistory(w io.Writer, schema string, runs []RunSummary) error {
	rule := strings.Repeat("=", 80)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\nCONVERSION HISTORY\n%s\n\n", rule, rule)
	fmt.Fprintf(&buf, "Ledger schema: %s\n\n", schema)

	if len(runs) == 0 {
		buf.WriteString("No runs recorded yet.\n")
	}
	for _, s := range runs {
		run := s.Run
		fmt.Fprintf(&buf, "%s  %s  %d/%d converted  %s\n",
			run.StartedAt.Local().Format(historyTimeLayout), run.ID, run.Success, run.Total, runState(run))
		fmt.Fprintf(&buf, "    %s -> %s\n", run.InputDir, run.OutputDir)
		for _, item := range s.Items {
			name := filepath.Base(item.Source)
			if item.Success {
				fmt.Fprintf(&buf, "    [%d] OK     %s (%s)\n", item.Index, name, icon.SizeSet(item.Sizes))
			} else {
				fmt.Fprintf(&buf, "    [%d] FAILED %s: %s\n", item.Index, name, item.Reason)
			}
		}
		buf.WriteString("\n")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func runState(run repository.Run) string {
	switch {
	case run.Cancelled:
		return "cancelled"
	case run.FinishedAt == nil:
		return "incomplete"
	case run.Failure == 0:
		return "complete"
	default:
		return fmt.Sprintf("%d failed", run.Failure)
	}
}
