package report

import (
	"fmt"

	"xp-theme-tools/internal/domain/icon"
)

// FailedItem keeps the reason a single source could not be converted.
type FailedItem struct {
	Name   string
	Reason string
}

// Report aggregates the outcome of one batch run. Total always equals
// Success + Failure.
type Report struct {
	RunID     string
	OutputDir string
	Total     int
	Success   int
	Failure   int
	Failures  []FailedItem
	Cancelled bool
}

func New(runID, outputDir string) *Report {
	return &Report{RunID: runID, OutputDir: outputDir}
}

// Record folds one conversion result into the counts.
func (r *Report) Record(name string, result icon.Result) {
	r.Total++
	if result.OK() {
		r.Success++
		return
	}
	r.Failure++
	r.Failures = append(r.Failures, FailedItem{Name: name, Reason: result.Reason})
}

// Consistent reports whether the counters satisfy their invariants.
func (r *Report) Consistent() bool {
	return r.Total == r.Success+r.Failure && r.Success <= r.Total && r.Failure == len(r.Failures)
}

// Verdict is the closing console line for a finished run.
func Verdict(total, success int) string {
	switch {
	case total > 0 && success == total:
		return "SUCCESS! All icons converted successfully!"
	case success > 0:
		return fmt.Sprintf("PARTIAL SUCCESS! %d/%d icons converted.", success, total)
	default:
		return "FAILED! No icons were converted successfully."
	}
}
