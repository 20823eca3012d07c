package icon

import "xp-theme-tools/internal/platform/errors"

// Status tags a conversion outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the outcome of converting one source. Reason is set only on
// failure; Sizes lists the frames actually written.
type Result struct {
	Source   string
	Output   string
	Status   Status
	Reason   string
	Format   string
	HasAlpha bool
	Sizes    SizeSet
}

// Success builds a successful Result.
func Success(source, output, format string, hasAlpha bool, sizes SizeSet) Result {
	return Result{
		Source:   source,
		Output:   output,
		Status:   StatusSuccess,
		Format:   format,
		HasAlpha: hasAlpha,
		Sizes:    sizes,
	}
}

// Failure builds a failed Result carrying reason.
func Failure(source, output, reason string) Result {
	return Result{
		Source: source,
		Output: output,
		Status: StatusFailure,
		Reason: reason,
	}
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Err returns nil for a success and a KindConversion error carrying Reason
// otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return errors.New(errors.KindConversion, "icon.result", r.Reason)
}
