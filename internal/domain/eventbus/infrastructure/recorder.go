package infrastructure

import (
	"context"
	"time"

	"xp-theme-tools/internal/domain/eventbus"
	"xp-theme-tools/internal/domain/eventbus/repository"
	"xp-theme-tools/internal/platform/logging"
)

const recordTimeout = 5 * time.Second

// LedgerRecorder writes batch events into a LedgerRepository. Storage
// errors are logged and never interrupt the batch.
type LedgerRecorder struct {
	repo   repository.LedgerRepository
	logger *logging.Logger
}

func NewLedgerRecorder(repo repository.LedgerRepository, logger *logging.Logger) *LedgerRecorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LedgerRecorder{repo: repo, logger: logger}
}

// Subscribe attaches the recorder to bus.
func (r *LedgerRecorder) Subscribe(bus eventbus.Bus) error {
	return eventbus.SubscribeAll(bus, map[string]interface{}{
		eventbus.EventRunStarted:    r.onRunStarted,
		eventbus.EventItemConverted: r.onItemConverted,
		eventbus.EventRunCompleted:  r.onRunCompleted,
	})
}

func (r *LedgerRecorder) onRunStarted(data eventbus.RunStartedData) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := r.repo.StartRun(ctx, repository.Run{
		ID:        data.RunID,
		InputDir:  data.InputDir,
		OutputDir: data.OutputDir,
		Total:     data.Total,
		StartedAt: data.StartedAt,
	})
	if err != nil {
		r.logger.WarnTag("ledger", "failed to record run %s: %v", data.RunID, err)
	}
}

func (r *LedgerRecorder) onItemConverted(data eventbus.ItemEventData) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := r.repo.RecordItem(ctx, repository.Item{
		RunID:     data.RunID,
		Index:     data.Index,
		Source:    data.Result.Source,
		Output:    data.Result.Output,
		Success:   data.Result.OK(),
		Reason:    data.Result.Reason,
		Sizes:     data.Result.Sizes,
		CreatedAt: time.Now(),
	})
	if err != nil {
		r.logger.WarnTag("ledger", "failed to record item %s: %v", data.Name, err)
	}
}

func (r *LedgerRecorder) onRunCompleted(data eventbus.RunCompletedData) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	finished := data.FinishedAt
	err := r.repo.FinishRun(ctx, repository.Run{
		ID:         data.RunID,
		OutputDir:  data.OutputDir,
		Total:      data.Total,
		Success:    data.Success,
		Failure:    data.Failure,
		Cancelled:  data.Cancelled,
		FinishedAt: &finished,
	})
	if err != nil {
		r.logger.WarnTag("ledger", "failed to finish run %s: %v", data.RunID, err)
		return
	}
	r.logger.DebugTag("ledger", "run %s recorded (%d/%d)", data.RunID, data.Success, data.Total)
}
