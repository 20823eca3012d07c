package storage

import (
	"context"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"xp-theme-tools/internal/domain/eventbus/repository"
	"xp-theme-tools/internal/domain/icon"
	"xp-theme-tools/internal/platform/errors"
)

// ledgerRepository stores runs and items with gorm.
type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

func (r *ledgerRepository) StartRun(ctx context.Context, run repository.Run) error {
	model := &ConversionRun{
		RunID:     run.ID,
		InputDir:  run.InputDir,
		OutputDir: run.OutputDir,
		Total:     run.Total,
		StartedAt: run.StartedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "ledger.start_run", "failed to save run", err)
	}
	return nil
}

func (r *ledgerRepository) RecordItem(ctx context.Context, item repository.Item) error {
	sizes, err := sonic.Marshal(item.Sizes)
	if err != nil {
		return errors.Wrap(errors.KindStorage, "ledger.record_item.marshal", "failed to marshal frame sizes", err)
	}

	model := &ConversionItem{
		RunID:     item.RunID,
		Position:  item.Index,
		Source:    item.Source,
		Output:    item.Output,
		Success:   item.Success,
		Reason:    item.Reason,
		Sizes:     datatypes.JSON(sizes),
		CreatedAt: item.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "ledger.record_item", "failed to save item", err)
	}
	return nil
}

func (r *ledgerRepository) FinishRun(ctx context.Context, run repository.Run) error {
	res := r.db.WithContext(ctx).
		Model(&ConversionRun{}).
		Where("run_id = ?", run.ID).
		Updates(map[string]interface{}{
			"total":       run.Total,
			"success":     run.Success,
			"failure":     run.Failure,
			"cancelled":   run.Cancelled,
			"finished_at": run.FinishedAt,
		})
	if res.Error != nil {
		return errors.Wrap(errors.KindStorage, "ledger.finish_run", "failed to update run", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.KindStorage, "ledger.finish_run", "run "+run.ID+" not found")
	}
	return nil
}

func (r *ledgerRepository) FindRun(ctx context.Context, runID string) (*repository.Run, error) {
	var model ConversionRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "ledger.find_run", "failed to find run", err)
	}
	run := r.fromRunModel(&model)
	return &run, nil
}

func (r *ledgerRepository) ListItems(ctx context.Context, runID string) ([]repository.Item, error) {
	var models []ConversionItem
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("position ASC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "ledger.list_items", "failed to list items", err)
	}

	items := make([]repository.Item, len(models))
	for i := range models {
		item, err := r.fromItemModel(&models[i])
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (r *ledgerRepository) RecentRuns(ctx context.Context, limit int) ([]repository.Run, error) {
	var models []ConversionRun
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "ledger.recent_runs", "failed to list runs", err)
	}

	runs := make([]repository.Run, len(models))
	for i := range models {
		runs[i] = r.fromRunModel(&models[i])
	}
	return runs, nil
}

func (r *ledgerRepository) fromRunModel(model *ConversionRun) repository.Run {
	return repository.Run{
		ID:         model.RunID,
		InputDir:   model.InputDir,
		OutputDir:  model.OutputDir,
		Total:      model.Total,
		Success:    model.Success,
		Failure:    model.Failure,
		Cancelled:  model.Cancelled,
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
	}
}

func (r *ledgerRepository) fromItemModel(model *ConversionItem) (repository.Item, error) {
	var sizes []icon.Size
	if len(model.Sizes) > 0 {
		if err := sonic.Unmarshal(model.Sizes, &sizes); err != nil {
			return repository.Item{}, errors.Wrap(errors.KindStorage, "ledger.item.unmarshal", "failed to unmarshal frame sizes", err)
		}
	}

	return repository.Item{
		RunID:     model.RunID,
		Index:     model.Position,
		Source:    model.Source,
		Output:    model.Output,
		Success:   model.Success,
		Reason:    model.Reason,
		Sizes:     sizes,
		CreatedAt: model.CreatedAt,
	}, nil
}
