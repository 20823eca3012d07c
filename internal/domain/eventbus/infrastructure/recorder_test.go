package infrastructure

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xp-theme-tools/internal/domain/eventbus"
	"xp-theme-tools/internal/domain/icon"
	"xp-theme-tools/internal/platform/storage"
	testhelpers "xp-theme-tools/internal/platform/testing"
)

func TestLedgerRecorder_RecordsRun(t *testing.T) {
	db, err := storage.OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer storage.CloseLedger(db)

	repo := storage.NewLedgerRepository(db)
	bus := eventbus.New()
	require.NoError(t, NewLedgerRecorder(repo, testhelpers.SetupTestLogger(t)).Subscribe(bus))

	now := time.Now()
	sizes := icon.SizeSet{{Width: 16, Height: 16}}
	bus.Publish(eventbus.EventRunStarted, eventbus.RunStartedData{
		RunID: "run-42", InputDir: "/in", OutputDir: "/out", Label: "PNG", Total: 2, StartedAt: now,
	})
	bus.Publish(eventbus.EventItemConverted, eventbus.ItemEventData{
		RunID: "run-42", Index: 1, Total: 2, Name: "a.png",
		Result: icon.Success("/in/a.png", "/out/a.ico", "png", false, sizes),
	})
	bus.Publish(eventbus.EventItemConverted, eventbus.ItemEventData{
		RunID: "run-42", Index: 2, Total: 2, Name: "b.png",
		Result: icon.Failure("/in/b.png", "/out/b.ico", "bad header"),
	})
	bus.Publish(eventbus.EventRunCompleted, eventbus.RunCompletedData{
		RunID: "run-42", OutputDir: "/out", Total: 2, Success: 1, Failure: 1, FinishedAt: now,
	})

	ctx := context.Background()
	run, err := repo.FindRun(ctx, "run-42")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Success)
	assert.Equal(t, 1, run.Failure)
	assert.NotNil(t, run.FinishedAt)

	items, err := repo.ListItems(ctx, "run-42")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/in/a.png", items[0].Source)
	assert.Equal(t, []icon.Size(sizes), items[0].Sizes)
	assert.False(t, items[1].Success)
	assert.Equal(t, "bad header", items[1].Reason)
}

func TestLedgerRecorder_StorageErrorsDoNotPanic(t *testing.T) {
	db, err := storage.OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	repo := storage.NewLedgerRepository(db)
	require.NoError(t, storage.CloseLedger(db))

	bus := eventbus.New()
	require.NoError(t, NewLedgerRecorder(repo, nil).Subscribe(bus))

	assert.NotPanics(t, func() {
		bus.Publish(eventbus.EventRunStarted, eventbus.RunStartedData{RunID: "x"})
		bus.Publish(eventbus.EventRunCompleted, eventbus.RunCompletedData{RunID: "x"})
	})
}
