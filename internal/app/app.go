package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"clocking/internal/adapter/sqlite"
	"clocking/internal/config"
	"clocking/internal/domain"
	"clocking/internal/ports"
	"clocking/internal/views"
)

// App wires the store, the working-window configuration, and the HTTP
// surface. All store access goes through one exclusive lock: the store is
// designed for a single writer, and coarse serialization is enough for the
// expected load.
type App struct {
	log    *slog.Logger
	window views.Window

	mu    sync.Mutex
	store ports.Store
}

func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	window, err := cfg.ParseWindow()
	if err != nil {
		return nil, err
	}
	store, err := sqlite.New(ctx, cfg.File, log)
	if err != nil {
		return nil, err
	}
	return &App{log: log, window: window, store: store}, nil
}

// NewWithStore wires an already-open store; used by tests.
func NewWithStore(log *slog.Logger, store ports.Store, window views.Window) *App {
	return &App{log: log, window: window, store: store}
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Close()
}

// The wrappers below serialize store access for concurrent HTTP handlers.

func (a *App) recentTitles(ctx context.Context, limit int) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.RecentTitles(ctx, limit)
}

func (a *App) latestFinished(ctx context.Context, title string) (*domain.FinishedEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.LatestFinished(ctx, title)
}

func (a *App) unfinished(ctx context.Context, limit int) ([]domain.UnfinishedEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Unfinished(ctx, limit)
}

func (a *App) startTitled(ctx context.Context, title string) (domain.EntryID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.StartTitled(ctx, title)
}

func (a *App) finishLatest(ctx context.Context, title string, notes string) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.FinishLatest(ctx, title, time.Now().UTC(), notes)
}

func (a *App) finishedByOffset(ctx context.Context, daysOffset int, days *int) ([]domain.FinishedEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.FinishedByOffset(ctx, daysOffset, days)
}

func (a *App) finishedByDate(ctx context.Context, dayStart, dayEnd string) ([]domain.FinishedEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.FinishedByDate(ctx, dayStart, dayEnd)
}
