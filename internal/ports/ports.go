package ports

import (
	"context"
	"time"

	"clocking/internal/domain"
)

// Store is the persistent, invariant-enforcing entry store consumed by the
// CLI and the HTTP server. It is the single source of truth: at most one
// unfinished entry exists at any time, and finished entries are immutable.
type Store interface {
	// Start persists a new unfinished entry. It fails with
	// domain.ErrDuplicateEntry when the (title, start) pair already
	// exists, and with domain.UnfinishedExistsError when any unfinished
	// entry is present.
	Start(ctx context.Context, entry domain.UnfinishedEntry) error

	// StartTitled starts an entry for title at the current time and
	// returns its identity.
	StartTitled(ctx context.Context, title string) (domain.EntryID, error)

	// FinishLatest finishes the most-recently-started unfinished entry
	// matching title, or whichever single unfinished entry exists when
	// title is empty. Notes are appended. It returns the finished title
	// and false when no unfinished entry matched.
	FinishLatest(ctx context.Context, title string, end time.Time, notes string) (string, bool, error)

	// FinishExact finishes the specific unfinished entry identified by
	// id, only when end > id.Start and the row is still unfinished. It
	// returns false, not an error, when the row is already finished or
	// absent.
	FinishExact(ctx context.Context, id domain.EntryID, end time.Time, notes string) (bool, error)

	// FinishExactNow is FinishExact with end set to the current time.
	FinishExactNow(ctx context.Context, id domain.EntryID, notes string) (bool, error)

	// Finished returns finished entries with start >= queryStart and
	// end <= queryEnd (nil means now), ascending by start.
	Finished(ctx context.Context, queryStart time.Time, queryEnd *time.Time) ([]domain.FinishedEntry, error)

	// FinishedByOffset queries finished entries for the range resolved
	// from (daysOffset, days); see timeutil.OffsetRange.
	FinishedByOffset(ctx context.Context, daysOffset int, days *int) ([]domain.FinishedEntry, error)

	// FinishedByDate queries finished entries between two inclusive
	// local yyyy-mm-dd dates; see timeutil.DateRange.
	FinishedByDate(ctx context.Context, dayStart, dayEnd string) ([]domain.FinishedEntry, error)

	// LatestFinished returns the most recent finished entry for an exact
	// title, or nil when there is none.
	LatestFinished(ctx context.Context, title string) (*domain.FinishedEntry, error)

	// RecentTitles returns distinct titles of finished entries only,
	// most recent start first.
	RecentTitles(ctx context.Context, limit int) ([]string, error)

	// Unfinished returns unfinished entries, start descending.
	Unfinished(ctx context.Context, limit int) ([]domain.UnfinishedEntry, error)

	// Close releases the underlying database handle.
	Close() error
}
