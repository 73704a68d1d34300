// Package sqlite implements ports.Store over a SQLite database. It is the
// sole writer of entry state transitions: the check-then-insert sequence in
// Start and the locate-then-update sequences in the finish operations each
// run as one transaction, and the connection pool is capped at a single
// connection so writers never interleave.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"clocking/internal/dbx"
	"clocking/internal/domain"
	"clocking/internal/migrate"
	"clocking/internal/ports"
	"clocking/internal/timeutil"
)

var _ ports.Store = (*Store)(nil)

// InMemory is the special location identifier for an ephemeral store.
const InMemory = ":memory:"

// Timestamps are stored as fixed-width RFC-3339 UTC text so that string
// comparison in SQL matches chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements ports.Store by reading and writing the clocking table.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// New opens the store at the given location, creating the schema if absent.
// Location InMemory opens an ephemeral database.
func New(ctx context.Context, location string, log *slog.Logger) (*Store, error) {
	if location == "" {
		return nil, errors.New("sqlite: store location is required")
	}
	db, err := sql.Open("sqlite", location)
	if err != nil {
		return nil, err
	}
	// A single connection serializes all access and keeps an in-memory
	// database from being dropped between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate.Run(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Start persists a new unfinished entry. The duplicate check, the
// unfinished-existence check, and the insert run in one transaction.
func (s *Store) Start(ctx context.Context, entry domain.UnfinishedEntry) error {
	if entry.ID.Title == "" {
		return domain.InvalidInputError{Reason: "title must not be empty"}
	}
	startString := entry.ID.Start.UTC().Format(timeFormat)

	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.Handle) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM clocking WHERE title = ? AND start = ?",
			entry.ID.Title, startString).Scan(&exists)
		switch {
		case err == nil:
			return domain.ErrDuplicateEntry
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("db error: %w", err)
		}

		var blocking string
		err = tx.QueryRowContext(ctx,
			"SELECT title FROM clocking WHERE end IS NULL LIMIT 1").Scan(&blocking)
		switch {
		case err == nil:
			return domain.UnfinishedExistsError{Title: blocking}
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("db error: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO clocking (title, start, notes) VALUES(?, ?, ?)",
			entry.ID.Title, startString, entry.Notes)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n != 1 {
			return domain.ImpossibleStateError{Detail: fmt.Sprintf("abnormal inserted count: %d", n)}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("entry started", slog.String("title", entry.ID.Title), slog.String("start", startString))
	return nil
}

// StartTitled starts an entry for title at the current time.
func (s *Store) StartTitled(ctx context.Context, title string) (domain.EntryID, error) {
	id := domain.EntryID{Title: title, Start: time.Now().UTC()}
	if err := s.Start(ctx, domain.UnfinishedEntry{ID: id}); err != nil {
		return domain.EntryID{}, err
	}
	return id, nil
}

// FinishLatest finishes the most-recently-started unfinished entry matching
// title, or whichever single unfinished entry exists when title is empty.
// Notes are appended to any existing notes. The title scoping and the
// max(start) pick are defensive: the store invariant allows only one
// unfinished row in the first place.
func (s *Store) FinishLatest(ctx context.Context, title string, end time.Time, notes string) (string, bool, error) {
	endString := end.UTC().Format(timeFormat)

	var (
		finished string
		found    bool
	)
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.Handle) error {
		rows, err := tx.QueryContext(ctx,
			`UPDATE clocking SET end = ?, notes = IFNULL(notes, '')||? WHERE id IN (
				SELECT id FROM clocking
				WHERE end IS NULL AND (? = '' OR title = ?) AND start < ?
				ORDER BY start DESC LIMIT 1
			) RETURNING title`,
			endString, notes, title, title, endString)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			count++
			if err := rows.Scan(&finished); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if count > 1 {
			return domain.ImpossibleStateError{Detail: fmt.Sprintf("abnormal updated count: %d", count)}
		}
		found = count == 1
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return finished, found, nil
}

// FinishExact finishes the specific unfinished entry identified by id, only
// when end > id.Start and the row is still unfinished. Double-finish is a
// reported no-op, not an error.
func (s *Store) FinishExact(ctx context.Context, id domain.EntryID, end time.Time, notes string) (bool, error) {
	startString := id.Start.UTC().Format(timeFormat)
	endString := end.UTC().Format(timeFormat)

	res, err := s.db.ExecContext(ctx,
		`UPDATE clocking SET end = ?, notes = IFNULL(notes, '')||?
		 WHERE title = ? AND start = ? AND end IS NULL AND start < ?`,
		endString, notes, id.Title, startString, endString)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	switch n {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, domain.ImpossibleStateError{Detail: fmt.Sprintf("abnormal updated count: %d", n)}
	}
}

// FinishExactNow is FinishExact with end set to the current time.
func (s *Store) FinishExactNow(ctx context.Context, id domain.EntryID, notes string) (bool, error) {
	return s.FinishExact(ctx, id, time.Now().UTC(), notes)
}

// Finished returns finished entries with start >= queryStart and
// end <= queryEnd, ascending by start. A nil queryEnd means now. Unfinished
// entries are never included.
func (s *Store) Finished(ctx context.Context, queryStart time.Time, queryEnd *time.Time) ([]domain.FinishedEntry, error) {
	startString := queryStart.UTC().Format(timeFormat)
	endString := time.Now().UTC().Format(timeFormat)
	if queryEnd != nil {
		endString = queryEnd.UTC().Format(timeFormat)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, start, end, notes FROM clocking
		 WHERE start >= ? AND end IS NOT NULL AND end <= ?
		 ORDER BY start`,
		startString, endString)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []domain.FinishedEntry
	for rows.Next() {
		entry, err := scanFinished(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// FinishedByOffset queries finished entries for the range resolved from
// (daysOffset, days): start at (today - daysOffset) local midnight, end
// either days later or now.
func (s *Store) FinishedByOffset(ctx context.Context, daysOffset int, days *int) ([]domain.FinishedEntry, error) {
	start, end := timeutil.OffsetRange(daysOffset, days)
	return s.Finished(ctx, start, end)
}

// FinishedByDate queries finished entries between two inclusive local
// yyyy-mm-dd dates.
func (s *Store) FinishedByDate(ctx context.Context, dayStart, dayEnd string) ([]domain.FinishedEntry, error) {
	start, end, err := timeutil.DateRange(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return s.Finished(ctx, start, &end)
}

// LatestFinished returns the most recent finished entry for an exact title,
// or nil when there is none.
func (s *Store) LatestFinished(ctx context.Context, title string) (*domain.FinishedEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT title, start, end, notes FROM clocking
		 WHERE title = ? AND end IS NOT NULL
		 ORDER BY start DESC LIMIT 1`,
		title)

	entry, err := scanFinished(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// RecentTitles returns distinct titles of finished entries only, by most
// recent start. Unfinished titles are deliberately excluded so a
// half-started entry does not pollute title suggestions.
func (s *Store) RecentTitles(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, max(start) FROM clocking WHERE end IS NOT NULL
		 GROUP BY title ORDER BY max(start) DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title, start string
		if err := rows.Scan(&title, &start); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Unfinished returns unfinished entries, start descending.
func (s *Store) Unfinished(ctx context.Context, limit int) ([]domain.UnfinishedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, start, notes FROM clocking
		 WHERE end IS NULL ORDER BY start DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []domain.UnfinishedEntry
	for rows.Next() {
		var (
			title, start string
			notes        sql.NullString
		)
		if err := rows.Scan(&title, &start, &notes); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		startTime, err := parseStored(start)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.UnfinishedEntry{
			ID:    domain.EntryID{Title: title, Start: startTime},
			Notes: notes.String,
		})
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanFinished decodes one clocking row into a FinishedEntry. Timestamp
// parsing is fallible: a row that does not decode surfaces as a storage
// error rather than a panic.
func scanFinished(row rowScanner) (domain.FinishedEntry, error) {
	var (
		title, start, end string
		notes             sql.NullString
	)
	if err := row.Scan(&title, &start, &end, &notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FinishedEntry{}, err
		}
		return domain.FinishedEntry{}, fmt.Errorf("db error: %w", err)
	}

	startTime, err := parseStored(start)
	if err != nil {
		return domain.FinishedEntry{}, err
	}
	endTime, err := parseStored(end)
	if err != nil {
		return domain.FinishedEntry{}, err
	}
	return domain.FinishedEntry{
		ID:    domain.EntryID{Title: title, Start: startTime},
		End:   endTime,
		Notes: notes.String,
	}, nil
}

func parseStored(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("decoding stored timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}
