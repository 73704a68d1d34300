package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clocking/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := New(context.Background(), InMemory, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entryAt(title string, start time.Time) domain.UnfinishedEntry {
	return domain.UnfinishedEntry{ID: domain.EntryID{Title: title, Start: start}}
}

func TestBasicWorkflow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	entry := entryAt("The Program", start)
	require.NoError(t, store.Start(ctx, entry))

	err := store.Start(ctx, entry)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry, "adding the same entry twice should fail")

	finished, err := store.Finished(ctx, start, nil)
	require.NoError(t, err)
	assert.Empty(t, finished, "unfinished entries should not be included in query")

	end := start.Add(30 * time.Minute)
	ok, err := store.FinishExact(ctx, entry.ID, end, "A note")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.FinishExact(ctx, entry.ID, end, "A note")
	require.NoError(t, err)
	assert.False(t, ok, "finishing a finished entry should be a no-op")

	finished, err = store.Finished(ctx, start, nil)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, domain.FinishedEntry{ID: entry.ID, End: end, Notes: "A note"}, finished[0])
}

func TestStartEmptyTitle(t *testing.T) {
	store := newTestStore(t)

	err := store.Start(context.Background(), entryAt("", time.Now().UTC()))
	assert.True(t, domain.IsInvalidInput(err))
}

func TestStartWhileUnfinishedExists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(ctx, entryAt("First", start)))

	err := store.Start(ctx, entryAt("Second", start.Add(time.Minute)))
	var unfinished domain.UnfinishedExistsError
	require.ErrorAs(t, err, &unfinished)
	assert.Equal(t, "First", unfinished.Title)

	// Same title is blocked too: the invariant is global.
	err = store.Start(ctx, entryAt("First", start.Add(time.Minute)))
	assert.ErrorAs(t, err, &unfinished)

	ok, err := store.FinishExact(ctx, domain.EntryID{Title: "First", Start: start}, start.Add(time.Hour), "")
	require.NoError(t, err)
	require.True(t, ok)

	assert.NoError(t, store.Start(ctx, entryAt("Second", start.Add(2*time.Hour))),
		"start should succeed again once the blocking entry is finished")
}

func TestFinishExactRejectsEndBeforeStart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(ctx, entryAt("Writing", start)))

	ok, err := store.FinishExact(ctx, domain.EntryID{Title: "Writing", Start: start}, start.Add(-time.Minute), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFinishLatestByTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(ctx, entryAt("Writing", start)))

	finished, found, err := store.FinishLatest(ctx, "Writing", start.Add(time.Hour), "done")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Writing", finished)

	_, found, err = store.FinishLatest(ctx, "Writing", start.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.False(t, found, "no unfinished entry left to finish")
}

func TestFinishLatestWrongTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(ctx, entryAt("Writing", start)))

	_, found, err := store.FinishLatest(ctx, "Reading", start.Add(time.Hour), "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFinishLatestAny(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(ctx, entryAt("Writing", start)))

	finished, found, err := store.FinishLatest(ctx, "", start.Add(time.Hour), "")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Writing", finished)
}

func TestFinishAppendsNotes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	entry := domain.UnfinishedEntry{
		ID:    domain.EntryID{Title: "Writing", Start: start},
		Notes: "draft\n",
	}
	require.NoError(t, store.Start(ctx, entry))

	_, found, err := store.FinishLatest(ctx, "Writing", start.Add(time.Hour), "review")
	require.NoError(t, err)
	require.True(t, found)

	latest, err := store.LatestFinished(ctx, "Writing")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "draft\nreview", latest.Notes)
}

func TestFinishedRangeAndRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	entry := domain.UnfinishedEntry{
		ID:    domain.EntryID{Title: "Writing", Start: start},
		Notes: "draft",
	}
	require.NoError(t, store.Start(ctx, entry))
	ok, err := store.FinishExact(ctx, entry.ID, end, "")
	require.NoError(t, err)
	require.True(t, ok)

	rangeEnd := start.Add(time.Hour)
	finished, err := store.Finished(ctx, start, &rangeEnd)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, domain.FinishedEntry{ID: entry.ID, End: end, Notes: "draft"}, finished[0])

	titles, err := store.RecentTitles(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Writing"}, titles)
}

func TestFinishedOrderedByStart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"C", "A", "B"} {
		start := base.Add(time.Duration(2-i) * time.Hour)
		require.NoError(t, store.Start(ctx, entryAt(title, start)))
		ok, err := store.FinishExact(ctx, domain.EntryID{Title: title, Start: start}, start.Add(30*time.Minute), "")
		require.NoError(t, err)
		require.True(t, ok)
	}

	finished, err := store.Finished(ctx, base, nil)
	require.NoError(t, err)
	require.Len(t, finished, 3)
	assert.Equal(t, "B", finished[0].ID.Title)
	assert.Equal(t, "A", finished[1].ID.Title)
	assert.Equal(t, "C", finished[2].ID.Title)
}

func TestRecentTitlesExcludesUnfinished(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(ctx, entryAt("Done", start)))
	ok, err := store.FinishExact(ctx, domain.EntryID{Title: "Done", Start: start}, start.Add(time.Hour), "")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Start(ctx, entryAt("InProgress", start.Add(2*time.Hour))))

	titles, err := store.RecentTitles(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Done"}, titles)
}

func TestUnfinishedListing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries, err := store.Unfinished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	started := domain.UnfinishedEntry{
		ID:    domain.EntryID{Title: "Writing", Start: start},
		Notes: "wip",
	}
	require.NoError(t, store.Start(ctx, started))

	entries, err = store.Unfinished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, started, entries[0])
}

func TestLatestFinished(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	latest, err := store.LatestFinished(ctx, "Writing")
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		start := base.Add(time.Duration(i) * 2 * time.Hour)
		require.NoError(t, store.Start(ctx, entryAt("Writing", start)))
		ok, err := store.FinishExact(ctx, domain.EntryID{Title: "Writing", Start: start}, start.Add(time.Hour), "")
		require.NoError(t, err)
		require.True(t, ok)
	}

	latest, err = store.LatestFinished(ctx, "Writing")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, base.Add(2*time.Hour), latest.ID.Start)
}

func TestStartTitled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.StartTitled(ctx, "Writing")
	require.NoError(t, err)
	assert.Equal(t, "Writing", id.Title)
	assert.WithinDuration(t, time.Now().UTC(), id.Start, 5*time.Second)

	ok, err := store.FinishExactNow(ctx, id, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSchemaInitIsIdempotent(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbFile := t.TempDir() + "/clocking.db"

	store, err := New(context.Background(), dbFile, log)
	require.NoError(t, err)

	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Start(context.Background(), entryAt("Persisted", start)))
	require.NoError(t, store.Close())

	// Reopening must keep existing rows.
	store, err = New(context.Background(), dbFile, log)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Unfinished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Persisted", entries[0].ID.Title)
}
