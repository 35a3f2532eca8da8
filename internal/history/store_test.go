package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravel-dev/weft/internal/history"
	"github.com/ravel-dev/weft/internal/logging"
)

func newTestStore(t *testing.T) (context.Context, *history.Store) {
	t.Helper()
	ctx := logging.WithContext(context.Background(), zerolog.Nop())
	dbPath := filepath.Join(t.TempDir(), "weft.db")

	db, err := history.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return ctx, history.NewStore(db)
}

func TestRecordVisitInsertsAndBumps(t *testing.T) {
	ctx, store := newTestStore(t)

	require.NoError(t, store.RecordVisit(ctx, "https://example.com", "Example"))
	require.NoError(t, store.RecordVisit(ctx, "https://example.com", "Example Domain"))

	v, err := store.FindByURL(ctx, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(2), v.VisitCount)
	assert.Equal(t, "Example Domain", v.Title)
}

func TestRecordVisitKeepsTitleWhenNewOneEmpty(t *testing.T) {
	ctx, store := newTestStore(t)

	require.NoError(t, store.RecordVisit(ctx, "https://example.com", "Example"))
	require.NoError(t, store.RecordVisit(ctx, "https://example.com", ""))

	v, err := store.FindByURL(ctx, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Example", v.Title)
}

func TestRecordVisitRejectsEmptyURL(t *testing.T) {
	ctx, store := newTestStore(t)
	assert.Error(t, store.RecordVisit(ctx, "", "no url"))
}

func TestAboutBlankNeverAccumulates(t *testing.T) {
	ctx, store := newTestStore(t)

	require.NoError(t, store.RecordVisit(ctx, "about:blank", ""))
	require.NoError(t, store.RecordVisit(ctx, "about:blank", ""))
	require.NoError(t, store.RecordVisit(ctx, "about:blank", ""))

	v, err := store.FindByURL(ctx, "about:blank")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(1), v.VisitCount)
}

func TestRecentOrdersByLastVisited(t *testing.T) {
	ctx, store := newTestStore(t)

	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	for _, u := range urls {
		require.NoError(t, store.RecordVisit(ctx, u, ""))
	}

	visits, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	// Inserted in order within the same second; verify the limit holds and
	// every returned URL was actually recorded.
	for _, v := range visits {
		assert.Contains(t, urls, v.URL)
	}
}

func TestFindByURLMissingReturnsNil(t *testing.T) {
	ctx, store := newTestStore(t)

	v, err := store.FindByURL(ctx, "https://never.example")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPruneKeepsMostRecent(t *testing.T) {
	ctx, store := newTestStore(t)

	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		require.NoError(t, store.RecordVisit(ctx, u, ""))
	}

	require.NoError(t, store.Prune(ctx, 2))

	visits, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, visits, 2)
}
