package trending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/store"
	"github.com/lootscout/lootscout/pkg/logger"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// fakeStore implements store.Store with canned trending data.
type fakeStore struct {
	store.Store

	manual    []store.ManualTrending
	manualErr error

	favorited    []store.FavoriteCount
	favoritedErr error

	gotWindow    time.Duration
	gotLimit     int
	gotExcluding []string
}

func (f *fakeStore) ListManualTrending(_ context.Context) ([]store.ManualTrending, error) {
	return f.manual, f.manualErr
}

func (f *fakeStore) ListMostFavorited(_ context.Context, window time.Duration, limit int, excluding []string) ([]store.FavoriteCount, error) {
	f.gotWindow = window
	f.gotLimit = limit
	f.gotExcluding = excluding
	return f.favorited, f.favoritedErr
}

func TestRefreshManualFirst(t *testing.T) {
	t.Parallel()

	st := &fakeStore{
		manual: []store.ManualTrending{
			{ProductID: "catalog-1", Listing: domain.Listing{ID: "catalog-1", Title: "Chrono Trigger"}, SortOrder: 0},
			{ProductID: "catalog-2", Listing: domain.Listing{ID: "catalog-2", Title: "EarthBound"}, SortOrder: 1},
		},
		favorited: []store.FavoriteCount{
			{ProductID: "ebay-9", Listing: domain.Listing{ID: "ebay-9", Title: "Pokemon Crystal"}, Count: 5},
		},
	}

	svc := NewService(st, 7*24*time.Hour, 12, logger.New("error", "text"))
	require.NoError(t, svc.Refresh(context.Background()))

	got := svc.Snapshot()
	require.Len(t, got, 3)

	assert.True(t, got[0].Manual)
	assert.Equal(t, "catalog-1", got[0].Listing.ID)
	assert.True(t, got[1].Manual)

	assert.False(t, got[2].Manual)
	assert.Equal(t, "ebay-9", got[2].Listing.ID)
	assert.Equal(t, 5, got[2].FavoriteCount)

	// Manual ids are excluded from the auto ranking at the store level.
	assert.Equal(t, []string{"catalog-1", "catalog-2"}, st.gotExcluding)
	assert.Equal(t, 7*24*time.Hour, st.gotWindow)
	assert.Equal(t, 12, st.gotLimit)
}

func TestRefreshStoreErrors(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeStore{manualErr: errors.New("db down")}, 0, 0, logger.New("error", "text"))
	require.Error(t, svc.Refresh(context.Background()))
	assert.Empty(t, svc.Snapshot())

	svc = NewService(&fakeStore{favoritedErr: errors.New("db down")}, 0, 0, logger.New("error", "text"))
	require.Error(t, svc.Refresh(context.Background()))
	assert.Empty(t, svc.Snapshot())
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	t.Parallel()

	st := &fakeStore{
		favorited: []store.FavoriteCount{
			{ProductID: "ebay-1", Listing: domain.Listing{ID: "ebay-1"}, Count: 2},
		},
	}
	svc := NewService(st, 0, 0, logger.New("error", "text"))
	require.NoError(t, svc.Refresh(context.Background()))
	require.Len(t, svc.Snapshot(), 1)

	st.favorited = nil
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Empty(t, svc.Snapshot())
}

func TestSchedulerRegistersEntry(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeStore{}, 0, 0, logger.New("error", "text"))
	sched, err := NewScheduler(svc, 10*time.Minute, logger.New("error", "text"))
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 1)

	sched.Start(context.Background())
	defer sched.Stop()

	// Start runs an immediate refresh.
	assert.NotNil(t, svc.Snapshot())
}

func TestSchedulerWarmRunsAfterRefresh(t *testing.T) {
	t.Parallel()

	warmed := false
	svc := NewService(&fakeStore{}, 0, 0, logger.New("error", "text"))
	sched, err := NewScheduler(svc, 10*time.Minute, logger.New("error", "text"),
		WithWarm(func(context.Context) { warmed = true }))
	require.NoError(t, err)

	sched.Start(context.Background())
	defer sched.Stop()
	assert.True(t, warmed)
}

func TestSchedulerWarmSkippedOnRefreshError(t *testing.T) {
	t.Parallel()

	warmed := false
	svc := NewService(&fakeStore{manualErr: errors.New("db down")}, 0, 0, logger.New("error", "text"))
	sched, err := NewScheduler(svc, 10*time.Minute, logger.New("error", "text"),
		WithWarm(func(context.Context) { warmed = true }))
	require.NoError(t, err)

	sched.Start(context.Background())
	defer sched.Stop()
	assert.False(t, warmed)
}
