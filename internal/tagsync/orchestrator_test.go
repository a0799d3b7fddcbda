package tagsync

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"buyers-backend/internal/domain"
	appErrors "buyers-backend/pkg/errors"
	"buyers-backend/pkg/observability"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) EnsureLabels(ctx context.Context, kind domain.TagKind, labels []string) (map[string]domain.TagID, error) {
	args := m.Called(ctx, kind, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TagID), args.Error(1)
}

type mockLinkStore struct {
	mock.Mock
}

func (m *mockLinkStore) FetchLinks(ctx context.Context, entityIDs []domain.EntityID) (map[domain.EntityID][]domain.TagID, error) {
	args := m.Called(ctx, entityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.EntityID][]domain.TagID), args.Error(1)
}

func (m *mockLinkStore) InsertLinks(ctx context.Context, links []domain.Link) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *mockLinkStore) DeleteLinks(ctx context.Context, entityID domain.EntityID, tagIDs []domain.TagID) error {
	args := m.Called(ctx, entityID, tagIDs)
	return args.Error(0)
}

func newTestSyncer(catalog Catalog, links LinkStore) *Syncer {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	return NewSyncer(domain.TagKindMicro, catalog, links,
		func() time.Duration { return time.Second }, metrics, zap.NewNop())
}

func TestSyncTick_FirstCycleInsertsAllPairs(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()

	desired := map[domain.EntityID][]string{1: {"Wellness", "Beauty"}}
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Beauty", "Wellness"}).
		Return(map[string]domain.TagID{"Wellness": 1, "Beauty": 2}, nil)
	links.On("FetchLinks", ctx, []domain.EntityID{1}).
		Return(map[domain.EntityID][]domain.TagID{}, nil)
	links.On("InsertLinks", ctx, []domain.Link{
		{EntityID: 1, TagID: 1},
		{EntityID: 1, TagID: 2},
	}).Return(nil)

	// Act
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, SessionState{}, desired, now)

	// Assert
	assert.Equal(t, 1, result.Synced)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[domain.EntityID][]string{1: {"Beauty", "Wellness"}}, next.Snapshot)
	assert.Equal(t, now, next.LastSync)
	catalog.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestSyncTick_RemovedLabelIssuesEntityScopedDelete(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()
	state := SessionState{
		Snapshot: map[domain.EntityID][]string{1: {"Beauty", "Wellness"}},
		LastSync: now.Add(-2 * time.Second),
	}

	desired := map[domain.EntityID][]string{1: {"Wellness"}}
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Wellness"}).
		Return(map[string]domain.TagID{"Wellness": 1}, nil)
	links.On("FetchLinks", ctx, []domain.EntityID{1}).
		Return(map[domain.EntityID][]domain.TagID{1: {1, 2}}, nil)
	links.On("DeleteLinks", ctx, domain.EntityID(1), []domain.TagID{2}).Return(nil)

	// Act
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, state, desired, now)

	// Assert: no insert call, one delete scoped to the entity.
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, map[domain.EntityID][]string{1: {"Wellness"}}, next.Snapshot)
	links.AssertNotCalled(t, "InsertLinks", mock.Anything, mock.Anything)
	catalog.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestSyncTick_DebounceSuppressesSecondTick(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()

	desired := map[domain.EntityID][]string{1: {"Wellness"}}
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Wellness"}).
		Return(map[string]domain.TagID{"Wellness": 1}, nil).Once()
	links.On("FetchLinks", ctx, []domain.EntityID{1}).
		Return(map[domain.EntityID][]domain.TagID{}, nil).Once()
	links.On("InsertLinks", ctx, mock.Anything).Return(nil).Once()
	syncer := newTestSyncer(catalog, links)

	// Act
	first, state := syncer.SyncTick(ctx, SessionState{}, desired, now)
	second, state2 := syncer.SyncTick(ctx, state, desired, now.Add(100*time.Millisecond))

	// Assert: second tick is a no-op with zero network calls.
	assert.Equal(t, 1, first.Synced)
	assert.Equal(t, Result{}, second)
	assert.Equal(t, state, state2)
	catalog.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestSyncTick_UnchangedEntityIsSkipped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()
	state := SessionState{
		Snapshot: map[domain.EntityID][]string{
			1: {"Beauty"},
			2: {"Food"},
		},
		LastSync: now.Add(-time.Minute),
	}

	// Entity 1 is unchanged; only entity 2's set differs.
	desired := map[domain.EntityID][]string{
		1: {"Beauty"},
		2: {"Food", "Education"},
	}
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Education", "Food"}).
		Return(map[string]domain.TagID{"Food": 3, "Education": 4}, nil)
	links.On("FetchLinks", ctx, []domain.EntityID{2}).
		Return(map[domain.EntityID][]domain.TagID{2: {3}}, nil)
	links.On("InsertLinks", ctx, []domain.Link{{EntityID: 2, TagID: 4}}).Return(nil)

	// Act
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, state, desired, now)

	// Assert: snapshot commits the FULL desired state, not just entity 2.
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, map[domain.EntityID][]string{
		1: {"Beauty"},
		2: {"Education", "Food"},
	}, next.Snapshot)
	catalog.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestSyncTick_CatalogFailureLeavesStateUntouched(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()
	state := SessionState{
		Snapshot: map[domain.EntityID][]string{1: {"Beauty"}},
		LastSync: now.Add(-time.Minute),
	}

	desired := map[domain.EntityID][]string{1: {"Wellness"}}
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Wellness"}).
		Return(nil, appErrors.NewUnavailable("upsert_micros failed", assert.AnError))

	// Act
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, state, desired, now)

	// Assert: nothing committed, so the next tick retries the same set.
	assert.Zero(t, result.Synced)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, state, next)
	links.AssertNotCalled(t, "FetchLinks", mock.Anything, mock.Anything)
	catalog.AssertExpectations(t)
}

func TestSyncTick_WriteFailureReportsPartialAndDoesNotCommit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()
	state := SessionState{
		Snapshot: map[domain.EntityID][]string{
			1: {},
			2: {"Beauty"},
		},
		LastSync: now.Add(-time.Minute),
	}

	// Entity 1 gains a tag (insert), entity 2 loses one (delete). The
	// insert fails; the delete succeeds.
	desired := map[domain.EntityID][]string{
		1: {"Wellness"},
		2: nil,
	}
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Wellness"}).
		Return(map[string]domain.TagID{"Wellness": 1}, nil)
	links.On("FetchLinks", ctx, []domain.EntityID{1, 2}).
		Return(map[domain.EntityID][]domain.TagID{2: {2}}, nil)
	links.On("InsertLinks", ctx, []domain.Link{{EntityID: 1, TagID: 1}}).
		Return(appErrors.NewUnavailable("insert failed", assert.AnError))
	links.On("DeleteLinks", ctx, domain.EntityID(2), []domain.TagID{2}).Return(nil)

	// Act
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, state, desired, now)

	// Assert: partial success is reported but the snapshot stays put.
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, state, next)
	catalog.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestSyncTick_UnresolvedLabelIsDroppedNotPersisted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()

	desired := map[domain.EntityID][]string{1: {"Wellness", "Bogus"}}
	// The catalog only resolves one of the two labels.
	catalog.On("EnsureLabels", ctx, domain.TagKindMicro, []string{"Bogus", "Wellness"}).
		Return(map[string]domain.TagID{"Wellness": 1}, nil)
	links.On("FetchLinks", ctx, []domain.EntityID{1}).
		Return(map[domain.EntityID][]domain.TagID{}, nil)
	links.On("InsertLinks", ctx, []domain.Link{{EntityID: 1, TagID: 1}}).Return(nil)

	// Act
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, SessionState{}, desired, now)

	// Assert: the cycle still commits; the unresolved label is simply
	// absent from the writes.
	assert.Equal(t, 1, result.Synced)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"Bogus", "Wellness"}, next.Snapshot[1])
	catalog.AssertExpectations(t)
	links.AssertExpectations(t)
}

func TestSyncTick_FirstRunWithEmptyStateCommitsEmptySnapshot(t *testing.T) {
	// Arrange
	ctx := context.Background()
	catalog := new(mockCatalog)
	links := new(mockLinkStore)
	now := time.Now()

	// Act: nil snapshot forces the cycle, but nothing is changed.
	result, next := newTestSyncer(catalog, links).SyncTick(ctx, SessionState{}, map[domain.EntityID][]string{}, now)

	// Assert
	assert.Equal(t, Result{}, result)
	assert.NotNil(t, next.Snapshot)
	assert.Equal(t, now, next.LastSync)
	catalog.AssertNotCalled(t, "EnsureLabels", mock.Anything, mock.Anything, mock.Anything)
}
