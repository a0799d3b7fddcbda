package tagsync

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"buyers-backend/internal/domain"
	"buyers-backend/pkg/observability"
)

// Catalog resolves tag labels to persisted ids, creating missing labels.
type Catalog interface {
	EnsureLabels(ctx context.Context, kind domain.TagKind, labels []string) (map[string]domain.TagID, error)
}

// LinkStore reads and writes the entity↔tag link table for one kind.
type LinkStore interface {
	FetchLinks(ctx context.Context, entityIDs []domain.EntityID) (map[domain.EntityID][]domain.TagID, error)
	InsertLinks(ctx context.Context, links []domain.Link) error
	DeleteLinks(ctx context.Context, entityID domain.EntityID, tagIDs []domain.TagID) error
}

// Result reports one sync tick. A non-empty Errors list together with
// Synced > 0 means partial success; the presentation layer must render
// the two cases differently.
type Result struct {
	Synced int
	Errors []string
}

// Syncer coordinates one bounded sequence of store round trips per tick
// and commits the session snapshot only on full success. It never
// retries: failures leave the snapshot and timestamp untouched, so the
// next natural tick re-attempts the same changed set.
type Syncer struct {
	kind        domain.TagKind
	catalog     Catalog
	links       LinkStore
	minInterval func() time.Duration
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewSyncer creates a syncer for one taxonomy kind. minInterval is read
// on every tick so runtime limit changes take effect immediately.
func NewSyncer(kind domain.TagKind, catalog Catalog, links LinkStore, minInterval func() time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Syncer {
	return &Syncer{
		kind:        kind,
		catalog:     catalog,
		links:       links,
		minInterval: minInterval,
		metrics:     metrics,
		logger:      logger,
	}
}

// SyncTick runs one sync cycle against the full desired state: every
// visible entity's tag list. It returns the result and the state the
// caller must carry into the next tick, which is the input state
// unchanged unless the whole cycle succeeded.
func (s *Syncer) SyncTick(ctx context.Context, state SessionState, desired map[domain.EntityID][]string, now time.Time) (Result, SessionState) {
	if !ShouldSync(desired, state, now, s.minInterval()) {
		s.metrics.RecordSyncCycle("skipped", 0)
		return Result{}, state
	}

	changed := changedIDs(desired, state.Snapshot)
	if len(changed) == 0 {
		// Only reachable on a first run with empty desired state: commit
		// the empty snapshot so the session stops forcing cycles.
		s.metrics.RecordSyncCycle("committed", 0)
		return Result{}, commit(desired, now)
	}

	labelIDs, err := s.catalog.EnsureLabels(ctx, s.kind, neededLabels(desired, changed))
	if err != nil {
		s.metrics.RecordSyncCycle("failed", 0)
		return Result{Errors: []string{err.Error()}}, state
	}

	current, err := s.links.FetchLinks(ctx, changed)
	if err != nil {
		s.metrics.RecordSyncCycle("failed", 0)
		return Result{Errors: []string{err.Error()}}, state
	}

	var inserts []domain.Link
	removals := make(map[domain.EntityID][]domain.TagID)
	hasAdds := make(map[domain.EntityID]bool)
	for _, id := range changed {
		toAdd, toRemove := Diff(s.resolve(id, desired[id], labelIDs), current[id])
		for _, tagID := range toAdd {
			inserts = append(inserts, domain.Link{EntityID: id, TagID: tagID})
			hasAdds[id] = true
		}
		if len(toRemove) > 0 {
			removals[id] = toRemove
		}
	}

	var errs []string
	failed := make(map[domain.EntityID]bool)

	// One bulk insert for all entities, then one delete per entity. The
	// ordering is deterministic so a partially applied cycle is always a
	// prefix of the same write sequence; re-applying it on the next tick
	// is safe because links are identity-keyed rows.
	if len(inserts) > 0 {
		if err := s.links.InsertLinks(ctx, inserts); err != nil {
			errs = append(errs, err.Error())
			for id := range hasAdds {
				failed[id] = true
			}
		}
	}
	for _, id := range changed {
		tagIDs, ok := removals[id]
		if !ok {
			continue
		}
		if err := s.links.DeleteLinks(ctx, id, tagIDs); err != nil {
			errs = append(errs, err.Error())
			failed[id] = true
		}
	}

	if len(errs) > 0 {
		synced := 0
		for _, id := range changed {
			if !failed[id] {
				synced++
			}
		}
		s.logger.Warn("sync cycle failed, snapshot not committed",
			zap.String("kind", string(s.kind)),
			zap.Int("changed", len(changed)),
			zap.Int("synced", synced),
			zap.Strings("errors", errs),
		)
		s.metrics.RecordSyncCycle("partial", synced)
		return Result{Synced: synced, Errors: errs}, state
	}

	s.logger.Info("sync cycle committed",
		zap.String("kind", string(s.kind)),
		zap.Int("synced", len(changed)),
		zap.Int("inserted", len(inserts)),
		zap.Int("removedFrom", len(removals)),
	)
	s.metrics.RecordSyncCycle("committed", len(changed))
	return Result{Synced: len(changed)}, commit(desired, now)
}

// resolve maps one entity's labels through the catalog result. Labels
// the catalog did not return cannot be persisted yet and are dropped
// from the desired set for this cycle.
func (s *Syncer) resolve(id domain.EntityID, labels []string, labelIDs map[string]domain.TagID) []domain.TagID {
	tagIDs := make([]domain.TagID, 0, len(labels))
	for _, label := range labels {
		tagID, ok := labelIDs[label]
		if !ok {
			s.logger.Warn("desired label did not resolve, dropping from cycle",
				zap.String("kind", string(s.kind)),
				zap.Int64("entityID", int64(id)),
				zap.String("label", label),
			)
			continue
		}
		tagIDs = append(tagIDs, tagID)
	}
	return tagIDs
}

// changedIDs returns, in ascending order, the entities whose sorted
// desired labels differ from the snapshot.
func changedIDs(desired map[domain.EntityID][]string, snapshot map[domain.EntityID][]string) []domain.EntityID {
	var changed []domain.EntityID
	for id, labels := range desired {
		if !equalSorted(domain.SortedLabels(labels), snapshot[id]) {
			changed = append(changed, id)
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })
	return changed
}

// neededLabels collects the distinct non-empty labels across the changed
// entities, sorted for stable request ordering.
func neededLabels(desired map[domain.EntityID][]string, changed []domain.EntityID) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, id := range changed {
		for _, label := range desired[id] {
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// commit builds the replacement session state: the FULL desired state,
// not just the changed subset, so unchanged rows are not re-diffed on
// the next tick.
func commit(desired map[domain.EntityID][]string, now time.Time) SessionState {
	snapshot := make(map[domain.EntityID][]string, len(desired))
	for id, labels := range desired {
		snapshot[id] = domain.SortedLabels(labels)
	}
	return SessionState{Snapshot: snapshot, LastSync: now}
}
