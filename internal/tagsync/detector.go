package tagsync

import (
	"time"

	"buyers-backend/internal/domain"
)

// SessionState is one session's memory of what was last successfully
// persisted: entity id → sorted label list, plus the time of the last
// committed cycle. It exists purely to avoid redundant writes; the
// persisted store stays the source of truth. The caller owns the state
// and passes it into every tick; a cycle either commits a replacement
// wholesale or leaves it untouched.
type SessionState struct {
	Snapshot map[domain.EntityID][]string
	LastSync time.Time
}

// ShouldSync decides whether a sync cycle should run at all. It returns
// false while the minimum interval since the last committed cycle has
// not elapsed, regardless of content, which bounds write frequency under
// rapid grid edits. Past the interval it returns true only when some
// entity's desired tag set differs from the snapshot; a session that has
// never committed a snapshot always syncs.
func ShouldSync(desired map[domain.EntityID][]string, state SessionState, now time.Time, minInterval time.Duration) bool {
	if now.Sub(state.LastSync) < minInterval {
		return false
	}
	if state.Snapshot == nil {
		return true
	}
	for id, labels := range desired {
		if !equalSorted(domain.SortedLabels(labels), state.Snapshot[id]) {
			return true
		}
	}
	return false
}

func equalSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
