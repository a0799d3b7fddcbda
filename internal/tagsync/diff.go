// Package tagsync reconciles the edit grid's desired tag assignments
// against the persisted link tables: change detection with debouncing,
// label resolution, minimal-diff computation and batched writes.
package tagsync

import (
	"sort"

	"buyers-backend/internal/domain"
)

// Diff computes the minimal link changes for one entity. toAdd holds
// desired tags not yet persisted, toRemove persisted tags no longer
// desired. Both results are sorted so write ordering is deterministic.
func Diff(desired, current []domain.TagID) (toAdd, toRemove []domain.TagID) {
	desiredSet := make(map[domain.TagID]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}
	currentSet := make(map[domain.TagID]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	for id := range desiredSet {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}
