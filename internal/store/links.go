package store

import (
	"context"
	"encoding/json"
	"strconv"

	"buyers-backend/internal/domain"
	appErrors "buyers-backend/pkg/errors"
)

// Links reads and writes one entity↔tag link table. The table and its
// tag column vary per taxonomy kind; the entity column is shared.
type Links struct {
	client    *Client
	table     string
	entityCol string
	tagCol    string
}

// NewLinks creates an accessor for one link table.
func NewLinks(client *Client, table, entityCol, tagCol string) *Links {
	return &Links{
		client:    client,
		table:     table,
		entityCol: entityCol,
		tagCol:    tagCol,
	}
}

// FetchLinks reads the persisted links for exactly the given entities in
// one round trip. Entities with no links are absent from the result.
func (l *Links) FetchLinks(ctx context.Context, entityIDs []domain.EntityID) (map[domain.EntityID][]domain.TagID, error) {
	if len(entityIDs) == 0 {
		return map[domain.EntityID][]domain.TagID{}, nil
	}

	ids := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		ids = append(ids, strconv.FormatInt(int64(id), 10))
	}

	var data []byte
	err := l.client.execute(ctx, "select_"+l.table, func() error {
		raw, _, execErr := l.client.From(l.table).
			Select(l.entityCol+","+l.tagCol, "", false).
			In(l.entityCol, ids).
			Execute()
		data = raw
		return execErr
	})
	if err != nil {
		return nil, err
	}

	var rows []map[string]int64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, appErrors.NewInternal("failed to decode link rows", err)
	}

	links := make(map[domain.EntityID][]domain.TagID, len(entityIDs))
	for _, row := range rows {
		entityID := domain.EntityID(row[l.entityCol])
		links[entityID] = append(links[entityID], domain.TagID(row[l.tagCol]))
	}
	return links, nil
}

// InsertLinks writes all pairs in one bulk insert. Callers only pass
// pairs that do not exist yet; the at-most-one-link-per-pair invariant
// is held by construction, not by conflict handling here.
func (l *Links) InsertLinks(ctx context.Context, links []domain.Link) error {
	if len(links) == 0 {
		return nil
	}

	rows := make([]map[string]int64, 0, len(links))
	for _, link := range links {
		rows = append(rows, map[string]int64{
			l.entityCol: int64(link.EntityID),
			l.tagCol:    int64(link.TagID),
		})
	}

	return l.client.execute(ctx, "insert_"+l.table, func() error {
		_, _, execErr := l.client.From(l.table).
			Insert(rows, false, "", "minimal", "").
			Execute()
		return execErr
	})
}

// DeleteLinks removes the given tags from one entity in one bulk delete.
// The remote filter model allows one entity-id equality plus a tag-id
// set-membership filter per call, so deletes are entity-scoped.
func (l *Links) DeleteLinks(ctx context.Context, entityID domain.EntityID, tagIDs []domain.TagID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		ids = append(ids, strconv.FormatInt(int64(id), 10))
	}

	return l.client.execute(ctx, "delete_"+l.table, func() error {
		_, _, execErr := l.client.From(l.table).
			Delete("", "").
			Eq(l.entityCol, strconv.FormatInt(int64(entityID), 10)).
			In(l.tagCol, ids).
			Execute()
		return execErr
	})
}
