package store

import (
	"context"

	"buyers-backend/internal/config"
	"buyers-backend/internal/domain"
	appErrors "buyers-backend/pkg/errors"
)

// Catalog resolves human-readable tag labels to their persisted ids,
// creating missing labels on demand. EnsureLabels is idempotent: the
// write is an upsert keyed on label uniqueness, so retrying after a
// failure never duplicates a label.
type Catalog struct {
	client *Client
	tables map[domain.TagKind]string
}

// NewCatalog creates a catalog over the configured taxonomy tables.
func NewCatalog(client *Client, cfg *config.Config) *Catalog {
	return &Catalog{
		client: client,
		tables: map[domain.TagKind]string{
			domain.TagKindMacro: cfg.MacrosTable,
			domain.TagKindMicro: cfg.MicrosTable,
		},
	}
}

// EnsureLabels resolves every label in labels to its id, creating the
// ones that do not exist yet. One upsert round trip plus one read.
func (c *Catalog) EnsureLabels(ctx context.Context, kind domain.TagKind, labels []string) (map[string]domain.TagID, error) {
	if len(labels) == 0 {
		return map[string]domain.TagID{}, nil
	}
	table, ok := c.tables[kind]
	if !ok {
		return nil, appErrors.NewValidation("unknown tag kind: " + string(kind))
	}

	rows := make([]map[string]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, map[string]string{"label": label})
	}

	err := c.client.execute(ctx, "upsert_"+table, func() error {
		_, _, execErr := c.client.From(table).
			Insert(rows, true, "label", "minimal", "").
			Execute()
		return execErr
	})
	if err != nil {
		return nil, err
	}

	var resolved []domain.Label
	err = c.client.execute(ctx, "select_"+table, func() error {
		_, execErr := c.client.From(table).
			Select("id,label", "", false).
			In("label", labels).
			ExecuteTo(&resolved)
		return execErr
	})
	if err != nil {
		return nil, err
	}

	ids := make(map[string]domain.TagID, len(resolved))
	for _, row := range resolved {
		ids[row.Label] = row.ID
	}
	return ids, nil
}
