package store

import (
	"context"
	"encoding/json"
	"strconv"

	"buyers-backend/internal/config"
	"buyers-backend/internal/domain"
	appErrors "buyers-backend/pkg/errors"
)

// Entities reads and writes the entity master data table, and reads the
// aggregated entities view the browse grid displays.
type Entities struct {
	client *Client
	table  string
	view   string
}

// NewEntities creates an accessor for the entities table and view.
func NewEntities(client *Client, cfg *config.Config) *Entities {
	return &Entities{
		client: client,
		table:  cfg.EntitiesTable,
		view:   cfg.EntitiesView,
	}
}

// List reads every row of the entities view with its aggregated tag lists.
func (e *Entities) List(ctx context.Context) ([]domain.EntityView, error) {
	var views []domain.EntityView
	err := e.client.execute(ctx, "select_"+e.view, func() error {
		_, execErr := e.client.From(e.view).
			Select("*", "", false).
			ExecuteTo(&views)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Insert adds one entity row from the manual add form.
func (e *Entities) Insert(ctx context.Context, record domain.EntityRecord) error {
	return e.client.execute(ctx, "insert_"+e.table, func() error {
		_, _, execErr := e.client.From(e.table).
			Insert(record, false, "", "minimal", "").
			Execute()
		return execErr
	})
}

// UpsertBatch writes one bounded batch of import rows, conflicting on
// mi_key so re-imports update in place. Returns the number of rows the
// store reports as written.
func (e *Entities) UpsertBatch(ctx context.Context, records []domain.EntityRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var data []byte
	err := e.client.execute(ctx, "upsert_"+e.table, func() error {
		raw, _, execErr := e.client.From(e.table).
			Insert(records, true, "mi_key", "representation", "").
			Execute()
		data = raw
		return execErr
	})
	if err != nil {
		return 0, err
	}

	var written []json.RawMessage
	if err := json.Unmarshal(data, &written); err != nil {
		return 0, appErrors.NewInternal("failed to decode upsert response", err)
	}
	return len(written), nil
}

// UpdateIntel records a dated free-text note on one entity.
func (e *Entities) UpdateIntel(ctx context.Context, entityID domain.EntityID, intel, date string) error {
	patch := map[string]string{
		"intel":      intel,
		"intel_date": date,
	}
	return e.client.execute(ctx, "update_"+e.table, func() error {
		_, _, execErr := e.client.From(e.table).
			Update(patch, "minimal", "").
			Eq("id", strconv.FormatInt(int64(entityID), 10)).
			Execute()
		return execErr
	})
}
