// Package importer loads uploaded buyer spreadsheets into the entities
// table: column validation, row normalization, dedup by mi_key and
// chunked upserts with per-batch failure collection.
package importer

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"buyers-backend/internal/domain"
	appErrors "buyers-backend/pkg/errors"
	"buyers-backend/pkg/observability"
)

// requiredColumns must all be present in the uploaded file; a missing
// one aborts the whole import before any write.
var requiredColumns = []string{"entity", "mi_key", "ticker"}

// File is one parsed upload: normalized column names plus row values
// keyed by column.
type File struct {
	Columns []string
	Rows    []map[string]string
}

// EntityUpserter writes one bounded batch of entity rows.
type EntityUpserter interface {
	UpsertBatch(ctx context.Context, records []domain.EntityRecord) (int, error)
}

// Summary reports one import run. Errors holds one message per failed
// batch; batches after a failed one still run, so Imported can be
// non-zero alongside errors.
type Summary struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Importer runs bulk imports against the entities table.
type Importer struct {
	entities  EntityUpserter
	batchSize func() int
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// New creates an importer. batchSize is read per run so runtime limit
// changes apply without a restart.
func New(entities EntityUpserter, batchSize func() int, metrics *observability.Metrics, logger *zap.Logger) *Importer {
	return &Importer{
		entities:  entities,
		batchSize: batchSize,
		metrics:   metrics,
		logger:    logger,
	}
}

// Import validates, normalizes, deduplicates and writes one parsed file.
// A missing required column aborts with a validation error naming every
// missing column; batch write failures are collected into the summary
// instead, and already-written batches are not rolled back.
func (imp *Importer) Import(ctx context.Context, file *File) (Summary, error) {
	if err := validateColumns(file.Columns); err != nil {
		return Summary{}, err
	}

	records, skipped := normalizeRows(file.Rows)
	records = dedupeByMiKey(records)
	if len(records) == 0 {
		return Summary{Skipped: skipped}, appErrors.NewValidation("no valid rows to import")
	}

	summary := Summary{Skipped: skipped}
	size := imp.batchSize()
	if size < 1 {
		size = 1
	}
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		written, err := imp.entities.UpsertBatch(ctx, records[start:end])
		imp.metrics.RecordImportBatch(err, written)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		summary.Imported += written
	}

	imp.logger.Info("import finished",
		zap.Int("rows", len(file.Rows)),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failedBatches", len(summary.Errors)),
	)
	return summary, nil
}

func validateColumns(columns []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col] = struct{}{}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return appErrors.NewValidation(
			fmt.Sprintf("missing required columns in file: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// normalizeRows trims values, coerces mi_key and drops rows missing any
// required value. Optional empty strings become nulls so re-imports do
// not overwrite existing data with blanks.
func normalizeRows(rows []map[string]string) ([]domain.EntityRecord, int) {
	records := make([]domain.EntityRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		entity := strings.TrimSpace(row["entity"])
		ticker := strings.TrimSpace(row["ticker"])
		miKey, ok := parseMiKey(row["mi_key"])
		if entity == "" || ticker == "" || !ok {
			skipped++
			continue
		}
		records = append(records, domain.EntityRecord{
			Entity:        entity,
			MiKey:         miKey,
			Ticker:        ticker,
			Website:       optional(row["website"]),
			Description:   optional(row["description"]),
			Country:       optional(row["country"]),
			City:          optional(row["city"]),
			Industry:      optional(row["industry"]),
			AllIndustries: optional(row["all_industries"]),
		})
	}
	return records, skipped
}

// parseMiKey accepts integer keys that spreadsheet tools may have
// reformatted as floats ("42.0").
func parseMiKey(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if key, err := strconv.ParseInt(s, 10, 64); err == nil {
		return key, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

func optional(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// dedupeByMiKey keeps, for each mi_key, only the last occurrence in file
// order, at its original position.
func dedupeByMiKey(records []domain.EntityRecord) []domain.EntityRecord {
	lastIndex := make(map[int64]int, len(records))
	for i, record := range records {
		lastIndex[record.MiKey] = i
	}

	keep := make([]int, 0, len(lastIndex))
	for _, i := range lastIndex {
		keep = append(keep, i)
	}
	sort.Ints(keep)

	out := make([]domain.EntityRecord, 0, len(keep))
	for _, i := range keep {
		out = append(out, records[i])
	}
	return out
}
