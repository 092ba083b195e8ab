package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// lockSave serializes appends so overlapping save calls cannot
// interleave partial writes into the same row range.
const lockSave = "record:save"

// Repository performs row-level operations against the readings
// spreadsheet.
//
// Listing and deletion are not mutually excluded by a lock; correctness
// relies on delete re-resolving the target row's position from a fresh
// read immediately before the positional mutation, because any prior
// delete or cleanup shifts row positions.
type Repository struct {
	store driven.TabularStore
	locks *KeyedLock
}

// NewRepository creates a record repository.
func NewRepository(store driven.TabularStore, locks *KeyedLock) *Repository {
	if locks == nil {
		locks = NewKeyedLock()
	}
	return &Repository{
		store: store,
		locks: locks,
	}
}

// Append adds the reading as a new row, serialized behind the save lock.
func (r *Repository) Append(ctx context.Context, spreadsheetID string, reading domain.Reading) error {
	if reading.ID == "" {
		return fmt.Errorf("%w: reading has no id", domain.ErrInvalidInput)
	}

	release, acquired := r.locks.Acquire(ctx, lockSave)
	defer release()
	if !acquired {
		logger.Debug("save lock wait expired, proceeding as uncontended")
	}

	if err := r.store.AppendRow(ctx, spreadsheetID, EncodeRow(reading)); err != nil {
		return fmt.Errorf("append reading: %w", err)
	}
	logger.Debug("appended reading %s", reading.ID)
	return nil
}

// ListAll reads the full data range, skips the header, and parses each
// remaining row defensively. A bad row never fails the read; its fields
// degrade to defaults.
func (r *Repository) ListAll(ctx context.Context, spreadsheetID string) ([]domain.Reading, error) {
	rows, err := r.store.ReadRows(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	readings := make([]domain.Reading, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		readings = append(readings, ParseRow(row))
	}
	return readings, nil
}

// Delete removes the row whose id column equals recordID.
//
// Row positions shift whenever any row is removed, so the target's
// current position is always resolved from a fresh read immediately
// before the positional delete. Positions are never cached across
// operations.
func (r *Repository) Delete(ctx context.Context, spreadsheetID, recordID string) error {
	if recordID == "" {
		return fmt.Errorf("%w: empty record id", domain.ErrInvalidInput)
	}

	rows, err := r.store.ReadRows(ctx, spreadsheetID)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}

	rowIndex := int64(-1)
	for i := 1; i < len(rows); i++ {
		if IsMalformedRow(rows[i]) {
			continue
		}
		if cell(rows[i], colID) == recordID {
			rowIndex = int64(i)
			break
		}
	}
	if rowIndex < 0 {
		return domain.ErrRecordNotFound
	}

	structuralID, err := r.store.StructuralSheetID(ctx, spreadsheetID)
	if err != nil {
		return fmt.Errorf("resolve sheet id: %w", err)
	}

	if err := r.store.DeleteRow(ctx, spreadsheetID, structuralID, rowIndex); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	logger.Debug("deleted reading %s at row %d", recordID, rowIndex)
	return nil
}

// CleanupMalformed removes every malformed data row in one pass and
// returns how many were removed. Deletions proceed highest index first
// so earlier deletions never invalidate later indices still queued.
func (r *Repository) CleanupMalformed(ctx context.Context, spreadsheetID string) (int, error) {
	rows, err := r.store.ReadRows(ctx, spreadsheetID)
	if err != nil {
		return 0, fmt.Errorf("read rows: %w", err)
	}

	var malformed []int64
	for i := 1; i < len(rows); i++ {
		if IsMalformedRow(rows[i]) {
			malformed = append(malformed, int64(i))
		}
	}
	if len(malformed) == 0 {
		return 0, nil
	}

	structuralID, err := r.store.StructuralSheetID(ctx, spreadsheetID)
	if err != nil {
		return 0, fmt.Errorf("resolve sheet id: %w", err)
	}

	sort.Slice(malformed, func(i, j int) bool { return malformed[i] > malformed[j] })

	removed := 0
	for _, idx := range malformed {
		if err := r.store.DeleteRow(ctx, spreadsheetID, structuralID, idx); err != nil {
			return removed, fmt.Errorf("delete row %d: %w", idx, err)
		}
		removed++
	}
	logger.Info("cleanup removed %d malformed row(s)", removed)
	return removed, nil
}
