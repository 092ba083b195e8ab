package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

// Local spreadsheets have a single sheet, so the structural id is fixed.
const localStructuralSheetID int64 = 0

// Ensure tabularStore implements the port.
var _ driven.TabularStore = (*tabularStore)(nil)

// tabularStore implements driven.TabularStore on the SQLite database.
type tabularStore struct {
	store *Store
}

func (t *tabularStore) FindFolder(ctx context.Context, name string) ([]driven.RemoteObject, error) {
	return t.findObjects(ctx, "SELECT id, name FROM folders WHERE name = ? ORDER BY created_at", name)
}

func (t *tabularStore) FindSpreadsheet(ctx context.Context, name string) ([]driven.RemoteObject, error) {
	return t.findObjects(ctx, "SELECT id, name FROM spreadsheets WHERE name = ? ORDER BY created_at", name)
}

func (t *tabularStore) CreateFolder(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	_, err := t.store.db.ExecContext(ctx,
		"INSERT INTO folders (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		return "", fmt.Errorf("inserting folder: %w", err)
	}
	return id, nil
}

func (t *tabularStore) CreateSpreadsheet(ctx context.Context, name string, header []string) (string, error) {
	id := uuid.NewString()

	cells, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("encoding header row: %w", err)
	}

	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO spreadsheets (id, name, structural_sheet_id) VALUES (?, ?, ?)",
		id, name, localStructuralSheetID)
	if err != nil {
		return "", fmt.Errorf("inserting spreadsheet: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sheet_rows (spreadsheet_id, cells) VALUES (?, ?)", id, string(cells))
	if err != nil {
		return "", fmt.Errorf("inserting header row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing spreadsheet: %w", err)
	}
	return id, nil
}

func (t *tabularStore) MoveIntoFolder(ctx context.Context, spreadsheetID, folderID string) error {
	res, err := t.store.db.ExecContext(ctx,
		"UPDATE spreadsheets SET folder_id = ? WHERE id = ?", folderID, spreadsheetID)
	if err != nil {
		return fmt.Errorf("moving spreadsheet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking move result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: spreadsheet %s", domain.ErrResourceNotFound, spreadsheetID)
	}
	return nil
}

func (t *tabularStore) AppendRow(ctx context.Context, spreadsheetID string, row []string) error {
	if err := t.requireSpreadsheet(ctx, spreadsheetID); err != nil {
		return err
	}

	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encoding row: %w", err)
	}

	_, err = t.store.db.ExecContext(ctx,
		"INSERT INTO sheet_rows (spreadsheet_id, cells) VALUES (?, ?)",
		spreadsheetID, string(cells))
	if err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

func (t *tabularStore) ReadRows(ctx context.Context, spreadsheetID string) ([][]string, error) {
	if err := t.requireSpreadsheet(ctx, spreadsheetID); err != nil {
		return nil, err
	}

	rows, err := t.store.db.QueryContext(ctx,
		"SELECT cells FROM sheet_rows WHERE spreadsheet_id = ? ORDER BY seq", spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decoding row: %w", err)
		}
		result = append(result, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

func (t *tabularStore) StructuralSheetID(ctx context.Context, spreadsheetID string) (int64, error) {
	var sheetID int64
	err := t.store.db.QueryRowContext(ctx,
		"SELECT structural_sheet_id FROM spreadsheets WHERE id = ?", spreadsheetID).Scan(&sheetID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: spreadsheet %s", domain.ErrResourceNotFound, spreadsheetID)
	}
	if err != nil {
		return 0, fmt.Errorf("querying sheet id: %w", err)
	}
	return sheetID, nil
}

func (t *tabularStore) DeleteRow(ctx context.Context, spreadsheetID string, structuralSheetID, rowIndex int64) error {
	if err := t.requireSpreadsheet(ctx, spreadsheetID); err != nil {
		return err
	}
	if structuralSheetID != localStructuralSheetID {
		return fmt.Errorf("unknown sheet id %d for spreadsheet %s", structuralSheetID, spreadsheetID)
	}

	// Resolve the rowIndex-th row by ordering. Positions shift on every
	// delete, exactly like the remote store.
	var seq int64
	err := t.store.db.QueryRowContext(ctx,
		"SELECT seq FROM sheet_rows WHERE spreadsheet_id = ? ORDER BY seq LIMIT 1 OFFSET ?",
		spreadsheetID, rowIndex).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("row index %d out of range for spreadsheet %s", rowIndex, spreadsheetID)
	}
	if err != nil {
		return fmt.Errorf("resolving row: %w", err)
	}

	if _, err := t.store.db.ExecContext(ctx,
		"DELETE FROM sheet_rows WHERE seq = ?", seq); err != nil {
		return fmt.Errorf("deleting row: %w", err)
	}
	return nil
}

func (t *tabularStore) Exists(ctx context.Context, spreadsheetID string) (bool, error) {
	var one int
	err := t.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM spreadsheets WHERE id = ?", spreadsheetID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying spreadsheet: %w", err)
	}
	return true, nil
}

// findObjects runs a two-column (id, name) query and collects the results.
func (t *tabularStore) findObjects(ctx context.Context, query, name string) ([]driven.RemoteObject, error) {
	rows, err := t.store.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var objects []driven.RemoteObject
	for rows.Next() {
		var obj driven.RemoteObject
		if err := rows.Scan(&obj.ID, &obj.Name); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return objects, nil
}

// requireSpreadsheet maps a missing spreadsheet to ErrResourceNotFound.
func (t *tabularStore) requireSpreadsheet(ctx context.Context, spreadsheetID string) error {
	ok, err := t.Exists(ctx, spreadsheetID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: spreadsheet %s", domain.ErrResourceNotFound, spreadsheetID)
	}
	return nil
}
