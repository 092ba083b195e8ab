package driven

import "context"

// RemoteObject is a found remote resource: a folder or a spreadsheet.
type RemoteObject struct {
	ID   string
	Name string
}

// TabularStore abstracts the remote tabular record store: a container
// folder plus a spreadsheet whose rows are reading records.
//
// The store only supports position-based row deletion, and row positions
// shift whenever any row is removed. Callers must re-resolve a row's
// current position from a fresh read immediately before deleting.
//
// Implementations map their "object gone" condition to
// domain.ErrResourceNotFound so provisioned-handle invalidation is
// detectable at the service layer.
type TabularStore interface {
	// FindFolder returns folders exactly matching name, owned by the
	// signed-in identity and not trashed.
	FindFolder(ctx context.Context, name string) ([]RemoteObject, error)

	// FindSpreadsheet returns spreadsheets exactly matching name.
	FindSpreadsheet(ctx context.Context, name string) ([]RemoteObject, error)

	// CreateFolder creates a folder and returns its id.
	CreateFolder(ctx context.Context, name string) (string, error)

	// CreateSpreadsheet creates a spreadsheet with the given header row
	// and returns its id.
	CreateSpreadsheet(ctx context.Context, name string, header []string) (string, error)

	// MoveIntoFolder reparents a spreadsheet under a folder.
	MoveIntoFolder(ctx context.Context, spreadsheetID, folderID string) error

	// AppendRow appends one row after the current data range.
	AppendRow(ctx context.Context, spreadsheetID string, row []string) error

	// ReadRows returns every row of the data range, header included.
	ReadRows(ctx context.Context, spreadsheetID string) ([][]string, error)

	// StructuralSheetID resolves the first sheet's structural id, which is
	// distinct from the spreadsheet id and required for row deletion.
	StructuralSheetID(ctx context.Context, spreadsheetID string) (int64, error)

	// DeleteRow removes the row at the given zero-based index from the
	// sheet identified by its structural id.
	DeleteRow(ctx context.Context, spreadsheetID string, structuralSheetID int64, rowIndex int64) error

	// Exists reports whether the spreadsheet is still reachable remotely.
	Exists(ctx context.Context, spreadsheetID string) (bool, error)
}
