package google

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

const (
	mimeFolder      = "application/vnd.google-apps.folder"
	mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

	// readRange covers every record column of the first sheet.
	readRange = "A:I"
)

// Ensure TabularStore implements the port.
var _ driven.TabularStore = (*TabularStore)(nil)

// TabularStore persists reading records in a Google spreadsheet, with the
// container folder managed through Drive. All errors are mapped to domain
// errors via ToDomain before they leave this type.
type TabularStore struct {
	drive       *drive.Service
	sheets      *sheets.Service
	driveLimit  *RateLimiter
	sheetsLimit *RateLimiter
}

// NewTabularStore creates a Drive and Sheets backed tabular store.
// The TokenSource is consulted on every request, so the store picks up
// refreshed tokens without being rebuilt.
func NewTabularStore(ctx context.Context, ts oauth2.TokenSource) (*TabularStore, error) {
	driveSvc, err := NewDriveService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	sheetsSvc, err := NewSheetsService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &TabularStore{
		drive:       driveSvc,
		sheets:      sheetsSvc,
		driveLimit:  NewRateLimiter(ServiceDrive),
		sheetsLimit: NewRateLimiter(ServiceSheets),
	}, nil
}

// FindFolder returns untrashed folders owned by the signed-in identity
// whose name matches exactly.
func (s *TabularStore) FindFolder(ctx context.Context, name string) ([]driven.RemoteObject, error) {
	q := fmt.Sprintf(
		"mimeType='%s' and name='%s' and trashed=false and 'me' in owners",
		mimeFolder, escapeQuery(name))
	return s.listFiles(ctx, q)
}

// FindSpreadsheet returns untrashed spreadsheets owned by the signed-in
// identity whose name matches exactly.
func (s *TabularStore) FindSpreadsheet(ctx context.Context, name string) ([]driven.RemoteObject, error) {
	q := fmt.Sprintf(
		"mimeType='%s' and name='%s' and trashed=false and 'me' in owners",
		mimeSpreadsheet, escapeQuery(name))
	return s.listFiles(ctx, q)
}

// CreateFolder creates a Drive folder and returns its id.
func (s *TabularStore) CreateFolder(ctx context.Context, name string) (string, error) {
	if err := s.driveLimit.Wait(ctx); err != nil {
		return "", err
	}

	f, err := s.drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeFolder,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", ToDomain(err)
	}
	return f.Id, nil
}

// CreateSpreadsheet creates a spreadsheet and writes the header row.
func (s *TabularStore) CreateSpreadsheet(ctx context.Context, name string, header []string) (string, error) {
	if err := s.sheetsLimit.Wait(ctx); err != nil {
		return "", err
	}

	ss, err := s.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return "", ToDomain(err)
	}

	if err := s.AppendRow(ctx, ss.SpreadsheetId, header); err != nil {
		return "", fmt.Errorf("write header row: %w", err)
	}
	return ss.SpreadsheetId, nil
}

// MoveIntoFolder reparents the spreadsheet under the folder. Spreadsheets
// created through the Sheets API land in the Drive root.
func (s *TabularStore) MoveIntoFolder(ctx context.Context, spreadsheetID, folderID string) error {
	if err := s.driveLimit.Wait(ctx); err != nil {
		return err
	}

	_, err := s.drive.Files.Update(spreadsheetID, nil).
		AddParents(folderID).
		RemoveParents("root").
		Fields("id, parents").
		Context(ctx).Do()
	return ToDomain(err)
}

// AppendRow appends one row after the current data range.
func (s *TabularStore) AppendRow(ctx context.Context, spreadsheetID string, row []string) error {
	if err := s.sheetsLimit.Wait(ctx); err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.sheets.Spreadsheets.Values.Append(spreadsheetID, readRange, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return ToDomain(err)
}

// ReadRows returns every row of the data range, header included. Cells
// come back as strings; the sheet is written with RAW input so nothing
// is ever reinterpreted as a number or date.
func (s *TabularStore) ReadRows(ctx context.Context, spreadsheetID string) ([][]string, error) {
	if err := s.sheetsLimit.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.sheets.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, ToDomain(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell == nil {
				continue
			}
			if str, ok := cell.(string); ok {
				row[i] = str
			} else {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// StructuralSheetID resolves the first sheet's structural id, required
// for positional row deletion.
func (s *TabularStore) StructuralSheetID(ctx context.Context, spreadsheetID string) (int64, error) {
	if err := s.sheetsLimit.Wait(ctx); err != nil {
		return 0, err
	}

	ss, err := s.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(sheetId))").
		Context(ctx).Do()
	if err != nil {
		return 0, ToDomain(err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return 0, fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return ss.Sheets[0].Properties.SheetId, nil
}

// DeleteRow removes the row at the given zero-based index.
func (s *TabularStore) DeleteRow(ctx context.Context, spreadsheetID string, structuralSheetID, rowIndex int64) error {
	if err := s.sheetsLimit.Wait(ctx); err != nil {
		return err
	}

	_, err := s.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    structuralSheetID,
					Dimension:  "ROWS",
					StartIndex: rowIndex,
					EndIndex:   rowIndex + 1,
				},
			},
		}},
	}).Context(ctx).Do()
	return ToDomain(err)
}

// Exists reports whether the spreadsheet is still reachable in Drive.
// Trashed spreadsheets count as gone.
func (s *TabularStore) Exists(ctx context.Context, spreadsheetID string) (bool, error) {
	if err := s.driveLimit.Wait(ctx); err != nil {
		return false, err
	}

	f, err := s.drive.Files.Get(spreadsheetID).Fields("id, trashed").Context(ctx).Do()
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, ToDomain(err)
	}
	return !f.Trashed, nil
}

// listFiles runs a Drive files.list query and collects every page.
func (s *TabularStore) listFiles(ctx context.Context, q string) ([]driven.RemoteObject, error) {
	var objects []driven.RemoteObject
	pageToken := ""

	for {
		if err := s.driveLimit.Wait(ctx); err != nil {
			return nil, err
		}

		call := s.drive.Files.List().
			Q(q).
			Spaces("drive").
			Fields("nextPageToken, files(id, name)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, ToDomain(err)
		}
		for _, f := range resp.Files {
			objects = append(objects, driven.RemoteObject{ID: f.Id, Name: f.Name})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return objects, nil
		}
	}
}

// escapeQuery escapes a value for embedding in a Drive query string.
func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
