package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

// Ensure TabularStore implements the interface.
var _ driven.TabularStore = (*TabularStore)(nil)

// structuralID is the fixed structural sheet id of in-memory spreadsheets.
const structuralID int64 = 0

// TabularStore is an in-memory implementation of driven.TabularStore.
// Rows are held positionally per spreadsheet, mirroring the positional
// semantics of the remote store: deleting a row shifts every row below
// it up by one.
//
// Call counters and injectable errors support contention and failure
// tests.
type TabularStore struct {
	mu      sync.Mutex
	folders map[string]string     // id -> name
	sheets  map[string][][]string // id -> rows (header first)
	names   map[string]string     // spreadsheet id -> name
	nextID  int

	// CreateFolderCalls and CreateSpreadsheetCalls count creation
	// network calls, for idempotence assertions.
	CreateFolderCalls      int
	CreateSpreadsheetCalls int

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewTabularStore creates an empty in-memory tabular store.
func NewTabularStore() *TabularStore {
	return &TabularStore{
		folders: make(map[string]string),
		sheets:  make(map[string][][]string),
		names:   make(map[string]string),
	}
}

// FindFolder returns folders exactly matching name.
func (s *TabularStore) FindFolder(_ context.Context, name string) ([]driven.RemoteObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	var found []driven.RemoteObject
	for id, n := range s.folders {
		if n == name {
			found = append(found, driven.RemoteObject{ID: id, Name: n})
		}
	}
	return found, nil
}

// FindSpreadsheet returns spreadsheets exactly matching name.
func (s *TabularStore) FindSpreadsheet(_ context.Context, name string) ([]driven.RemoteObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	var found []driven.RemoteObject
	for id, n := range s.names {
		if n == name {
			found = append(found, driven.RemoteObject{ID: id, Name: n})
		}
	}
	return found, nil
}

// CreateFolder creates a folder and returns its id.
func (s *TabularStore) CreateFolder(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return "", s.FailWith
	}

	s.CreateFolderCalls++
	id := s.newID("folder")
	s.folders[id] = name
	return id, nil
}

// CreateSpreadsheet creates a spreadsheet seeded with the header row.
func (s *TabularStore) CreateSpreadsheet(_ context.Context, name string, header []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return "", s.FailWith
	}

	s.CreateSpreadsheetCalls++
	id := s.newID("sheet")
	s.sheets[id] = [][]string{append([]string(nil), header...)}
	s.names[id] = name
	return id, nil
}

// MoveIntoFolder is a no-op for the in-memory store.
func (s *TabularStore) MoveIntoFolder(_ context.Context, spreadsheetID, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.sheets[spreadsheetID]; !ok {
		return domain.ErrResourceNotFound
	}
	if _, ok := s.folders[folderID]; !ok {
		return domain.ErrResourceNotFound
	}
	return nil
}

// AppendRow appends one row to the spreadsheet.
func (s *TabularStore) AppendRow(_ context.Context, spreadsheetID string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	rows, ok := s.sheets[spreadsheetID]
	if !ok {
		return domain.ErrResourceNotFound
	}
	s.sheets[spreadsheetID] = append(rows, append([]string(nil), row...))
	return nil
}

// ReadRows returns a copy of every row, header included.
func (s *TabularStore) ReadRows(_ context.Context, spreadsheetID string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	rows, ok := s.sheets[spreadsheetID]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// StructuralSheetID returns the fixed structural id.
func (s *TabularStore) StructuralSheetID(_ context.Context, spreadsheetID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	if _, ok := s.sheets[spreadsheetID]; !ok {
		return 0, domain.ErrResourceNotFound
	}
	return structuralID, nil
}

// DeleteRow removes the row at rowIndex, shifting later rows up.
func (s *TabularStore) DeleteRow(_ context.Context, spreadsheetID string, sheetID int64, rowIndex int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if sheetID != structuralID {
		return fmt.Errorf("%w: unknown sheet %d", domain.ErrResourceNotFound, sheetID)
	}

	rows, ok := s.sheets[spreadsheetID]
	if !ok {
		return domain.ErrResourceNotFound
	}
	if rowIndex < 0 || rowIndex >= int64(len(rows)) {
		return fmt.Errorf("%w: row %d out of range", domain.ErrInvalidInput, rowIndex)
	}
	s.sheets[spreadsheetID] = append(rows[:rowIndex], rows[rowIndex+1:]...)
	return nil
}

// Exists reports whether the spreadsheet is present.
func (s *TabularStore) Exists(_ context.Context, spreadsheetID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return false, s.FailWith
	}
	_, ok := s.sheets[spreadsheetID]
	return ok, nil
}

// RemoveSpreadsheet drops a spreadsheet, simulating remote deletion.
func (s *TabularStore) RemoveSpreadsheet(spreadsheetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sheets, spreadsheetID)
	delete(s.names, spreadsheetID)
}

// Rows returns a copy of the raw rows for assertions.
func (s *TabularStore) Rows(spreadsheetID string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[spreadsheetID]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (s *TabularStore) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}
