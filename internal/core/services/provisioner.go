package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// Lock keys for provisioning operations.
const (
	lockFolder      = "provision:folder"
	lockSpreadsheet = "provision:spreadsheet"
)

// Provisioner lazily creates the remote folder and spreadsheet for the
// signed-in identity. Creation is lookup-before-create under a per-key
// lock, so it is idempotent under retries and concurrent in-process
// callers. A race remains possible only between independent processes
// that query-then-create simultaneously, which is accepted as a
// low-probability limitation.
type Provisioner struct {
	store    driven.TabularStore
	sessions driven.SessionStore
	locks    *KeyedLock

	// sessionMu guards the fields of the shared session, together with
	// every other service that mutates it.
	sessionMu *sync.Mutex
}

// NewProvisioner creates a resource provisioner. locks and sessionMu
// may be nil when not shared with other services.
func NewProvisioner(store driven.TabularStore, sessions driven.SessionStore, locks *KeyedLock, sessionMu *sync.Mutex) *Provisioner {
	if locks == nil {
		locks = NewKeyedLock()
	}
	if sessionMu == nil {
		sessionMu = &sync.Mutex{}
	}
	return &Provisioner{
		store:     store,
		sessions:  sessions,
		locks:     locks,
		sessionMu: sessionMu,
	}
}

// FolderName is the deterministic folder name for a profile. Lookup by
// this exact name is what makes provisioning idempotent.
func FolderName(profile domain.Profile) string {
	return fmt.Sprintf("Arcana Tarot - %s", profile.Name)
}

// SpreadsheetName is the deterministic spreadsheet name for a profile.
func SpreadsheetName(profile domain.Profile) string {
	return fmt.Sprintf("Arcana Readings - %s", profile.Name)
}

// EnsureFolder returns the identity's folder id, provisioning it on
// first need. The resolved handle is cached in the session and persisted.
func (p *Provisioner) EnsureFolder(ctx context.Context, session *domain.Session) (string, error) {
	if id := p.cachedFolder(session); id != "" {
		return id, nil
	}

	release, acquired := p.locks.Acquire(ctx, lockFolder)
	defer release()
	if !acquired {
		logger.Debug("folder lock wait expired, proceeding as uncontended")
	}

	// Another caller may have provisioned while we waited.
	if id := p.cachedFolder(session); id != "" {
		return id, nil
	}

	name := FolderName(session.Profile)
	found, err := p.store.FindFolder(ctx, name)
	if err != nil {
		return "", fmt.Errorf("find folder: %w", err)
	}

	var id string
	if len(found) > 0 {
		id = found[0].ID
		logger.Debug("adopted existing folder %s", id)
	} else {
		id, err = p.store.CreateFolder(ctx, name)
		if err != nil {
			return "", fmt.Errorf("create folder: %w", err)
		}
		logger.Info("created folder %q", name)
	}

	p.setFolder(ctx, session, id)
	return id, nil
}

// EnsureSpreadsheet returns the identity's spreadsheet id, provisioning
// the folder and spreadsheet on first need. New spreadsheets get the
// header row and are moved under the folder.
func (p *Provisioner) EnsureSpreadsheet(ctx context.Context, session *domain.Session) (string, error) {
	if id := p.cachedSpreadsheet(session); id != "" {
		return id, nil
	}

	folderID, err := p.EnsureFolder(ctx, session)
	if err != nil {
		return "", err
	}

	release, acquired := p.locks.Acquire(ctx, lockSpreadsheet)
	defer release()
	if !acquired {
		logger.Debug("spreadsheet lock wait expired, proceeding as uncontended")
	}

	if id := p.cachedSpreadsheet(session); id != "" {
		return id, nil
	}

	name := SpreadsheetName(session.Profile)
	found, err := p.store.FindSpreadsheet(ctx, name)
	if err != nil {
		return "", fmt.Errorf("find spreadsheet: %w", err)
	}

	var id string
	if len(found) > 0 {
		id = found[0].ID
		logger.Debug("adopted existing spreadsheet %s", id)
	} else {
		id, err = p.store.CreateSpreadsheet(ctx, name, ReadingHeader)
		if err != nil {
			return "", fmt.Errorf("create spreadsheet: %w", err)
		}
		if err := p.store.MoveIntoFolder(ctx, id, folderID); err != nil {
			// The spreadsheet is usable from the root; filing it under
			// the folder is cosmetic.
			logger.Warn("move spreadsheet into folder: %v", err)
		}
		logger.Info("created spreadsheet %q", name)
	}

	p.setSpreadsheet(ctx, session, id)
	return id, nil
}

func (p *Provisioner) cachedFolder(session *domain.Session) string {
	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()
	return session.Handles.FolderID
}

func (p *Provisioner) cachedSpreadsheet(session *domain.Session) string {
	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()
	return session.Handles.SpreadsheetID
}

func (p *Provisioner) setFolder(ctx context.Context, session *domain.Session, id string) {
	p.sessionMu.Lock()
	session.Handles.FolderID = id
	session.UpdatedAt = time.Now()
	snapshot := *session
	p.sessionMu.Unlock()

	p.persist(ctx, snapshot)
}

func (p *Provisioner) setSpreadsheet(ctx context.Context, session *domain.Session, id string) {
	p.sessionMu.Lock()
	session.Handles.SpreadsheetID = id
	session.UpdatedAt = time.Now()
	snapshot := *session
	p.sessionMu.Unlock()

	p.persist(ctx, snapshot)
}

// persist writes the session through to durable storage. Failures are
// logged only; the handle is re-resolvable by name lookup.
func (p *Provisioner) persist(ctx context.Context, session domain.Session) {
	if err := p.sessions.Save(ctx, session); err != nil {
		logger.Warn("persist resource handles: %v", err)
	}
}
