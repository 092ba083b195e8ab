package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Authentication errors.

	// ErrAuthRequired indicates no valid token is available and silent
	// renewal failed. The caller must prompt for interactive sign-in.
	// It must never trigger an automatic sign-out.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUserCancelled indicates the user aborted an interactive sign-in.
	ErrUserCancelled = errors.New("sign-in cancelled by user")

	// ErrTokenRefreshFailed indicates the silent token renewal failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Storage errors.

	// ErrTransientNetwork indicates a request failed for reasons unrelated
	// to authorization. Retryable; must never trigger sign-out.
	ErrTransientNetwork = errors.New("transient network failure")

	// ErrResourceNotFound indicates a previously provisioned folder or
	// spreadsheet no longer exists remotely. Surfaced distinctly so the
	// caller can offer recovery instead of silently recreating the
	// resource and fragmenting the user's reading history.
	ErrResourceNotFound = errors.New("provisioned resource not found")

	// ErrRecordNotFound indicates a delete target is absent from the store.
	ErrRecordNotFound = errors.New("reading record not found")

	// Reading generation errors.

	// ErrReadingUnavailable indicates no reading provider is configured.
	ErrReadingUnavailable = errors.New("reading provider unavailable")
)
