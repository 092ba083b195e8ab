package domain

import "time"

// Profile is the signed-in user's basic identity from the provider.
type Profile struct {
	// Name is the user's display name.
	Name string `json:"name"`
	// Email is the account email address.
	Email string `json:"email"`
	// PictureURL is the avatar URL, if any.
	PictureURL string `json:"picture_url,omitempty"`
	// SubjectID is the provider's stable account identifier.
	SubjectID string `json:"subject_id,omitempty"`
}

// ResourceHandles identifies the remote objects provisioned for an
// identity. Both are resolved lazily on first need and cached here.
// At most one folder and one spreadsheet exist per identity.
type ResourceHandles struct {
	// FolderID is the container folder, named deterministically from the
	// user's display name. Empty until provisioned.
	FolderID string `json:"folder_id,omitempty"`
	// SpreadsheetID is the readings spreadsheet inside FolderID.
	// Empty until provisioned.
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
}

// Session is the single piece of mutable shared state: identity plus
// authorization plus provisioned resource handles. It is persisted in
// full after every mutation (write-through) and cleared only on explicit
// user sign-out, never on a transient failure.
type Session struct {
	// AccessToken is the short-lived bearer credential.
	AccessToken string `json:"access_token"`
	// RefreshToken enables silent (non-interactive) token renewal.
	RefreshToken string `json:"refresh_token,omitempty"`
	// Profile is the signed-in user's identity.
	Profile Profile `json:"profile"`
	// Authenticated is true once a token has been validated.
	Authenticated bool `json:"authenticated"`
	// Handles are the provisioned remote resource ids.
	Handles ResourceHandles `json:"handles"`
	// UpdatedAt is when the session was last mutated.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HasToken returns true if the session carries an access token.
func (s *Session) HasToken() bool {
	return s != nil && s.AccessToken != ""
}

// CanRefresh returns true if silent renewal is possible.
func (s *Session) CanRefresh() bool {
	return s != nil && s.RefreshToken != ""
}
