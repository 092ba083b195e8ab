package domain

import "time"

// OAuthToken represents tokens returned by the identity provider.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the token has expired.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}

// TokenState is the outcome of a token freshness check.
//
// The three states exist so that "token stale" can never be confused with
// "user logged out": only TokenValid permits remote calls, and neither of
// the failure states may trigger a sign-out.
type TokenState string

const (
	// TokenValid means the current access token was accepted, possibly
	// after a silent refresh.
	TokenValid TokenState = "valid"
	// TokenNeedsSignIn means silent renewal failed and the caller must
	// prompt the user for interactive sign-in.
	TokenNeedsSignIn TokenState = "needs-sign-in"
	// TokenTransientFailure means the check failed for reasons unrelated
	// to authorization. Retryable.
	TokenTransientFailure TokenState = "transient-failure"
)

// AuthStatusReason explains why an auth status check failed, so the
// caller can decide how to react without the persistence layer wiping
// credentials on its own initiative.
type AuthStatusReason string

const (
	// AuthStatusOK means the session and spreadsheet are both usable.
	AuthStatusOK AuthStatusReason = "ok"
	// AuthStatusNotAuthenticated means no signed-in session exists.
	AuthStatusNotAuthenticated AuthStatusReason = "not-authenticated"
	// AuthStatusTokenInvalid means the token is stale and silent renewal
	// is unavailable.
	AuthStatusTokenInvalid AuthStatusReason = "token-invalid"
	// AuthStatusSpreadsheetNotFound means the provisioned spreadsheet no
	// longer exists remotely.
	AuthStatusSpreadsheetNotFound AuthStatusReason = "spreadsheet-not-found"
)

// AuthStatus is the result of a full auth status check: token validity
// plus remote existence of the provisioned spreadsheet.
type AuthStatus struct {
	Valid  bool             `json:"valid"`
	Reason AuthStatusReason `json:"reason"`
}
