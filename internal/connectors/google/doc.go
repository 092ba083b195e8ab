// Package google provides the Google-backed driven adapters.
//
// This package contains everything that talks to Google APIs:
//   - TokenSource bridging the current session's access token to oauth2
//   - Service factories for the Drive and Sheets API clients
//   - An IdentityProvider implementing the OAuth device flows (probe,
//     silent refresh, interactive sign-in with PKCE, revoke)
//   - A TabularStore persisting reading records in a spreadsheet
//   - Error mapping from Google API status codes to domain errors
//   - Rate limiting to respect Google API quotas
//
// # OAuth2 Scopes
//
// The connector requests these scopes:
//   - https://www.googleapis.com/auth/userinfo.email (non-sensitive)
//   - https://www.googleapis.com/auth/userinfo.profile (non-sensitive)
//   - https://www.googleapis.com/auth/drive.file (per-file access)
//   - https://www.googleapis.com/auth/spreadsheets (sensitive)
//
// drive.file only grants access to files this app created, which is all
// the provisioner ever needs.
package google
