package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAuthCmd_Use(t *testing.T) {
	assert.Equal(t, "auth", authCmd.Use)
	assert.Equal(t, "sign-in", authSignInCmd.Use)
	assert.Equal(t, "sign-out", authSignOutCmd.Use)
	assert.Equal(t, "status", authStatusCmd.Use)
}

func TestAuthSignIn_PrintsProfile(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{
		session: &domain.Session{
			Profile:       domain.Profile{Email: "ada@example.com", Name: "Ada"},
			Authenticated: true,
		},
	}, nil)
	defer cleanup()

	out, err := executeCommand("auth", "sign-in")

	assert.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada@example.com (Ada)")
}

func TestAuthSignIn_Cancelled(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{signInErr: domain.ErrUserCancelled}, nil)
	defer cleanup()

	out, err := executeCommand("auth", "sign-in")

	assert.NoError(t, err)
	assert.Contains(t, out, "Sign-in cancelled.")
}

func TestAuthSignIn_ServiceNotConfigured(t *testing.T) {
	cleanup := setupCLITest(nil, nil)
	defer cleanup()

	_, err := executeCommand("auth", "sign-in")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "session service not configured")
}

func TestAuthSignOut_NotSignedIn(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{}, nil)
	defer cleanup()

	out, err := executeCommand("auth", "sign-out")

	assert.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestAuthSignOut_SignsOut(t *testing.T) {
	mock := &mockSessionService{session: &domain.Session{Authenticated: true}}
	cleanup := setupCLITest(mock, nil)
	defer cleanup()

	out, err := executeCommand("auth", "sign-out")

	assert.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.Nil(t, mock.session)
}

func TestAuthStatus_Valid(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{
		session:    &domain.Session{Profile: domain.Profile{Email: "ada@example.com"}},
		authStatus: domain.AuthStatus{Valid: true},
	}, nil)
	defer cleanup()

	out, err := executeCommand("auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada@example.com")
}

func TestAuthStatus_NotAuthenticated(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{
		authStatus: domain.AuthStatus{Reason: domain.AuthStatusNotAuthenticated},
	}, nil)
	defer cleanup()

	out, err := executeCommand("auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Not signed in. Run: arcana auth sign-in")
}

func TestAuthStatus_SpreadsheetMissing(t *testing.T) {
	cleanup := setupCLITest(&mockSessionService{
		authStatus: domain.AuthStatus{Reason: domain.AuthStatusSpreadsheetNotFound},
	}, nil)
	defer cleanup()

	out, err := executeCommand("auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "spreadsheet is missing")
	assert.Contains(t, out, "recreated the next time a reading is saved")
}
