package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

func TestProbeToken_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-123", r.URL.Query().Get("access_token"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", TokenInfoURL: srv.URL})

	err := p.ProbeToken(context.Background(), "token-123")
	assert.NoError(t, err)
}

func TestProbeToken_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", TokenInfoURL: srv.URL})

	err := p.ProbeToken(context.Background(), "expired")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestProbeToken_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", TokenInfoURL: srv.URL})

	err := p.ProbeToken(context.Background(), "token-123")
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
	assert.NotErrorIs(t, err, domain.ErrAuthRequired)
}

func TestProbeToken_NetworkFailureIsTransient(t *testing.T) {
	// Closed server simulates an unreachable endpoint.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", TokenInfoURL: srv.URL})

	err := p.ProbeToken(context.Background(), "token-123")
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
}

func TestRefreshSilently_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))
		assert.Equal(t, "cid", r.Form.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", ClientSecret: "sec", TokenURL: srv.URL})

	token, err := p.RefreshSilently(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.False(t, token.Expiry.IsZero())
	// Google omits the refresh token on refresh grants.
	assert.Empty(t, token.RefreshToken)
}

func TestRefreshSilently_InvalidGrantRequiresSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been revoked."}`))
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", TokenURL: srv.URL})

	_, err := p.RefreshSilently(context.Background(), "revoked")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestRefreshSilently_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", TokenURL: srv.URL})

	_, err := p.RefreshSilently(context.Background(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
}

func TestProfile_DecodesUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub-1","email":"luna@example.com","name":"Luna","picture":"https://example.com/p.png"}`))
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", UserInfoURL: srv.URL})

	profile, err := p.Profile(context.Background(), "token-123")
	require.NoError(t, err)
	assert.Equal(t, "Luna", profile.Name)
	assert.Equal(t, "luna@example.com", profile.Email)
	assert.Equal(t, "sub-1", profile.SubjectID)
	assert.Equal(t, "https://example.com/p.png", profile.PictureURL)
}

func TestProfile_UnauthorizedMapsToAuthRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", UserInfoURL: srv.URL})

	_, err := p.Profile(context.Background(), "stale")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestRevoke_PostsToken(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotToken = r.Form.Get("token")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewIdentityProvider(IdentityConfig{ClientID: "cid", RevokeURL: srv.URL})

	err := p.Revoke(context.Background(), "token-123")
	assert.NoError(t, err)
	assert.Equal(t, "token-123", gotToken)
}

func TestBuildAuthURL_ContainsPKCEAndOfflineAccess(t *testing.T) {
	p := NewIdentityProvider(IdentityConfig{ClientID: "cid"})

	raw := p.buildAuthURL("http://localhost:8765/callback", "state-1", "challenge-1")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "challenge-1", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.True(t, strings.Contains(q.Get("scope"), "drive.file"))
}

func TestSignInInteractive_RequiresClientID(t *testing.T) {
	p := NewIdentityProvider(IdentityConfig{})

	_, err := p.SignInInteractive(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
