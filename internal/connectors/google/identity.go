package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/arcana-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/arcana-cli/internal/core/domain"
	"github.com/custodia-labs/arcana-cli/internal/core/ports/driven"
)

// Default Google OAuth2 endpoints.
const (
	defaultAuthURL      = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL     = "https://oauth2.googleapis.com/token"
	defaultRevokeURL    = "https://oauth2.googleapis.com/revoke"
	defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	defaultUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// DefaultScopes are the OAuth scopes the connector requests.
// drive.file limits Drive access to files this app created.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/spreadsheets",
}

// Callback ports tried in order for the loopback redirect.
const (
	callbackPortStart = 8765
	callbackPortEnd   = 8785
)

// signInTimeout bounds how long the interactive flow waits for the
// browser redirect.
const signInTimeout = 5 * time.Minute

// IdentityConfig configures the Google identity provider.
type IdentityConfig struct {
	// ClientID is the OAuth client ID. Required.
	ClientID string
	// ClientSecret is the OAuth client secret. Google requires it even
	// for PKCE flows on "installed app" clients.
	ClientSecret string
	// Scopes overrides DefaultScopes when non-empty.
	Scopes []string

	// OnAuthURL is invoked with the authorization URL during interactive
	// sign-in, so the caller can show it when the browser fails to open.
	OnAuthURL func(url string)

	// Endpoint overrides for tests. Empty means the Google defaults.
	AuthURL      string
	TokenURL     string
	RevokeURL    string
	TokenInfoURL string
	UserInfoURL  string
}

// Ensure IdentityProvider implements the port.
var _ driven.IdentityProvider = (*IdentityProvider)(nil)

// IdentityProvider implements OAuth identity operations against Google.
type IdentityProvider struct {
	cfg    IdentityConfig
	client *http.Client
}

// NewIdentityProvider creates a Google identity provider.
func NewIdentityProvider(cfg IdentityConfig) *IdentityProvider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.RevokeURL == "" {
		cfg.RevokeURL = defaultRevokeURL
	}
	if cfg.TokenInfoURL == "" {
		cfg.TokenInfoURL = defaultTokenInfoURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = defaultUserInfoURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}

	return &IdentityProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProbeToken asks the tokeninfo endpoint whether the access token is
// still accepted. Only an explicit rejection maps to ErrAuthRequired;
// transport failures stay transient so the caller never treats an
// offline check as a revoked credential.
func (p *IdentityProvider) ProbeToken(ctx context.Context, accessToken string) error {
	probeURL := p.cfg.TokenInfoURL + "?access_token=" + url.QueryEscape(accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: probe token: %v", domain.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: token rejected with status %d", domain.ErrAuthRequired, resp.StatusCode)
	default:
		return fmt.Errorf("%w: tokeninfo returned status %d", domain.ErrTransientNetwork, resp.StatusCode)
	}
}

// RefreshSilently exchanges the refresh token for a new access token.
// An invalid_grant response means the grant was revoked or expired and
// the user must sign in again.
func (p *IdentityProvider) RefreshSilently(ctx context.Context, refreshToken string) (*domain.OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", p.cfg.ClientID)
	data.Set("client_secret", p.cfg.ClientSecret)

	token, err := p.doTokenRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return token, nil
}

// SignInInteractive runs the authorization code flow with PKCE against a
// loopback redirect. It opens the system browser, waits for the redirect
// carrying the code, and exchanges it for tokens.
func (p *IdentityProvider) SignInInteractive(ctx context.Context) (*domain.OAuthToken, error) {
	if p.cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: oauth client id is not configured", domain.ErrInvalidInput)
	}

	verifier := oauth.GenerateCodeVerifier()
	challenge := oauth.GenerateCodeChallenge(verifier)
	state := uuid.NewString()

	port, err := oauth.FindAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return nil, fmt.Errorf("find callback port: %w", err)
	}

	srv := oauth.NewCallbackServer(port, state)
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = srv.Stop() }()

	authURL := p.buildAuthURL(srv.RedirectURI(), state, challenge)
	if p.cfg.OnAuthURL != nil {
		p.cfg.OnAuthURL(authURL)
	}
	// Best effort. The OnAuthURL hook already surfaced the URL for
	// manual opening.
	_ = oauth.OpenBrowser(authURL)

	code, err := p.waitForCode(ctx, srv)
	if err != nil {
		return nil, err
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", p.cfg.ClientID)
	data.Set("client_secret", p.cfg.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", srv.RedirectURI())
	data.Set("code_verifier", verifier)

	token, err := p.doTokenRequest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}

// Profile fetches the signed-in user's identity from the userinfo endpoint.
func (p *IdentityProvider) Profile(ctx context.Context, accessToken string) (*domain.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user info: %v", domain.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: user info rejected", domain.ErrAuthRequired)
	default:
		return nil, fmt.Errorf("%w: user info returned status %d", domain.ErrTransientNetwork, resp.StatusCode)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &domain.Profile{
		Name:       info.Name,
		Email:      info.Email,
		PictureURL: info.Picture,
		SubjectID:  info.ID,
	}, nil
}

// Revoke invalidates the token with Google. Best effort.
func (p *IdentityProvider) Revoke(ctx context.Context, accessToken string) error {
	data := url.Values{}
	data.Set("token", accessToken)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.cfg.RevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke returned status %d", resp.StatusCode)
	}
	return nil
}

// buildAuthURL constructs the authorization URL.
// access_type=offline and prompt=consent make Google issue a refresh
// token, which silent renewal depends on.
func (p *IdentityProvider) buildAuthURL(redirectURI, state, codeChallenge string) string {
	params := url.Values{
		"response_type":         {"code"},
		"client_id":             {p.cfg.ClientID},
		"redirect_uri":          {redirectURI},
		"scope":                 {strings.Join(p.cfg.Scopes, " ")},
		"state":                 {state},
		"code_challenge":        {codeChallenge},
		"code_challenge_method": {"S256"},
		"access_type":           {"offline"},
		"prompt":                {"consent"},
	}
	return p.cfg.AuthURL + "?" + params.Encode()
}

// waitForCode blocks until the callback delivers the authorization code,
// the flow times out, or ctx is cancelled. Both abort paths map to
// ErrUserCancelled so callers treat them as "the user walked away".
func (p *IdentityProvider) waitForCode(ctx context.Context, srv *oauth.CallbackServer) (string, error) {
	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := srv.WaitForCode(signInTimeout)
		done <- result{code: code, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", domain.ErrUserCancelled, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrUserCancelled, res.err)
		}
		return res.code, nil
	}
}

// doTokenRequest posts to the token endpoint and decodes the response.
// OAuth protocol errors (invalid_grant and friends) come back as 400 and
// map to ErrAuthRequired; anything else is transient.
func (p *IdentityProvider) doTokenRequest(ctx context.Context, data url.Values) (*domain.OAuthToken, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token request: %v", domain.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)

		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			if errResp.Error != "" {
				return nil, fmt.Errorf("%w: %s: %s", domain.ErrAuthRequired, errResp.Error, errResp.Description)
			}
			return nil, fmt.Errorf("%w: token request failed with status %d", domain.ErrAuthRequired, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: token request failed with status %d", domain.ErrTransientNetwork, resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token response contained no access token")
	}

	token := &domain.OAuthToken{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		TokenType:    tokenResp.TokenType,
	}
	if tokenResp.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return token, nil
}
