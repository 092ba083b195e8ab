package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_HasToken(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.HasToken())
	assert.False(t, (&Session{}).HasToken())
	assert.True(t, (&Session{AccessToken: "tok"}).HasToken())
}

func TestSession_CanRefresh(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.CanRefresh())
	assert.False(t, (&Session{AccessToken: "tok"}).CanRefresh())
	assert.True(t, (&Session{RefreshToken: "refresh"}).CanRefresh())
}

func TestOAuthToken_IsExpired(t *testing.T) {
	noExpiry := OAuthToken{AccessToken: "tok"}
	assert.False(t, noExpiry.IsExpired())

	future := OAuthToken{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)}
	assert.False(t, future.IsExpired())

	past := OAuthToken{AccessToken: "tok", Expiry: time.Now().Add(-time.Hour)}
	assert.True(t, past.IsExpired())
}
