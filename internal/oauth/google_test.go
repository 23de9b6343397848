package oauth

import (
	"testing"

	"github.com/dimitrije/officehub/internal/config"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2/google"
)

func TestGoogleProvider_Name(t *testing.T) {
	provider := NewGoogleProvider(config.OAuthConfig{})
	assert.Equal(t, "google", provider.Name())
}

func TestGoogleProvider_GetConsentURL(t *testing.T) {
	provider := NewGoogleProvider(config.OAuthConfig{
		ClientID:    "office-client",
		RedirectURL: "http://localhost/api/v1/auth/google/callback",
	})

	url := provider.GetConsentURL("state-123")

	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "client_id=office-client")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "prompt=select_account")
}

func TestGoogleProvider_Scopes(t *testing.T) {
	provider := NewGoogleProvider(config.OAuthConfig{ClientID: "office-client"})

	assert.Contains(t, provider.config.Scopes, "openid")
	assert.Contains(t, provider.config.Scopes, "https://www.googleapis.com/auth/userinfo.email")
	assert.Contains(t, provider.config.Scopes, "https://www.googleapis.com/auth/userinfo.profile")
}

func TestGoogleProvider_Endpoint(t *testing.T) {
	provider := NewGoogleProvider(config.OAuthConfig{})

	assert.Equal(t, google.Endpoint.AuthURL, provider.config.Endpoint.AuthURL)
	assert.Equal(t, google.Endpoint.TokenURL, provider.config.Endpoint.TokenURL)
}
