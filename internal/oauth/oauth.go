package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/dimitrije/officehub/internal/models"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Provider runs a browser consent flow.
type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*models.Identity, error)
	Name() string
}

// Verifier signs a user in from a token minted by an identity platform on the
// client side.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
