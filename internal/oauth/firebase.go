package oauth

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/dimitrije/officehub/internal/models"
)

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase Authentication ID tokens, so users keep
// the uid they had in the Firebase project.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &models.Identity{
		UID:         t.UID,
		Email:       claimString(t.Claims, "email"),
		DisplayName: claimString(t.Claims, "name"),
		PhotoURL:    claimString(t.Claims, "picture"),
	}, nil
}
