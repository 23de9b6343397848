package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const sessionsPath = "sessions"

var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

// TokenService keeps issued refresh tokens in the record store under
// sessions/{hash}, so they can be revoked.
type TokenService struct {
	store store.Store
	now   clock
}

func NewTokenService(s store.Store) *TokenService {
	return &TokenService{store: s, now: time.Now}
}

func (s *TokenService) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	path := store.Join(sessionsPath, tokenHash)
	_, err := s.store.Set(ctx, path, models.RefreshToken{
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: s.now().UTC(),
	})
	return logWriteErr("store refresh token", path, err)
}

func (s *TokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (string, error) {
	rec, err := s.store.Get(ctx, store.Join(sessionsPath, tokenHash))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", err
	}

	tok, err := models.Decode[models.RefreshToken](*rec)
	if err != nil {
		return "", err
	}
	if !tok.ExpiresAt.After(s.now()) {
		return "", ErrRefreshTokenInvalid
	}
	return tok.UserID, nil
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	path := store.Join(sessionsPath, tokenHash)
	return logWriteErr("revoke refresh token", path, s.store.Delete(ctx, path))
}

func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID string) error {
	_, err := s.deleteWhere(ctx, func(t models.RefreshToken) bool { return t.UserID == userID })
	return err
}

// CleanupExpired removes expired refresh tokens and reports how many were removed.
func (s *TokenService) CleanupExpired(ctx context.Context) (int, error) {
	now := s.now()
	return s.deleteWhere(ctx, func(t models.RefreshToken) bool { return !t.ExpiresAt.After(now) })
}

func (s *TokenService) deleteWhere(ctx context.Context, match func(models.RefreshToken) bool) (int, error) {
	snap, err := s.store.List(ctx, sessionsPath)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	removed := 0
	for _, tok := range models.DecodeAll[models.RefreshToken](snap) {
		if !match(tok) {
			continue
		}
		path := store.Join(sessionsPath, tok.ID)
		if err := s.store.Delete(ctx, path); err != nil {
			return removed, logWriteErr("delete session", path, err)
		}
		removed++
	}
	return removed, nil
}
