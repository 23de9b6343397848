package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/officehub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenService(t *testing.T) (*TokenService, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore(nil)
	return NewTokenService(s), s
}

func TestTokenService_StoreAndValidate(t *testing.T) {
	svc, _ := setupTokenService(t)
	ctx := context.Background()

	err := svc.StoreRefreshToken(ctx, "uid-1", "hash-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(ctx, "hash-1")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", userID)
}

func TestTokenService_ValidateRefreshToken_Expired(t *testing.T) {
	svc, _ := setupTokenService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-1", "old", time.Now().Add(-time.Minute)))

	_, err := svc.ValidateRefreshToken(ctx, "old")

	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestTokenService_ValidateRefreshToken_NotFound(t *testing.T) {
	svc, _ := setupTokenService(t)

	_, err := svc.ValidateRefreshToken(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestTokenService_RevokeRefreshToken(t *testing.T) {
	svc, _ := setupTokenService(t)
	ctx := context.Background()
	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-1", "hash-1", time.Now().Add(time.Hour)))

	require.NoError(t, svc.RevokeRefreshToken(ctx, "hash-1"))
	require.NoError(t, svc.RevokeRefreshToken(ctx, "hash-1"), "revoking twice is fine")

	_, err := svc.ValidateRefreshToken(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestTokenService_RevokeAllUserTokens(t *testing.T) {
	svc, _ := setupTokenService(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-1", "a", exp))
	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-1", "b", exp))
	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-2", "c", exp))

	require.NoError(t, svc.RevokeAllUserTokens(ctx, "uid-1"))

	_, err := svc.ValidateRefreshToken(ctx, "a")
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(ctx, "b")
	assert.Error(t, err)
	userID, err := svc.ValidateRefreshToken(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", userID)
}

func TestTokenService_CleanupExpired(t *testing.T) {
	svc, s := setupTokenService(t)
	ctx := context.Background()
	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-1", "live", time.Now().Add(time.Hour)))
	require.NoError(t, svc.StoreRefreshToken(ctx, "uid-1", "dead", time.Now().Add(-time.Hour)))

	removed, err := svc.CleanupExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	snap, err := s.List(ctx, "sessions")
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "live", snap.Records[0].Key)
}
