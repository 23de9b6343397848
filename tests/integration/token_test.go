package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/dimitrije/officehub/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenTest(t *testing.T) (*services.TokenService, *testutil.Fixtures) {
	t.Helper()
	tdb := setupTest(t)
	s := store.NewPostgresStore(tdb.DB, nil)
	return services.NewTokenService(s), testutil.NewFixtures(s)
}

func TestTokenService_Integration_StoreAndValidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	svc, fixtures := setupTokenTest(t)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	tokenHash := services.HashToken("my-refresh-token")

	err := svc.StoreRefreshToken(ctx, user.UID, tokenHash, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(ctx, tokenHash)
	require.NoError(t, err)
	assert.Equal(t, user.UID, userID)
}

func TestTokenService_Integration_ValidateExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	svc, fixtures := setupTokenTest(t)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	tokenHash := services.HashToken("expired-token")

	err := svc.StoreRefreshToken(ctx, user.UID, tokenHash, time.Now().Add(-1*time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, tokenHash)
	assert.ErrorIs(t, err, services.ErrRefreshTokenInvalid)
}

func TestTokenService_Integration_RevokeAllUserTokens(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	svc, fixtures := setupTokenTest(t)
	ctx := context.Background()

	user := fixtures.CreateUser(t)
	other := fixtures.CreateUser(t)
	expiresAt := time.Now().Add(24 * time.Hour)

	require.NoError(t, svc.StoreRefreshToken(ctx, user.UID, services.HashToken("token-1"), expiresAt))
	require.NoError(t, svc.StoreRefreshToken(ctx, user.UID, services.HashToken("token-2"), expiresAt))
	require.NoError(t, svc.StoreRefreshToken(ctx, other.UID, services.HashToken("token-3"), expiresAt))

	require.NoError(t, svc.RevokeAllUserTokens(ctx, user.UID))

	_, err := svc.ValidateRefreshToken(ctx, services.HashToken("token-1"))
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(ctx, services.HashToken("token-2"))
	assert.Error(t, err)
	uid, err := svc.ValidateRefreshToken(ctx, services.HashToken("token-3"))
	require.NoError(t, err)
	assert.Equal(t, other.UID, uid)
}

func TestTokenService_Integration_CleanupExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	svc, fixtures := setupTokenTest(t)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	require.NoError(t, svc.StoreRefreshToken(ctx, user.UID, services.HashToken("expired"), time.Now().Add(-1*time.Hour)))
	require.NoError(t, svc.StoreRefreshToken(ctx, user.UID, services.HashToken("valid"), time.Now().Add(24*time.Hour)))

	removed, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	userID, err := svc.ValidateRefreshToken(ctx, services.HashToken("valid"))
	require.NoError(t, err)
	assert.Equal(t, user.UID, userID)
}

func TestFixtures_Integration_CreateTask(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	s := store.NewPostgresStore(tdb.DB, nil)
	fixtures := testutil.NewFixtures(s)

	user := fixtures.CreateUser(t, testutil.WithName("Lan"))
	task := fixtures.CreateTask(t, user.UID, "Write report")
	assert.Equal(t, user.UID, task.UserID)

	tdb.CleanTables(t)

	snap, err := s.List(context.Background(), "tasks")
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
}
