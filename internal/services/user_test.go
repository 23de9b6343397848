package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func setupUserService(t *testing.T, ownerEmails ...string) (*UserService, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore(nil)
	svc := NewUserService(s, ownerEmails)
	svc.now = func() time.Time { return fixedNow }
	return svc, s
}

func TestUserService_SignIn_CreatesWithDefaults(t *testing.T) {
	svc, _ := setupUserService(t)

	user, err := svc.SignIn(context.Background(), &models.Identity{
		UID: "u1", Email: "lan@example.com", DisplayName: "Lan", PhotoURL: "https://x/lan.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "u1", user.UID)
	assert.Equal(t, models.DefaultDepartment, user.Department)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Equal(t, models.DefaultLeaveBalance, user.LeaveBalance)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Equal(t, fixedNow, user.JoinedAt)
}

func TestUserService_SignIn_PreservesEmployment(t *testing.T) {
	svc, s := setupUserService(t)
	ctx := context.Background()
	joined := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	_, err := s.Set(ctx, "users/u1", models.User{
		UID: "u1", Email: "old@example.com", DisplayName: "Old",
		Department: "Engineering", Role: models.RoleOwner, JoinedAt: joined,
		LeaveBalance: 15, Status: models.UserStatusInactive,
	})
	require.NoError(t, err)

	user, err := svc.SignIn(ctx, &models.Identity{UID: "u1", Email: "new@example.com", DisplayName: "New"})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New", user.DisplayName)
	assert.Equal(t, "Engineering", user.Department)
	assert.Equal(t, models.RoleOwner, user.Role)
	assert.Equal(t, joined, user.JoinedAt)
	assert.Equal(t, 15, user.LeaveBalance)
	assert.Equal(t, models.UserStatusInactive, user.Status)
}

func TestUserService_SignIn_RestoresEmptyDefaults(t *testing.T) {
	svc, s := setupUserService(t)
	ctx := context.Background()

	_, err := s.Set(ctx, "users/u1", map[string]any{"uid": "u1", "email": "lan@example.com", "department": ""})
	require.NoError(t, err)

	user, err := svc.SignIn(ctx, &models.Identity{UID: "u1", Email: "lan@example.com"})

	require.NoError(t, err)
	assert.Equal(t, models.DefaultDepartment, user.Department)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Equal(t, models.DefaultLeaveBalance, user.LeaveBalance)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Equal(t, fixedNow, user.JoinedAt, "a profile without a join date gets the sign-in time")
}

func TestUserService_SignIn_RequiresUID(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.SignIn(context.Background(), &models.Identity{Email: "x@example.com"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func seedUsers(t *testing.T, svc *UserService) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []models.Identity{
		{UID: "u1", Email: "lan@example.com", DisplayName: "Lan"},
		{UID: "u2", Email: "minh@example.com", DisplayName: "minh"},
		{UID: "u3", Email: "an@example.com", DisplayName: "An"},
	} {
		_, err := svc.SignIn(ctx, &id)
		require.NoError(t, err)
	}
	owner := NewSession("boss", "boss@example.com", models.RoleOwner)
	eng := "Engineering"
	_, err := svc.UpdateEmployment(ctx, owner, "u2", EmploymentUpdate{Department: &eng})
	require.NoError(t, err)
	inactive := models.UserStatusInactive
	_, err = svc.UpdateEmployment(ctx, owner, "u3", EmploymentUpdate{Status: &inactive})
	require.NoError(t, err)
}

func TestUserService_List(t *testing.T) {
	svc, _ := setupUserService(t)
	seedUsers(t, svc)
	ctx := context.Background()

	all, err := svc.List(ctx, UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"An", "Lan", "minh"}, []string{all[0].DisplayName, all[1].DisplayName, all[2].DisplayName})

	eng, err := svc.List(ctx, UserFilter{Department: "Engineering"})
	require.NoError(t, err)
	require.Len(t, eng, 1)
	assert.Equal(t, "u2", eng[0].ID)

	found, err := svc.List(ctx, UserFilter{Search: "ENGIN"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = svc.List(ctx, UserFilter{Search: "lan@", Department: "all"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u1", found[0].ID)
}

func TestUserService_Stats(t *testing.T) {
	svc, _ := setupUserService(t)
	seedUsers(t, svc)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &UserStats{Total: 3, Active: 2, Departments: 2}, stats)
}

func TestUserService_UpdateEmployment_RequiresOwner(t *testing.T) {
	svc, _ := setupUserService(t)
	seedUsers(t, svc)
	role := models.RoleOwner

	_, err := svc.UpdateEmployment(context.Background(), NewSession("u1", "lan@example.com", models.RoleEmployee), "u1", EmploymentUpdate{Role: &role})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_UpdateEmployment_InvalidRole(t *testing.T) {
	svc, _ := setupUserService(t)
	seedUsers(t, svc)
	role := "CEO"

	_, err := svc.UpdateEmployment(context.Background(), NewSession("boss", "", models.RoleOwner), "u1", EmploymentUpdate{Role: &role})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := setupUserService(t)
	seedUsers(t, svc)

	user, err := svc.UpdateProfile(context.Background(), "u1", "  Lan Anh ")

	require.NoError(t, err)
	assert.Equal(t, "Lan Anh", user.DisplayName)
	assert.Equal(t, models.DefaultDepartment, user.Department)

	_, err = svc.UpdateProfile(context.Background(), "u1", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_Promote(t *testing.T) {
	svc, _ := setupUserService(t)
	seedUsers(t, svc)

	user, err := svc.Promote(context.Background(), "MINH@example.com")

	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, user.Role)

	_, err = svc.Promote(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_EffectiveRole(t *testing.T) {
	svc, _ := setupUserService(t, "Boss@Example.com")

	assert.Equal(t, models.RoleOwner, svc.EffectiveRole(&models.User{Email: "boss@example.com", Role: models.RoleEmployee}))
	assert.Equal(t, models.RoleEmployee, svc.EffectiveRole(&models.User{Email: "lan@example.com"}))
	assert.Equal(t, models.RoleOwner, svc.EffectiveRole(&models.User{Email: "lan@example.com", Role: models.RoleOwner}))
}
