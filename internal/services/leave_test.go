package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLeaveNotifier struct {
	mock.Mock
}

func (m *mockLeaveNotifier) SendLeaveReviewed(ctx context.Context, locale string, user *models.User, l *models.Leave) error {
	args := m.Called(ctx, locale, user, l)
	return args.Error(0)
}

func setupLeaveService(t *testing.T) (*LeaveService, *mockLeaveNotifier, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore(nil)
	users := NewUserService(s, nil)
	users.now = func() time.Time { return fixedNow }
	notifier := &mockLeaveNotifier{}
	svc := NewLeaveService(s, users, notifier)
	svc.now = tick(fixedNow)
	return svc, notifier, s
}

// seedLeave writes a leave directly so its status can be anything.
func seedLeave(t *testing.T, s store.Store, uid, status, start, end string) string {
	t.Helper()
	rec, err := s.Push(context.Background(), leavesPath, models.Leave{
		UserID: uid, Type: models.LeaveVacation, StartDate: start, EndDate: end, Status: status,
	})
	require.NoError(t, err)
	return rec.Key
}

func TestLeaveService_Balance(t *testing.T) {
	svc, _, s := setupLeaveService(t)

	seedLeave(t, s, "u1", models.LeaveApproved, "2026-03-02", "2026-03-06")
	seedLeave(t, s, "u1", models.LeavePending, "2026-04-01", "2026-04-03")
	seedLeave(t, s, "u1", models.LeaveRejected, "2026-05-01", "2026-05-10")
	seedLeave(t, s, "u2", models.LeaveApproved, "2026-03-02", "2026-03-06")

	summary, err := svc.Balance(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, leave.Summary{Total: 20, Used: 5, Pending: 3, Remaining: 12}, summary)
}

func TestLeaveService_Apply(t *testing.T) {
	svc, _, _ := setupLeaveService(t)

	l, err := svc.Apply(context.Background(), lan, LeaveInput{
		Type: models.LeaveSick, StartDate: "2026-03-11", EndDate: "2026-03-12", Reason: " flu ",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, models.LeavePending, l.Status)
	assert.Equal(t, "u1", l.UserID)
	assert.Equal(t, "flu", l.Reason)
}

func TestLeaveService_Apply_InsufficientBalanceWritesNothing(t *testing.T) {
	svc, _, s := setupLeaveService(t)
	ctx := context.Background()

	seedLeave(t, s, "u1", models.LeaveApproved, "2026-01-05", "2026-01-19")
	before, err := s.List(ctx, leavesPath)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, lan, LeaveInput{Type: models.LeaveVacation, StartDate: "2026-06-01", EndDate: "2026-06-07"})

	var balanceErr *leave.InsufficientBalanceError
	require.True(t, errors.As(err, &balanceErr))
	assert.Equal(t, 7, balanceErr.Requested)
	assert.Equal(t, 5, balanceErr.Remaining)

	after, err := s.List(ctx, leavesPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLeaveService_Apply_InvalidInput(t *testing.T) {
	svc, _, _ := setupLeaveService(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, lan, LeaveInput{Type: "sabbatical", StartDate: "2026-03-11", EndDate: "2026-03-11"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Apply(ctx, lan, LeaveInput{Type: models.LeaveSick, StartDate: "soon", EndDate: "2026-03-11"})
	assert.ErrorIs(t, err, leave.ErrInvalidDate)

	_, err = svc.Apply(ctx, lan, LeaveInput{Type: models.LeaveSick, StartDate: "2026-03-12", EndDate: "2026-03-11"})
	assert.ErrorIs(t, err, leave.ErrEndBeforeStart)
}

func TestLeaveService_Edit_ShrinkApprovedLeave(t *testing.T) {
	svc, _, s := setupLeaveService(t)
	ctx := context.Background()

	id := seedLeave(t, s, "u1", models.LeaveApproved, "2026-03-02", "2026-03-11")

	edited, err := svc.Edit(ctx, lan, id, LeaveInput{
		Type: models.LeaveVacation, StartDate: "2026-03-02", EndDate: "2026-03-05",
	}, 0)

	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, edited.Status, "status is kept on edit")
	assert.Equal(t, "2026-03-05", edited.EndDate)

	summary, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Used)
}

func TestLeaveService_Edit_ExcludesItselfFromBalance(t *testing.T) {
	svc, _, s := setupLeaveService(t)

	id := seedLeave(t, s, "u1", models.LeavePending, "2026-03-02", "2026-03-21")

	_, err := svc.Edit(context.Background(), lan, id, LeaveInput{
		Type: models.LeaveVacation, StartDate: "2026-03-03", EndDate: "2026-03-22",
	}, 0)

	assert.NoError(t, err, "a 20 day leave moved by a day still fits")
}

func TestLeaveService_Edit_Guards(t *testing.T) {
	svc, _, s := setupLeaveService(t)
	ctx := context.Background()
	in := LeaveInput{Type: models.LeaveVacation, StartDate: "2026-03-02", EndDate: "2026-03-02"}

	rejected := seedLeave(t, s, "u1", models.LeaveRejected, "2026-03-02", "2026-03-03")
	_, err := svc.Edit(ctx, lan, rejected, in, 0)
	assert.ErrorIs(t, err, ErrLeaveRejected)

	theirs := seedLeave(t, s, "u2", models.LeavePending, "2026-03-02", "2026-03-03")
	_, err = svc.Edit(ctx, lan, theirs, in, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Edit(ctx, lan, "missing", in, 0)
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestLeaveService_Review(t *testing.T) {
	svc, notifier, s := setupLeaveService(t)
	ctx := context.Background()

	_, err := svc.users.SignIn(ctx, &models.Identity{UID: "u1", Email: "lan@example.com", DisplayName: "Lan"})
	require.NoError(t, err)
	id := seedLeave(t, s, "u1", models.LeavePending, "2026-03-02", "2026-03-03")

	notifier.On("SendLeaveReviewed", mock.Anything, "vi",
		mock.MatchedBy(func(u *models.User) bool { return u.Email == "lan@example.com" }),
		mock.MatchedBy(func(l *models.Leave) bool { return l.Status == models.LeaveApproved }),
	).Return(nil)

	reviewed, err := svc.Review(ctx, boss, "vi", id, models.LeaveApproved)

	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, reviewed.Status)
	notifier.AssertExpectations(t)

	_, err = svc.Review(ctx, boss, "vi", id, models.LeaveRejected)
	assert.ErrorIs(t, err, ErrLeaveAlreadyReviewed)
}

func TestLeaveService_Review_MailFailureKeepsReview(t *testing.T) {
	svc, notifier, s := setupLeaveService(t)
	ctx := context.Background()

	_, err := svc.users.SignIn(ctx, &models.Identity{UID: "u1", Email: "lan@example.com"})
	require.NoError(t, err)
	id := seedLeave(t, s, "u1", models.LeavePending, "2026-03-02", "2026-03-03")
	notifier.On("SendLeaveReviewed", mock.Anything, "en", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	reviewed, err := svc.Review(ctx, boss, "en", id, models.LeaveRejected)

	require.NoError(t, err)
	assert.Equal(t, models.LeaveRejected, reviewed.Status)
}

func TestLeaveService_Review_RequiresOwner(t *testing.T) {
	svc, notifier, s := setupLeaveService(t)
	id := seedLeave(t, s, "u1", models.LeavePending, "2026-03-02", "2026-03-03")

	_, err := svc.Review(context.Background(), lan, "en", id, models.LeaveApproved)

	assert.ErrorIs(t, err, ErrForbidden)
	notifier.AssertNotCalled(t, "SendLeaveReviewed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaveService_Review_InvalidStatus(t *testing.T) {
	svc, _, s := setupLeaveService(t)
	id := seedLeave(t, s, "u1", models.LeavePending, "2026-03-02", "2026-03-03")

	_, err := svc.Review(context.Background(), boss, "en", id, models.LeavePending)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLeaveService_ListAndDelete(t *testing.T) {
	svc, _, s := setupLeaveService(t)
	ctx := context.Background()

	first, err := svc.Apply(ctx, lan, LeaveInput{Type: models.LeaveSick, StartDate: "2026-03-11", EndDate: "2026-03-11"})
	require.NoError(t, err)
	second, err := svc.Apply(ctx, lan, LeaveInput{Type: models.LeavePersonal, StartDate: "2026-04-11", EndDate: "2026-04-11"})
	require.NoError(t, err)
	seedLeave(t, s, "u2", models.LeavePending, "2026-03-02", "2026-03-03")

	mine, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, minh, first.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, lan, first.ID))

	mine, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
