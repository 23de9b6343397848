package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const leavesPath = "leaves"

var (
	ErrLeaveNotFound        = errors.New("leave not found")
	ErrLeaveAlreadyReviewed = errors.New("leave already reviewed")
	ErrLeaveRejected        = errors.New("rejected leave cannot be changed")
)

type LeaveInput struct {
	Type      string
	StartDate string
	EndDate   string
	Reason    string
}

type leaveNotifier interface {
	SendLeaveReviewed(ctx context.Context, locale string, user *models.User, l *models.Leave) error
}

type LeaveService struct {
	store  store.Store
	users  *UserService
	mailer leaveNotifier
	now    clock
}

func NewLeaveService(s store.Store, users *UserService, mailer leaveNotifier) *LeaveService {
	return &LeaveService{store: s, users: users, mailer: mailer, now: time.Now}
}

// ListAll returns every leave request, newest first.
func (s *LeaveService) ListAll(ctx context.Context) ([]models.Leave, error) {
	leaves, err := list[models.Leave](ctx, s.store, leavesPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool { return leaves[i].CreatedAt.After(leaves[j].CreatedAt) })
	return leaves, nil
}

// List returns the leaves requested by uid, newest first.
func (s *LeaveService) List(ctx context.Context, uid string) ([]models.Leave, error) {
	leaves, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return leavesOf(leaves, uid), nil
}

func leavesOf(leaves []models.Leave, uid string) []models.Leave {
	out := make([]models.Leave, 0)
	for _, l := range leaves {
		if l.UserID == uid {
			out = append(out, l)
		}
	}
	return out
}

func (s *LeaveService) Balance(ctx context.Context, uid string) (leave.Summary, error) {
	leaves, err := s.List(ctx, uid)
	if err != nil {
		return leave.Summary{}, err
	}
	return leave.Summarize(leave.TotalAllotment, leaves), nil
}

// Apply files a pending leave request. A request longer than the remaining
// balance fails with *leave.InsufficientBalanceError and writes nothing.
func (s *LeaveService) Apply(ctx context.Context, session Session, in LeaveInput) (*models.Leave, error) {
	if err := validateLeaveInput(in); err != nil {
		return nil, err
	}
	leaves, err := s.List(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	l := &models.Leave{
		UserID:    session.UserID,
		Type:      in.Type,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    strings.TrimSpace(in.Reason),
		Status:    models.LeavePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := leave.Check(leave.TotalAllotment, leaves, *l); err != nil {
		return nil, err
	}
	return create(ctx, s.store, leavesPath, l)
}

// Edit changes the dates, type and reason of the caller's own leave. The
// status is kept, so an approved leave stays approved. The balance is checked
// without the leave's current span.
func (s *LeaveService) Edit(ctx context.Context, session Session, id string, in LeaveInput, expectedVersion int64) (*models.Leave, error) {
	if err := validateLeaveInput(in); err != nil {
		return nil, err
	}
	current, err := s.own(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.LeaveRejected {
		return nil, ErrLeaveRejected
	}

	leaves, err := s.List(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	candidate := *current
	candidate.Type = in.Type
	candidate.StartDate = in.StartDate
	candidate.EndDate = in.EndDate
	candidate.Reason = strings.TrimSpace(in.Reason)
	if _, err := leave.Check(leave.TotalAllotment, leaves, candidate); err != nil {
		return nil, err
	}

	return patch[models.Leave](ctx, s.store, store.Join(leavesPath, id), map[string]any{
		"type":      candidate.Type,
		"startDate": candidate.StartDate,
		"endDate":   candidate.EndDate,
		"reason":    candidate.Reason,
		"updatedAt": s.now().UTC(),
	}, expectedVersion, ErrLeaveNotFound)
}

// Review approves or rejects a pending leave and mails the requester. A mail
// failure is logged and does not undo the review.
func (s *LeaveService) Review(ctx context.Context, session Session, locale, id, status string) (*models.Leave, error) {
	if !session.IsOwner {
		return nil, ErrForbidden
	}
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return nil, invalidf("unknown review status %q", status)
	}

	path := store.Join(leavesPath, id)
	current, err := load[models.Leave](ctx, s.store, path, ErrLeaveNotFound)
	if err != nil {
		return nil, err
	}
	if current.Status != models.LeavePending {
		return nil, ErrLeaveAlreadyReviewed
	}

	reviewed, err := patch[models.Leave](ctx, s.store, path, map[string]any{
		"status":    status,
		"updatedAt": s.now().UTC(),
	}, current.Version, ErrLeaveNotFound)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		user, err := s.users.Get(ctx, reviewed.UserID)
		if err != nil {
			log.Printf("Failed to load requester of leave %s: %v", id, err)
		} else if err := s.mailer.SendLeaveReviewed(ctx, locale, user, reviewed); err != nil {
			log.Printf("Failed to mail review of leave %s: %v", id, err)
		}
	}
	return reviewed, nil
}

func (s *LeaveService) Delete(ctx context.Context, session Session, id string) error {
	current, err := s.own(ctx, session, id)
	if err != nil {
		return err
	}
	if current.Status == models.LeaveRejected {
		return ErrLeaveRejected
	}
	return remove(ctx, s.store, store.Join(leavesPath, id))
}

func (s *LeaveService) own(ctx context.Context, session Session, id string) (*models.Leave, error) {
	l, err := load[models.Leave](ctx, s.store, store.Join(leavesPath, id), ErrLeaveNotFound)
	if err != nil {
		return nil, err
	}
	if l.UserID != session.UserID {
		return nil, ErrForbidden
	}
	return l, nil
}

func validateLeaveInput(in LeaveInput) error {
	if !models.ValidLeaveType(in.Type) {
		return invalidf("unknown leave type %q", in.Type)
	}
	start, err := leave.ParseDate(in.StartDate)
	if err != nil {
		return err
	}
	end, err := leave.ParseDate(in.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return leave.ErrEndBeforeStart
	}
	return nil
}
