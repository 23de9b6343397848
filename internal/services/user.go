package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const usersPath = "users"

var ErrUserNotFound = errors.New("user not found")

type UserFilter struct {
	Search     string
	Department string
}

type UserStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Departments int `json:"departments"`
}

// EmploymentUpdate carries the fields only an owner may change.
type EmploymentUpdate struct {
	Department *string
	Role       *string
	Status     *string
}

type UserService struct {
	store       store.Store
	ownerEmails map[string]bool
	now         clock
}

func NewUserService(s store.Store, ownerEmails []string) *UserService {
	owners := make(map[string]bool, len(ownerEmails))
	for _, e := range ownerEmails {
		owners[strings.ToLower(e)] = true
	}
	return &UserService{store: s, ownerEmails: owners, now: time.Now}
}

// SignIn creates the profile on first sign-in. Later sign-ins refresh the
// identity fields and keep department, role, joinedAt, leaveBalance and
// status, restoring defaults for any that are empty.
func (s *UserService) SignIn(ctx context.Context, id *models.Identity) (*models.User, error) {
	if id == nil || id.UID == "" {
		return nil, invalidf("identity without uid")
	}
	path := store.Join(usersPath, id.UID)

	user := models.User{
		Department:   models.DefaultDepartment,
		Role:         models.RoleEmployee,
		JoinedAt:     s.now().UTC(),
		LeaveBalance: models.DefaultLeaveBalance,
		Status:       models.UserStatusActive,
	}

	rec, err := s.store.Get(ctx, path)
	switch {
	case err == nil:
		existing, err := models.Decode[models.User](*rec)
		if err != nil {
			return nil, err
		}
		if existing.Department != "" {
			user.Department = existing.Department
		}
		if existing.Role != "" {
			user.Role = existing.Role
		}
		if !existing.JoinedAt.IsZero() {
			user.JoinedAt = existing.JoinedAt
		}
		if existing.LeaveBalance != 0 {
			user.LeaveBalance = existing.LeaveBalance
		}
		if existing.Status != "" {
			user.Status = existing.Status
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}

	user.UID = id.UID
	user.Email = id.Email
	user.DisplayName = id.DisplayName
	user.PhotoURL = id.PhotoURL

	rec, err = s.store.Set(ctx, path, user)
	if err != nil {
		return nil, logWriteErr("save profile", path, err)
	}
	user.SetMeta(rec.Key, rec.Version)
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, ErrUserNotFound
	}
	rec, err := s.store.Get(ctx, store.Join(usersPath, uid))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user, err := models.Decode[models.User](*rec)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) all(ctx context.Context) ([]models.User, error) {
	snap, err := s.store.List(ctx, usersPath)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return models.DecodeAll[models.User](snap), nil
}

// List returns the directory sorted by display name. Search matches display
// name, email or department case-insensitively.
func (s *UserService) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	users, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if filter.Department != "" && filter.Department != "all" && u.Department != filter.Department {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.DisplayName), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) &&
			!strings.Contains(strings.ToLower(u.Department), q) {
			continue
		}
		out = append(out, u)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}

func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	users, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{Total: len(users)}
	departments := map[string]bool{}
	for _, u := range users {
		if u.Status == models.UserStatusActive {
			stats.Active++
		}
		if u.Department != "" {
			departments[u.Department] = true
		}
	}
	stats.Departments = len(departments)
	return stats, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, uid, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, invalidf("display name is required")
	}
	return s.update(ctx, uid, map[string]any{"displayName": displayName})
}

func (s *UserService) UpdateEmployment(ctx context.Context, session Session, uid string, upd EmploymentUpdate) (*models.User, error) {
	if !session.IsOwner {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if upd.Department != nil {
		if strings.TrimSpace(*upd.Department) == "" {
			return nil, invalidf("department cannot be empty")
		}
		fields["department"] = strings.TrimSpace(*upd.Department)
	}
	if upd.Role != nil {
		if *upd.Role != models.RoleEmployee && *upd.Role != models.RoleOwner {
			return nil, invalidf("unknown role %q", *upd.Role)
		}
		fields["role"] = *upd.Role
	}
	if upd.Status != nil {
		if *upd.Status != models.UserStatusActive && *upd.Status != models.UserStatusInactive {
			return nil, invalidf("unknown status %q", *upd.Status)
		}
		fields["status"] = *upd.Status
	}
	if len(fields) == 0 {
		return nil, store.ErrNoFieldsToUpdate
	}
	return s.update(ctx, uid, fields)
}

// Promote makes the user with the given email an owner.
func (s *UserService) Promote(ctx context.Context, email string) (*models.User, error) {
	users, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return s.update(ctx, u.ID, map[string]any{"role": models.RoleOwner})
		}
	}
	return nil, ErrUserNotFound
}

// EffectiveRole is the role written into access tokens. Configured owner
// emails are owners whatever their stored role.
func (s *UserService) EffectiveRole(u *models.User) string {
	if s.ownerEmails[strings.ToLower(u.Email)] {
		return models.RoleOwner
	}
	if u.Role == "" {
		return models.RoleEmployee
	}
	return u.Role
}

func (s *UserService) update(ctx context.Context, uid string, fields map[string]any) (*models.User, error) {
	path := store.Join(usersPath, uid)
	rec, err := s.store.Update(ctx, path, fields, 0)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, logWriteErr("update user", path, err)
	}
	user, err := models.Decode[models.User](*rec)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
