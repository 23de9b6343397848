package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const announcementsPath = "announcements"

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementInput struct {
	Title    string
	Content  string
	Type     string
	Priority string
}

type AnnouncementStats struct {
	Total    int `json:"total"`
	Urgent   int `json:"urgent"`
	LastWeek int `json:"lastWeek"`
}

type announcementNotifier interface {
	SendUrgentAnnouncement(ctx context.Context, locale string, a *models.Announcement, recipients []string)
}

type AnnouncementService struct {
	store  store.Store
	users  *UserService
	mailer announcementNotifier
	now    clock
}

func NewAnnouncementService(s store.Store, users *UserService, mailer announcementNotifier) *AnnouncementService {
	return &AnnouncementService{store: s, users: users, mailer: mailer, now: time.Now}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	items, err := list[models.Announcement](ctx, s.store, announcementsPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *AnnouncementService) Stats(ctx context.Context) (*AnnouncementStats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	stats := &AnnouncementStats{Total: len(items)}
	for _, a := range items {
		if a.Type == models.AnnouncementUrgent {
			stats.Urgent++
		}
		if a.CreatedAt.After(weekAgo) {
			stats.LastWeek++
		}
	}
	return stats, nil
}

// Create posts an announcement under the author's display name. Urgent
// announcements are also mailed to every other user.
func (s *AnnouncementService) Create(ctx context.Context, session Session, locale string, in AnnouncementInput) (*models.Announcement, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, invalidf("title and content are required")
	}
	if in.Type == "" {
		in.Type = models.AnnouncementInfo
	}
	if in.Priority == "" {
		in.Priority = models.AnnouncementNormal
	}
	switch in.Type {
	case models.AnnouncementInfo, models.AnnouncementUrgent, models.AnnouncementSuccess:
	default:
		return nil, invalidf("unknown announcement type %q", in.Type)
	}
	if in.Priority != models.AnnouncementNormal && in.Priority != models.AnnouncementHigh {
		return nil, invalidf("unknown priority %q", in.Priority)
	}

	author := session.Email
	if u, err := s.users.Get(ctx, session.UserID); err == nil && u.DisplayName != "" {
		author = u.DisplayName
	}

	a, err := create(ctx, s.store, announcementsPath, &models.Announcement{
		AuthorID:   session.UserID,
		AuthorName: author,
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Type:       in.Type,
		Priority:   in.Priority,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if a.Type == models.AnnouncementUrgent && s.mailer != nil {
		s.notify(ctx, locale, a)
	}
	return a, nil
}

func (s *AnnouncementService) notify(ctx context.Context, locale string, a *models.Announcement) {
	users, err := s.users.List(ctx, UserFilter{})
	if err != nil {
		log.Printf("Failed to load recipients for announcement %s: %v", a.ID, err)
		return
	}
	recipients := make([]string, 0, len(users))
	for _, u := range users {
		if u.UID != a.AuthorID && u.Email != "" && u.Status != models.UserStatusInactive {
			recipients = append(recipients, u.Email)
		}
	}
	if len(recipients) > 0 {
		s.mailer.SendUrgentAnnouncement(ctx, locale, a, recipients)
	}
}

func (s *AnnouncementService) Delete(ctx context.Context, session Session, id string) error {
	path := store.Join(announcementsPath, id)
	a, err := load[models.Announcement](ctx, s.store, path, ErrAnnouncementNotFound)
	if err != nil {
		return err
	}
	if !session.CanModify(a.AuthorID) {
		return ErrForbidden
	}
	return remove(ctx, s.store, path)
}
