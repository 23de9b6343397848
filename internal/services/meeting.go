package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

const (
	meetingsPath           = "meetings"
	defaultMeetingDuration = 30
)

var ErrMeetingNotFound = errors.New("meeting not found")

type MeetingInput struct {
	Title        string
	Description  string
	Date         string
	Time         string
	Duration     int
	Type         string
	Participants []string
}

type MeetingUpdate struct {
	Title        *string
	Description  *string
	Date         *string
	Time         *string
	Duration     *int
	Type         *string
	Participants []string
	Version      int64
}

// Schedule splits meetings around a point in time.
type Schedule struct {
	Upcoming []models.Meeting `json:"upcoming"`
	Past     []models.Meeting `json:"past"`
}

type MeetingService struct {
	store store.Store
	loc   *time.Location
	now   clock
}

// NewMeetingService interprets meeting dates and times as wall clock in loc.
func NewMeetingService(s store.Store, loc *time.Location) *MeetingService {
	if loc == nil {
		loc = time.Local
	}
	return &MeetingService{store: s, loc: loc, now: time.Now}
}

// List returns every meeting ordered by start.
func (s *MeetingService) List(ctx context.Context) ([]models.Meeting, error) {
	meetings, err := list[models.Meeting](ctx, s.store, meetingsPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Date+"T"+meetings[i].Time < meetings[j].Date+"T"+meetings[j].Time
	})
	return meetings, nil
}

func (s *MeetingService) Schedule(ctx context.Context) (*Schedule, error) {
	meetings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.Split(meetings, s.now()), nil
}

// Split puts meetings starting at or after now in Upcoming, soonest first,
// and the rest in Past, most recent first. Meetings with an unreadable date
// or time are left out.
func (s *MeetingService) Split(meetings []models.Meeting, now time.Time) *Schedule {
	type timed struct {
		m     models.Meeting
		start time.Time
	}
	var upcoming, past []timed
	for _, m := range meetings {
		start, err := m.StartsAt(s.loc)
		if err != nil {
			continue
		}
		if start.Before(now) {
			past = append(past, timed{m, start})
		} else {
			upcoming = append(upcoming, timed{m, start})
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].start.Before(upcoming[j].start) })
	sort.SliceStable(past, func(i, j int) bool { return past[i].start.After(past[j].start) })

	out := &Schedule{Upcoming: make([]models.Meeting, 0, len(upcoming)), Past: make([]models.Meeting, 0, len(past))}
	for _, t := range upcoming {
		out.Upcoming = append(out.Upcoming, t.m)
	}
	for _, t := range past {
		out.Past = append(out.Past, t.m)
	}
	return out
}

func (s *MeetingService) Create(ctx context.Context, session Session, in MeetingInput) (*models.Meeting, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("title is required")
	}
	if in.Duration == 0 {
		in.Duration = defaultMeetingDuration
	}
	if in.Type == "" {
		in.Type = models.MeetingInPerson
	}
	if in.Participants == nil {
		in.Participants = []string{}
	}

	now := s.now().UTC()
	m := &models.Meeting{
		UserID:       session.UserID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Date:         in.Date,
		Time:         in.Time,
		Duration:     in.Duration,
		Type:         in.Type,
		Participants: in.Participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.validate(m); err != nil {
		return nil, err
	}
	return create(ctx, s.store, meetingsPath, m)
}

func (s *MeetingService) Update(ctx context.Context, session Session, id string, upd MeetingUpdate) (*models.Meeting, error) {
	m, err := s.modifiable(ctx, session, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if upd.Title != nil {
		m.Title = strings.TrimSpace(*upd.Title)
		fields["title"] = m.Title
	}
	if upd.Description != nil {
		m.Description = *upd.Description
		fields["description"] = m.Description
	}
	if upd.Date != nil {
		m.Date = *upd.Date
		fields["date"] = m.Date
	}
	if upd.Time != nil {
		m.Time = *upd.Time
		fields["time"] = m.Time
	}
	if upd.Duration != nil {
		m.Duration = *upd.Duration
		fields["duration"] = m.Duration
	}
	if upd.Type != nil {
		m.Type = *upd.Type
		fields["type"] = m.Type
	}
	if upd.Participants != nil {
		m.Participants = upd.Participants
		fields["participants"] = m.Participants
	}
	if len(fields) == 0 {
		return nil, store.ErrNoFieldsToUpdate
	}
	if err := s.validate(m); err != nil {
		return nil, err
	}
	fields["updatedAt"] = s.now().UTC()

	return patch[models.Meeting](ctx, s.store, store.Join(meetingsPath, id), fields, upd.Version, ErrMeetingNotFound)
}

func (s *MeetingService) Delete(ctx context.Context, session Session, id string) error {
	if _, err := s.modifiable(ctx, session, id); err != nil {
		return err
	}
	return remove(ctx, s.store, store.Join(meetingsPath, id))
}

func (s *MeetingService) modifiable(ctx context.Context, session Session, id string) (*models.Meeting, error) {
	m, err := load[models.Meeting](ctx, s.store, store.Join(meetingsPath, id), ErrMeetingNotFound)
	if err != nil {
		return nil, err
	}
	if !session.CanModify(m.UserID) {
		return nil, ErrForbidden
	}
	return m, nil
}

func (s *MeetingService) validate(m *models.Meeting) error {
	if m.Title == "" {
		return invalidf("title is required")
	}
	if _, err := m.StartsAt(s.loc); err != nil {
		return invalidf("date and time must be YYYY-MM-DD and HH:MM")
	}
	if m.Duration <= 0 {
		return invalidf("duration must be positive")
	}
	if m.Type != models.MeetingInPerson && m.Type != models.MeetingVideo {
		return invalidf("unknown meeting type %q", m.Type)
	}
	return nil
}
