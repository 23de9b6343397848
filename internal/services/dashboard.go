package services

import (
	"context"
	"sort"
	"strings"

	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/models"
	"golang.org/x/sync/errgroup"
)

const dashboardListSize = 5

type Overview struct {
	RecentTasks      []models.Task    `json:"recentTasks"`
	TotalTasks       int              `json:"totalTasks"`
	CompletedTasks   int              `json:"completedTasks"`
	UpcomingMeetings []models.Meeting `json:"upcomingMeetings"`
	LeaveBalance     leave.Summary    `json:"leaveBalance"`
}

type EmployeeLeave struct {
	UID         string        `json:"uid"`
	DisplayName string        `json:"displayName"`
	Department  string        `json:"department"`
	Summary     leave.Summary `json:"summary"`
}

type OwnerOverview struct {
	Employees        int             `json:"employees"`
	ActiveEmployees  int             `json:"activeEmployees"`
	Tasks            TaskStats       `json:"tasks"`
	Meetings         int             `json:"meetings"`
	UpcomingMeetings int             `json:"upcomingMeetings"`
	Announcements    int             `json:"announcements"`
	PendingLeaveDays int             `json:"pendingLeaveDays"`
	PendingRequests  []models.Leave  `json:"pendingRequests"`
	Leave            []EmployeeLeave `json:"leave"`
}

// DashboardService aggregates the other services. Independent reads run
// concurrently.
type DashboardService struct {
	users         *UserService
	tasks         *TaskService
	leaves        *LeaveService
	meetings      *MeetingService
	announcements *AnnouncementService
}

func NewDashboardService(users *UserService, tasks *TaskService, leaves *LeaveService, meetings *MeetingService, announcements *AnnouncementService) *DashboardService {
	return &DashboardService{users: users, tasks: tasks, leaves: leaves, meetings: meetings, announcements: announcements}
}

// Overview shows the caller's recent tasks, or everyone's for an owner, the
// next meetings and the caller's leave balance.
func (s *DashboardService) Overview(ctx context.Context, session Session) (*Overview, error) {
	var (
		tasks    []models.Task
		schedule *Schedule
		balance  leave.Summary
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if session.IsOwner {
			tasks, err = s.tasks.ListAll(ctx)
		} else {
			tasks, err = s.tasks.List(ctx, session, TaskFilter{})
		}
		return err
	})
	g.Go(func() error {
		var err error
		schedule, err = s.meetings.Schedule(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.leaves.Balance(ctx, session.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := countTasks(tasks)
	return &Overview{
		RecentTasks:      tasks[:min(dashboardListSize, len(tasks))],
		TotalTasks:       stats.Total,
		CompletedTasks:   stats.Completed,
		UpcomingMeetings: schedule.Upcoming[:min(dashboardListSize, len(schedule.Upcoming))],
		LeaveBalance:     balance,
	}, nil
}

// Owner summarises the whole office, including every employee's leave.
func (s *DashboardService) Owner(ctx context.Context, session Session) (*OwnerOverview, error) {
	if !session.IsOwner {
		return nil, ErrForbidden
	}

	var (
		users         []models.User
		tasks         []models.Task
		leaves        []models.Leave
		schedule      *Schedule
		announcements []models.Announcement
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.all(ctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.ListAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		leaves, err = s.leaves.ListAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		schedule, err = s.meetings.Schedule(ctx)
		return err
	})
	g.Go(func() (err error) {
		announcements, err = s.announcements.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &OwnerOverview{
		Employees:        len(users),
		Tasks:            *countTasks(tasks),
		Meetings:         len(schedule.Upcoming) + len(schedule.Past),
		UpcomingMeetings: len(schedule.Upcoming),
		Announcements:    len(announcements),
		PendingRequests:  make([]models.Leave, 0),
		Leave:            make([]EmployeeLeave, 0, len(users)),
	}
	for _, l := range leaves {
		if l.Status != models.LeavePending {
			continue
		}
		out.PendingRequests = append(out.PendingRequests, l)
		if span, err := leave.SpanOf(l); err == nil {
			out.PendingLeaveDays += span
		}
	}

	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].DisplayName) < strings.ToLower(users[j].DisplayName)
	})
	for _, u := range users {
		if u.Status == models.UserStatusActive {
			out.ActiveEmployees++
		}
		out.Leave = append(out.Leave, EmployeeLeave{
			UID:         u.UID,
			DisplayName: u.DisplayName,
			Department:  u.Department,
			Summary:     leave.Summarize(leave.TotalAllotment, leavesOf(leaves, u.UID)),
		})
	}
	return out, nil
}
