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

const projectsPath = "projects"

var ErrProjectNotFound = errors.New("project not found")

type ProjectInput struct {
	Title       string
	Description string
	Team        []string
}

type ProjectUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Team        []string
	Version     int64
}

// BoardColumn holds the projects in one status, oldest first.
type BoardColumn struct {
	Status   string           `json:"status"`
	Projects []models.Project `json:"projects"`
}

type ProjectService struct {
	store store.Store
	now   clock
}

func NewProjectService(s store.Store) *ProjectService {
	return &ProjectService{store: s, now: time.Now}
}

// Board groups projects into one column per status, in workflow order.
// Projects with an unknown status are not shown.
func (s *ProjectService) Board(ctx context.Context) ([]BoardColumn, error) {
	projects, err := list[models.Project](ctx, s.store, projectsPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })

	board := make([]BoardColumn, len(models.ProjectStatuses))
	index := map[string]int{}
	for i, status := range models.ProjectStatuses {
		board[i] = BoardColumn{Status: status, Projects: []models.Project{}}
		index[status] = i
	}
	for _, p := range projects {
		if i, ok := index[p.Status]; ok {
			if p.Team == nil {
				p.Team = []string{}
			}
			board[i].Projects = append(board[i].Projects, p)
		}
	}
	return board, nil
}

func (s *ProjectService) Create(ctx context.Context, session Session, in ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("title is required")
	}
	now := s.now().UTC()
	return create(ctx, s.store, projectsPath, &models.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      models.ProjectPlanning,
		Team:        uniqueMembers(in.Team),
		CreatedBy:   session.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *ProjectService) Update(ctx context.Context, session Session, id string, upd ProjectUpdate) (*models.Project, error) {
	if _, err := s.modifiable(ctx, session, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, invalidf("title is required")
		}
		fields["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Status != nil {
		if !models.ValidProjectStatus(*upd.Status) {
			return nil, invalidf("unknown project status %q", *upd.Status)
		}
		fields["status"] = *upd.Status
	}
	if upd.Team != nil {
		fields["team"] = uniqueMembers(upd.Team)
	}
	if len(fields) == 0 {
		return nil, store.ErrNoFieldsToUpdate
	}
	fields["updatedAt"] = s.now().UTC()

	return patch[models.Project](ctx, s.store, store.Join(projectsPath, id), fields, upd.Version, ErrProjectNotFound)
}

// ToggleMember adds uid to the team, or removes it when already a member.
func (s *ProjectService) ToggleMember(ctx context.Context, session Session, id, uid string) (*models.Project, error) {
	p, err := s.modifiable(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if uid == "" {
		return nil, invalidf("member uid is required")
	}

	team := make([]string, 0, len(p.Team)+1)
	for _, m := range p.Team {
		if m != uid {
			team = append(team, m)
		}
	}
	if !p.HasMember(uid) {
		team = append(team, uid)
	}
	return patch[models.Project](ctx, s.store, store.Join(projectsPath, id), map[string]any{
		"team":      team,
		"updatedAt": s.now().UTC(),
	}, p.Version, ErrProjectNotFound)
}

// Complete moves a project to completed. Completing a completed project
// changes nothing.
func (s *ProjectService) Complete(ctx context.Context, session Session, id string) (*models.Project, error) {
	p, err := s.modifiable(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.ProjectCompleted {
		return p, nil
	}
	return patch[models.Project](ctx, s.store, store.Join(projectsPath, id), map[string]any{
		"status":    models.ProjectCompleted,
		"updatedAt": s.now().UTC(),
	}, p.Version, ErrProjectNotFound)
}

func (s *ProjectService) Delete(ctx context.Context, session Session, id string) error {
	if _, err := s.modifiable(ctx, session, id); err != nil {
		return err
	}
	return remove(ctx, s.store, store.Join(projectsPath, id))
}

func (s *ProjectService) modifiable(ctx context.Context, session Session, id string) (*models.Project, error) {
	p, err := load[models.Project](ctx, s.store, store.Join(projectsPath, id), ErrProjectNotFound)
	if err != nil {
		return nil, err
	}
	if !session.CanModify(p.CreatedBy) {
		return nil, ErrForbidden
	}
	return p, nil
}

func uniqueMembers(team []string) []string {
	out := make([]string, 0, len(team))
	seen := map[string]bool{}
	for _, uid := range team {
		if uid != "" && !seen[uid] {
			seen[uid] = true
			out = append(out, uid)
		}
	}
	return out
}
