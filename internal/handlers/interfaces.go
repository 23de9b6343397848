package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	SignIn(ctx context.Context, id *models.Identity) (*models.User, error)
	Get(ctx context.Context, uid string) (*models.User, error)
	List(ctx context.Context, filter services.UserFilter) ([]models.User, error)
	Stats(ctx context.Context) (*services.UserStats, error)
	UpdateProfile(ctx context.Context, uid, displayName string) (*models.User, error)
	UpdateEmployment(ctx context.Context, session services.Session, uid string, upd services.EmploymentUpdate) (*models.User, error)
	EffectiveRole(u *models.User) string
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (string, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID string) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(tokenString string) (string, error)
	RefreshExpiry() time.Duration
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	List(ctx context.Context, session services.Session, filter services.TaskFilter) ([]models.Task, error)
	Stats(ctx context.Context, session services.Session) (*services.TaskStats, error)
	Create(ctx context.Context, session services.Session, in services.TaskInput) (*models.Task, error)
	Update(ctx context.Context, session services.Session, id string, upd services.TaskUpdate) (*models.Task, error)
	ToggleStatus(ctx context.Context, session services.Session, id string, expectedVersion int64) (*models.Task, error)
	Delete(ctx context.Context, session services.Session, id string) error
}

// LeaveServiceInterface defines the methods used by handlers from LeaveService
type LeaveServiceInterface interface {
	ListAll(ctx context.Context) ([]models.Leave, error)
	List(ctx context.Context, uid string) ([]models.Leave, error)
	Balance(ctx context.Context, uid string) (leave.Summary, error)
	Apply(ctx context.Context, session services.Session, in services.LeaveInput) (*models.Leave, error)
	Edit(ctx context.Context, session services.Session, id string, in services.LeaveInput, expectedVersion int64) (*models.Leave, error)
	Review(ctx context.Context, session services.Session, locale, id, status string) (*models.Leave, error)
	Delete(ctx context.Context, session services.Session, id string) error
}

// MeetingServiceInterface defines the methods used by handlers from MeetingService
type MeetingServiceInterface interface {
	Schedule(ctx context.Context) (*services.Schedule, error)
	Create(ctx context.Context, session services.Session, in services.MeetingInput) (*models.Meeting, error)
	Update(ctx context.Context, session services.Session, id string, upd services.MeetingUpdate) (*models.Meeting, error)
	Delete(ctx context.Context, session services.Session, id string) error
}

// AnnouncementServiceInterface defines the methods used by handlers from AnnouncementService
type AnnouncementServiceInterface interface {
	List(ctx context.Context) ([]models.Announcement, error)
	Stats(ctx context.Context) (*services.AnnouncementStats, error)
	Create(ctx context.Context, session services.Session, locale string, in services.AnnouncementInput) (*models.Announcement, error)
	Delete(ctx context.Context, session services.Session, id string) error
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Board(ctx context.Context) ([]services.BoardColumn, error)
	Create(ctx context.Context, session services.Session, in services.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, session services.Session, id string, upd services.ProjectUpdate) (*models.Project, error)
	ToggleMember(ctx context.Context, session services.Session, id, uid string) (*models.Project, error)
	Complete(ctx context.Context, session services.Session, id string) (*models.Project, error)
	Delete(ctx context.Context, session services.Session, id string) error
}

// DocumentServiceInterface defines the methods used by handlers from DocumentService
type DocumentServiceInterface interface {
	List(ctx context.Context) ([]models.Document, error)
	Upload(ctx context.Context, in services.DocumentInput) (*services.DocumentUpload, error)
	Delete(ctx context.Context, session services.Session, id string) error
}

// TimeTrackingServiceInterface defines the methods used by handlers from TimeTrackingService
type TimeTrackingServiceInterface interface {
	Tasks(ctx context.Context, uid string) ([]models.TimeTask, error)
	AddTask(ctx context.Context, uid, name string) (*models.TimeTask, error)
	ToggleTask(ctx context.Context, uid, id string) (*models.TimeTask, error)
	DeleteTask(ctx context.Context, uid, id string) error
	Logs(ctx context.Context, uid string) ([]models.TimeLog, error)
	AddLog(ctx context.Context, uid, taskID string, hours float64) (*models.TimeLog, error)
	ToggleLog(ctx context.Context, uid, id string) (*models.TimeLog, error)
	DeleteLog(ctx context.Context, uid, id string) error
}

// DashboardServiceInterface defines the methods used by handlers from DashboardService
type DashboardServiceInterface interface {
	Overview(ctx context.Context, session services.Session) (*services.Overview, error)
	Owner(ctx context.Context, session services.Session) (*services.OwnerOverview, error)
}

var (
	_ UserServiceInterface         = (*services.UserService)(nil)
	_ TokenServiceInterface        = (*services.TokenService)(nil)
	_ JWTServiceInterface          = (*services.JWTService)(nil)
	_ TaskServiceInterface         = (*services.TaskService)(nil)
	_ LeaveServiceInterface        = (*services.LeaveService)(nil)
	_ MeetingServiceInterface      = (*services.MeetingService)(nil)
	_ AnnouncementServiceInterface = (*services.AnnouncementService)(nil)
	_ ProjectServiceInterface      = (*services.ProjectService)(nil)
	_ DocumentServiceInterface     = (*services.DocumentService)(nil)
	_ TimeTrackingServiceInterface = (*services.TimeTrackingService)(nil)
	_ DashboardServiceInterface    = (*services.DashboardService)(nil)
)
