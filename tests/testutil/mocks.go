package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/stretchr/testify/mock"
)

// ret returns the first mocked value as T, or the zero value when the
// expectation returned nil.
func ret[T any](args mock.Arguments) T {
	v, _ := args.Get(0).(T)
	return v
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SignIn(ctx context.Context, id *models.Identity) (*models.User, error) {
	args := m.Called(ctx, id)
	return ret[*models.User](args), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	return ret[*models.User](args), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, filter services.UserFilter) ([]models.User, error) {
	args := m.Called(ctx, filter)
	return ret[[]models.User](args), args.Error(1)
}

func (m *MockUserService) Stats(ctx context.Context) (*services.UserStats, error) {
	args := m.Called(ctx)
	return ret[*services.UserStats](args), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, uid, displayName string) (*models.User, error) {
	args := m.Called(ctx, uid, displayName)
	return ret[*models.User](args), args.Error(1)
}

func (m *MockUserService) UpdateEmployment(ctx context.Context, session services.Session, uid string, upd services.EmploymentUpdate) (*models.User, error) {
	args := m.Called(ctx, session, uid, upd)
	return ret[*models.User](args), args.Error(1)
}

func (m *MockUserService) EffectiveRole(u *models.User) string {
	return m.Called(u).String(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(ctx, tokenHash)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID, email, role string) (*services.TokenPair, error) {
	args := m.Called(userID, email, role)
	return ret[*services.TokenPair](args), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockTaskService mocks the TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, session services.Session, filter services.TaskFilter) ([]models.Task, error) {
	args := m.Called(ctx, session, filter)
	return ret[[]models.Task](args), args.Error(1)
}

func (m *MockTaskService) Stats(ctx context.Context, session services.Session) (*services.TaskStats, error) {
	args := m.Called(ctx, session)
	return ret[*services.TaskStats](args), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, session services.Session, in services.TaskInput) (*models.Task, error) {
	args := m.Called(ctx, session, in)
	return ret[*models.Task](args), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, session services.Session, id string, upd services.TaskUpdate) (*models.Task, error) {
	args := m.Called(ctx, session, id, upd)
	return ret[*models.Task](args), args.Error(1)
}

func (m *MockTaskService) ToggleStatus(ctx context.Context, session services.Session, id string, expectedVersion int64) (*models.Task, error) {
	args := m.Called(ctx, session, id, expectedVersion)
	return ret[*models.Task](args), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, session services.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockLeaveService mocks the LeaveService
type MockLeaveService struct {
	mock.Mock
}

func (m *MockLeaveService) ListAll(ctx context.Context) ([]models.Leave, error) {
	args := m.Called(ctx)
	return ret[[]models.Leave](args), args.Error(1)
}

func (m *MockLeaveService) List(ctx context.Context, uid string) ([]models.Leave, error) {
	args := m.Called(ctx, uid)
	return ret[[]models.Leave](args), args.Error(1)
}

func (m *MockLeaveService) Balance(ctx context.Context, uid string) (leave.Summary, error) {
	args := m.Called(ctx, uid)
	return ret[leave.Summary](args), args.Error(1)
}

func (m *MockLeaveService) Apply(ctx context.Context, session services.Session, in services.LeaveInput) (*models.Leave, error) {
	args := m.Called(ctx, session, in)
	return ret[*models.Leave](args), args.Error(1)
}

func (m *MockLeaveService) Edit(ctx context.Context, session services.Session, id string, in services.LeaveInput, expectedVersion int64) (*models.Leave, error) {
	args := m.Called(ctx, session, id, in, expectedVersion)
	return ret[*models.Leave](args), args.Error(1)
}

func (m *MockLeaveService) Review(ctx context.Context, session services.Session, locale, id, status string) (*models.Leave, error) {
	args := m.Called(ctx, session, locale, id, status)
	return ret[*models.Leave](args), args.Error(1)
}

func (m *MockLeaveService) Delete(ctx context.Context, session services.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockMeetingService mocks the MeetingService
type MockMeetingService struct {
	mock.Mock
}

func (m *MockMeetingService) Schedule(ctx context.Context) (*services.Schedule, error) {
	args := m.Called(ctx)
	return ret[*services.Schedule](args), args.Error(1)
}

func (m *MockMeetingService) Create(ctx context.Context, session services.Session, in services.MeetingInput) (*models.Meeting, error) {
	args := m.Called(ctx, session, in)
	return ret[*models.Meeting](args), args.Error(1)
}

func (m *MockMeetingService) Update(ctx context.Context, session services.Session, id string, upd services.MeetingUpdate) (*models.Meeting, error) {
	args := m.Called(ctx, session, id, upd)
	return ret[*models.Meeting](args), args.Error(1)
}

func (m *MockMeetingService) Delete(ctx context.Context, session services.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockAnnouncementService mocks the AnnouncementService
type MockAnnouncementService struct {
	mock.Mock
}

func (m *MockAnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	args := m.Called(ctx)
	return ret[[]models.Announcement](args), args.Error(1)
}

func (m *MockAnnouncementService) Stats(ctx context.Context) (*services.AnnouncementStats, error) {
	args := m.Called(ctx)
	return ret[*services.AnnouncementStats](args), args.Error(1)
}

func (m *MockAnnouncementService) Create(ctx context.Context, session services.Session, locale string, in services.AnnouncementInput) (*models.Announcement, error) {
	args := m.Called(ctx, session, locale, in)
	return ret[*models.Announcement](args), args.Error(1)
}

func (m *MockAnnouncementService) Delete(ctx context.Context, session services.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Board(ctx context.Context) ([]services.BoardColumn, error) {
	args := m.Called(ctx)
	return ret[[]services.BoardColumn](args), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, session services.Session, in services.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, session, in)
	return ret[*models.Project](args), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, session services.Session, id string, upd services.ProjectUpdate) (*models.Project, error) {
	args := m.Called(ctx, session, id, upd)
	return ret[*models.Project](args), args.Error(1)
}

func (m *MockProjectService) ToggleMember(ctx context.Context, session services.Session, id, uid string) (*models.Project, error) {
	args := m.Called(ctx, session, id, uid)
	return ret[*models.Project](args), args.Error(1)
}

func (m *MockProjectService) Complete(ctx context.Context, session services.Session, id string) (*models.Project, error) {
	args := m.Called(ctx, session, id)
	return ret[*models.Project](args), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, session services.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockDocumentService mocks the DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context) ([]models.Document, error) {
	args := m.Called(ctx)
	return ret[[]models.Document](args), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, in services.DocumentInput) (*services.DocumentUpload, error) {
	args := m.Called(ctx, in)
	return ret[*services.DocumentUpload](args), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, session services.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockTimeTrackingService mocks the TimeTrackingService
type MockTimeTrackingService struct {
	mock.Mock
}

func (m *MockTimeTrackingService) Tasks(ctx context.Context, uid string) ([]models.TimeTask, error) {
	args := m.Called(ctx, uid)
	return ret[[]models.TimeTask](args), args.Error(1)
}

func (m *MockTimeTrackingService) AddTask(ctx context.Context, uid, name string) (*models.TimeTask, error) {
	args := m.Called(ctx, uid, name)
	return ret[*models.TimeTask](args), args.Error(1)
}

func (m *MockTimeTrackingService) ToggleTask(ctx context.Context, uid, id string) (*models.TimeTask, error) {
	args := m.Called(ctx, uid, id)
	return ret[*models.TimeTask](args), args.Error(1)
}

func (m *MockTimeTrackingService) DeleteTask(ctx context.Context, uid, id string) error {
	args := m.Called(ctx, uid, id)
	return args.Error(0)
}

func (m *MockTimeTrackingService) Logs(ctx context.Context, uid string) ([]models.TimeLog, error) {
	args := m.Called(ctx, uid)
	return ret[[]models.TimeLog](args), args.Error(1)
}

func (m *MockTimeTrackingService) AddLog(ctx context.Context, uid, taskID string, hours float64) (*models.TimeLog, error) {
	args := m.Called(ctx, uid, taskID, hours)
	return ret[*models.TimeLog](args), args.Error(1)
}

func (m *MockTimeTrackingService) ToggleLog(ctx context.Context, uid, id string) (*models.TimeLog, error) {
	args := m.Called(ctx, uid, id)
	return ret[*models.TimeLog](args), args.Error(1)
}

func (m *MockTimeTrackingService) DeleteLog(ctx context.Context, uid, id string) error {
	args := m.Called(ctx, uid, id)
	return args.Error(0)
}

// MockDashboardService mocks the DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Overview(ctx context.Context, session services.Session) (*services.Overview, error) {
	args := m.Called(ctx, session)
	return ret[*services.Overview](args), args.Error(1)
}

func (m *MockDashboardService) Owner(ctx context.Context, session services.Session) (*services.OwnerOverview, error) {
	args := m.Called(ctx, session)
	return ret[*services.OwnerOverview](args), args.Error(1)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*models.Identity, error) {
	args := m.Called(ctx, code)
	return ret[*models.Identity](args), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockVerifier mocks an ID token verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	return ret[*models.Identity](args), args.Error(1)
}
