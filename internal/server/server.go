// Package server assembles the services and the HTTP router shared by the
// long running server and the Lambda entrypoint.
package server

import (
	"net/http"

	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/handlers"
	"github.com/dimitrije/officehub/internal/i18n"
	authmw "github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

type Services struct {
	JWT           *services.JWTService
	Users         *services.UserService
	Tokens        *services.TokenService
	Tasks         *services.TaskService
	Leaves        *services.LeaveService
	Meetings      *services.MeetingService
	Announcements *services.AnnouncementService
	Projects      *services.ProjectService
	Documents     *services.DocumentService
	TimeTracking  *services.TimeTrackingService
	Dashboard     *services.DashboardService
	Email         *services.EmailService
}

func NewServices(cfg *config.Config, b *Backend) *Services {
	email := services.NewEmailService(cfg.Mail)
	users := services.NewUserService(b.Store, cfg.OwnerEmails)
	tasks := services.NewTaskService(b.Store)
	leaves := services.NewLeaveService(b.Store, users, email)
	meetings := services.NewMeetingService(b.Store, cfg.Location)
	announcements := services.NewAnnouncementService(b.Store, users, email)

	return &Services{
		JWT:           services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry),
		Users:         users,
		Tokens:        services.NewTokenService(b.Store),
		Tasks:         tasks,
		Leaves:        leaves,
		Meetings:      meetings,
		Announcements: announcements,
		Projects:      services.NewProjectService(b.Store),
		Documents:     services.NewDocumentService(b.Store, b.Blobs),
		TimeTracking:  services.NewTimeTrackingService(b.Store),
		Dashboard:     services.NewDashboardService(users, tasks, leaves, meetings, announcements),
		Email:         email,
	}
}

// NewRouter builds the /api/v1 routes. streams tracks the open event
// streams; its Run loop must be running.
func NewRouter(cfg *config.Config, b *Backend, svc *Services, streams *sse.Hub) http.Handler {
	i18n.Init(cfg.DefaultLocale)

	authHandler := handlers.NewAuthHandler(cfg, svc.Users, svc.Tokens, svc.JWT).WithStreams(streams)
	for name, v := range b.Verifiers {
		authHandler.WithVerifier(name, v)
	}
	userHandler := handlers.NewUserHandler(svc.Users)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	leaveHandler := handlers.NewLeaveHandler(svc.Leaves)
	meetingHandler := handlers.NewMeetingHandler(svc.Meetings)
	announcementHandler := handlers.NewAnnouncementHandler(svc.Announcements)
	projectHandler := handlers.NewProjectHandler(svc.Projects)
	documentHandler := handlers.NewDocumentHandler(svc.Documents)
	timeHandler := handlers.NewTimeTrackingHandler(svc.TimeTracking)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	recordHandler := handlers.NewRecordHandler(b.Store)
	eventsHandler := handlers.NewEventsHandler(b.Store, streams)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.Locale())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/firebase", authHandler.SignInWithIDToken("firebase"))
	auth.Post("/google/idtoken", authHandler.SignInWithIDToken("google"))
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(svc.JWT))

	owner := protected.Group("")
	owner.Use(authmw.RequireOwner())

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users", userHandler.List)
	protected.Get("/users/stats", userHandler.Stats)
	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	owner.Patch("/users/:uid", userHandler.UpdateEmployment)

	protected.Get("/tasks", taskHandler.List)
	protected.Get("/tasks/stats", taskHandler.Stats)
	protected.Post("/tasks", taskHandler.Create)
	protected.Patch("/tasks/:id", taskHandler.Update)
	protected.Post("/tasks/:id/toggle", taskHandler.Toggle)
	protected.Delete("/tasks/:id", taskHandler.Delete)

	protected.Get("/leaves", leaveHandler.List)
	protected.Get("/leaves/balance", leaveHandler.Balance)
	protected.Post("/leaves", leaveHandler.Apply)
	protected.Patch("/leaves/:id", leaveHandler.Edit)
	owner.Post("/leaves/:id/review", leaveHandler.Review)
	protected.Delete("/leaves/:id", leaveHandler.Delete)

	protected.Get("/meetings", meetingHandler.List)
	protected.Post("/meetings", meetingHandler.Create)
	protected.Patch("/meetings/:id", meetingHandler.Update)
	protected.Delete("/meetings/:id", meetingHandler.Delete)

	protected.Get("/announcements", announcementHandler.List)
	protected.Post("/announcements", announcementHandler.Create)
	protected.Delete("/announcements/:id", announcementHandler.Delete)

	protected.Get("/projects", projectHandler.Board)
	protected.Post("/projects", projectHandler.Create)
	protected.Patch("/projects/:id", projectHandler.Update)
	protected.Post("/projects/:id/members/:uid", projectHandler.ToggleMember)
	protected.Post("/projects/:id/complete", projectHandler.Complete)
	protected.Delete("/projects/:id", projectHandler.Delete)

	protected.Get("/documents", documentHandler.List)
	protected.Post("/documents", documentHandler.Upload)
	protected.Delete("/documents/:id", documentHandler.Delete)

	protected.Get("/time/tasks", timeHandler.Tasks)
	protected.Post("/time/tasks", timeHandler.AddTask)
	protected.Post("/time/tasks/:id/toggle", timeHandler.ToggleTask)
	protected.Delete("/time/tasks/:id", timeHandler.DeleteTask)
	protected.Get("/time/logs", timeHandler.Logs)
	protected.Post("/time/logs", timeHandler.AddLog)
	protected.Post("/time/logs/:id/toggle", timeHandler.ToggleLog)
	protected.Delete("/time/logs/:id", timeHandler.DeleteLog)

	protected.Get("/dashboard", dashboardHandler.Overview)
	owner.Get("/dashboard/owner", dashboardHandler.Owner)

	protected.Get("/records", recordHandler.Get)
	protected.Patch("/records", recordHandler.Update)
	owner.Delete("/records", recordHandler.Delete)

	protected.Get("/events", eventsHandler.Stream)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	return app
}
