package handlers

import (
	"strings"

	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		UID:          u.UID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoURL:     u.PhotoURL,
		Department:   u.Department,
		Role:         u.Role,
		JoinedAt:     u.JoinedAt,
		LeaveBalance: u.LeaveBalance,
		Status:       u.Status,
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "load profile")
		return
	}

	resp := toUserResponse(user)
	resp.IsOwner = h.userService.EffectiveRole(user) == models.RoleOwner
	_ = c.JSON(200, resp)
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if strings.TrimSpace(req.DisplayName) == "" {
		c.BadRequest("displayName is required")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, strings.TrimSpace(req.DisplayName))
	if err != nil {
		respondError(c, err, "update profile")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

// List is the employee directory, optionally narrowed by ?search= and
// ?department=.
func (h *UserHandler) List(c *drift.Context) {
	users, err := h.userService.List(c.Request.Context(), services.UserFilter{
		Search:     c.QueryParam("search"),
		Department: c.QueryParam("department"),
	})
	if err != nil {
		respondError(c, err, "list users")
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	_ = c.JSON(200, resp)
}

func (h *UserHandler) Stats(c *drift.Context) {
	stats, err := h.userService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "load user stats")
		return
	}
	_ = c.JSON(200, stats)
}

func (h *UserHandler) UpdateEmployment(c *drift.Context) {
	var req dto.UpdateEmploymentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.UpdateEmployment(c.Request.Context(), middleware.GetSession(c), c.Param("uid"), services.EmploymentUpdate{
		Department: req.Department,
		Role:       req.Role,
		Status:     req.Status,
	})
	if err != nil {
		respondError(c, err, "update employee")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}
