package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type LeaveHandler struct {
	leaveService LeaveServiceInterface
}

func NewLeaveHandler(leaveService LeaveServiceInterface) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// List returns the caller's leaves. Owners get every employee's with ?all=true.
func (h *LeaveHandler) List(c *drift.Context) {
	session := middleware.GetSession(c)
	ctx := c.Request.Context()

	var (
		leaves []models.Leave
		err    error
	)
	if c.QueryParam("all") == "true" {
		if !session.IsOwner {
			c.Forbidden("owner access required")
			return
		}
		leaves, err = h.leaveService.ListAll(ctx)
	} else {
		leaves, err = h.leaveService.List(ctx, session.UserID)
	}
	if err != nil {
		respondError(c, err, "list leaves")
		return
	}
	_ = c.JSON(200, leaves)
}

func (h *LeaveHandler) Balance(c *drift.Context) {
	uid := middleware.GetUserID(c)
	if other := c.QueryParam("uid"); other != "" && other != uid {
		if !middleware.GetSession(c).IsOwner {
			c.Forbidden("owner access required")
			return
		}
		uid = other
	}

	summary, err := h.leaveService.Balance(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "load leave balance")
		return
	}
	_ = c.JSON(200, summary)
}

func (h *LeaveHandler) Apply(c *drift.Context) {
	var req dto.LeaveRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	l, err := h.leaveService.Apply(c.Request.Context(), middleware.GetSession(c), leaveInput(req))
	if err != nil {
		respondError(c, err, "submit leave request")
		return
	}
	_ = c.JSON(201, l)
}

func (h *LeaveHandler) Edit(c *drift.Context) {
	var req dto.LeaveRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	l, err := h.leaveService.Edit(c.Request.Context(), middleware.GetSession(c), c.Param("id"), leaveInput(req), req.Version)
	if err != nil {
		respondError(c, err, "update leave request")
		return
	}
	_ = c.JSON(200, l)
}

// Review approves or rejects a pending leave. The employee is notified in the
// reviewer's language.
func (h *LeaveHandler) Review(c *drift.Context) {
	var req dto.ReviewLeaveRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	l, err := h.leaveService.Review(c.Request.Context(), middleware.GetSession(c), middleware.GetLocale(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "review leave request")
		return
	}
	_ = c.JSON(200, l)
}

func (h *LeaveHandler) Delete(c *drift.Context) {
	if err := h.leaveService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		respondError(c, err, "delete leave request")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "leave request deleted"})
}

func leaveInput(req dto.LeaveRequest) services.LeaveInput {
	return services.LeaveInput{
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}
}
