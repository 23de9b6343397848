package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"golang.org/x/sync/errgroup"
)

type AnnouncementHandler struct {
	announcementService AnnouncementServiceInterface
}

func NewAnnouncementHandler(announcementService AnnouncementServiceInterface) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// List returns announcements newest first together with the board counters.
func (h *AnnouncementHandler) List(c *drift.Context) {
	var resp dto.AnnouncementListResponse

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		list, err := h.announcementService.List(ctx)
		resp.Announcements = list
		return err
	})
	var stats *services.AnnouncementStats
	g.Go(func() error {
		var err error
		stats, err = h.announcementService.Stats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err, "list announcements")
		return
	}

	resp.Total = stats.Total
	resp.Urgent = stats.Urgent
	resp.LastWeek = stats.LastWeek
	_ = c.JSON(200, resp)
}

func (h *AnnouncementHandler) Create(c *drift.Context) {
	var req dto.CreateAnnouncementRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	a, err := h.announcementService.Create(c.Request.Context(), middleware.GetSession(c), middleware.GetLocale(c), services.AnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		Priority: req.Priority,
	})
	if err != nil {
		respondError(c, err, "post announcement")
		return
	}
	_ = c.JSON(201, a)
}

func (h *AnnouncementHandler) Delete(c *drift.Context) {
	if err := h.announcementService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		respondError(c, err, "delete announcement")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "announcement deleted"})
}
