package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type MeetingHandler struct {
	meetingService MeetingServiceInterface
}

func NewMeetingHandler(meetingService MeetingServiceInterface) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// List returns the schedule split into upcoming and past meetings.
func (h *MeetingHandler) List(c *drift.Context) {
	schedule, err := h.meetingService.Schedule(c.Request.Context())
	if err != nil {
		respondError(c, err, "list meetings")
		return
	}
	_ = c.JSON(200, schedule)
}

func (h *MeetingHandler) Create(c *drift.Context) {
	var req dto.CreateMeetingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	m, err := h.meetingService.Create(c.Request.Context(), middleware.GetSession(c), services.MeetingInput{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		Type:         req.Type,
		Participants: req.Participants,
	})
	if err != nil {
		respondError(c, err, "schedule meeting")
		return
	}
	_ = c.JSON(201, m)
}

func (h *MeetingHandler) Update(c *drift.Context) {
	var req dto.UpdateMeetingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	m, err := h.meetingService.Update(c.Request.Context(), middleware.GetSession(c), c.Param("id"), services.MeetingUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     req.Duration,
		Type:         req.Type,
		Participants: req.Participants,
		Version:      req.Version,
	})
	if err != nil {
		respondError(c, err, "update meeting")
		return
	}
	_ = c.JSON(200, m)
}

func (h *MeetingHandler) Delete(c *drift.Context) {
	if err := h.meetingService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		respondError(c, err, "cancel meeting")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "meeting cancelled"})
}
