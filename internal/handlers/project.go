package handlers

import (
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projectService ProjectServiceInterface
}

func NewProjectHandler(projectService ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Board returns the projects grouped into status columns.
func (h *ProjectHandler) Board(c *drift.Context) {
	board, err := h.projectService.Board(c.Request.Context())
	if err != nil {
		respondError(c, err, "load project board")
		return
	}
	_ = c.JSON(200, board)
}

func (h *ProjectHandler) Create(c *drift.Context) {
	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), middleware.GetSession(c), services.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Team:        req.Team,
	})
	if err != nil {
		respondError(c, err, "create project")
		return
	}
	_ = c.JSON(201, p)
}

func (h *ProjectHandler) Update(c *drift.Context) {
	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	p, err := h.projectService.Update(c.Request.Context(), middleware.GetSession(c), c.Param("id"), services.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Team:        req.Team,
		Version:     req.Version,
	})
	if err != nil {
		respondError(c, err, "update project")
		return
	}
	_ = c.JSON(200, p)
}

// ToggleMember adds uid to the project team, or removes it when already there.
func (h *ProjectHandler) ToggleMember(c *drift.Context) {
	p, err := h.projectService.ToggleMember(c.Request.Context(), middleware.GetSession(c), c.Param("id"), c.Param("uid"))
	if err != nil {
		respondError(c, err, "update project team")
		return
	}
	_ = c.JSON(200, p)
}

func (h *ProjectHandler) Complete(c *drift.Context) {
	p, err := h.projectService.Complete(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "complete project")
		return
	}
	_ = c.JSON(200, p)
}

func (h *ProjectHandler) Delete(c *drift.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		respondError(c, err, "delete project")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "project deleted"})
}
