package handlers

import (
	"io"
	"strings"

	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

const maxDocumentSize = 25 << 20

type DocumentHandler struct {
	documentService DocumentServiceInterface
}

func NewDocumentHandler(documentService DocumentServiceInterface) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) List(c *drift.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list documents")
		return
	}
	_ = c.JSON(200, docs)
}

// Upload takes the file as the raw request body, with title, date and
// fileName as query parameters. A client accepting text/event-stream gets
// progress events followed by a done or error event.
func (h *DocumentHandler) Upload(c *drift.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentSize+1))
	if err != nil {
		c.BadRequest("failed to read file")
		return
	}
	if len(data) > maxDocumentSize {
		c.BadRequest("file exceeds 25 MB")
		return
	}

	upload, err := h.documentService.Upload(c.Request.Context(), services.DocumentInput{
		Title:       c.QueryParam("title"),
		Date:        c.QueryParam("date"),
		FileName:    c.QueryParam("fileName"),
		ContentType: c.GetHeader("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondError(c, err, "upload document")
		return
	}

	if !strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		doc, err := upload.Wait()
		if err != nil {
			respondError(c, err, "upload document")
			return
		}
		_ = c.JSON(201, doc)
		return
	}

	sseCtx := c.SSE()
	for p := range upload.Progress {
		if err := sseCtx.SendJSON(p, "progress", ""); err != nil {
			break
		}
	}

	doc, err := upload.Wait()
	if err != nil {
		_ = sseCtx.SendJSON(dto.ErrorResponse{Code: "UPLOAD_FAILED", Message: err.Error()}, "error", "")
		return
	}
	_ = sseCtx.SendJSON(doc, "done", "")
}

func (h *DocumentHandler) Delete(c *drift.Context) {
	if err := h.documentService.Delete(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		respondError(c, err, "delete document")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "document deleted"})
}
