package handlers

import (
	"strings"

	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	sessionsRoot     = "sessions"
	timeTrackingRoot = "timeTracking"
)

// canReach reports whether session may see path at all. Refresh sessions are
// never exposed and a time tracker belongs to its user alone.
func canReach(s services.Session, path string) bool {
	segs := strings.Split(path, "/")
	switch segs[0] {
	case sessionsRoot:
		return false
	case timeTrackingRoot:
		return len(segs) >= 2 && s.UserID != "" && segs[1] == s.UserID
	}
	return true
}

// canWrite reports whether session may change path through the raw record
// endpoints. Besides their own time tracker, only owners write.
func canWrite(s services.Session, path string) bool {
	if !canReach(s, path) {
		return false
	}
	return s.IsOwner || strings.HasPrefix(path, timeTrackingRoot+"/")
}

func toRecordResponse(r store.Record) dto.RecordResponse {
	return dto.RecordResponse{
		Path:      r.Path,
		Key:       r.Key,
		Data:      r.Data,
		Version:   r.Version,
		UpdatedAt: r.UpdatedAt,
	}
}

func toSnapshotEvent(snap store.Snapshot) dto.SnapshotEvent {
	records := make([]dto.RecordResponse, 0, len(snap.Records))
	for _, r := range snap.Records {
		records = append(records, toRecordResponse(r))
	}
	return dto.SnapshotEvent{Path: snap.Path, Records: records}
}

// RecordHandler exposes the record store by path for tooling that works on
// raw records rather than on the typed resources.
type RecordHandler struct {
	store store.Store
}

func NewRecordHandler(s store.Store) *RecordHandler {
	return &RecordHandler{store: s}
}

// recordPath validates the path query parameter. It writes the error response
// and returns false when the request cannot go on.
func recordPath(c *drift.Context, write bool) (string, bool) {
	path := c.QueryParam("path")
	if err := store.Validate(path); err != nil {
		c.BadRequest("invalid path")
		return "", false
	}
	session := middleware.GetSession(c)
	if (write && !canWrite(session, path)) || (!write && !canReach(session, path)) {
		c.Forbidden("access to this path is not allowed")
		return "", false
	}
	return path, true
}

// Get returns the record at ?path=, or the records directly beneath it with
// ?children=true.
func (h *RecordHandler) Get(c *drift.Context) {
	path, ok := recordPath(c, false)
	if !ok {
		return
	}

	if c.QueryParam("children") == "true" {
		snap, err := h.store.List(c.Request.Context(), path)
		if err != nil {
			respondError(c, err, "list records")
			return
		}
		_ = c.JSON(200, toSnapshotEvent(snap))
		return
	}

	rec, err := h.store.Get(c.Request.Context(), path)
	if err != nil {
		respondError(c, err, "load record")
		return
	}
	_ = c.JSON(200, toRecordResponse(*rec))
}

func (h *RecordHandler) Update(c *drift.Context) {
	path, ok := recordPath(c, true)
	if !ok {
		return
	}

	var req dto.UpdateRecordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	rec, err := h.store.Update(c.Request.Context(), path, req.Fields, req.Version)
	if err != nil {
		respondError(c, err, "update record")
		return
	}
	_ = c.JSON(200, toRecordResponse(*rec))
}

// Delete removes the record and everything beneath it.
func (h *RecordHandler) Delete(c *drift.Context) {
	path, ok := recordPath(c, true)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), path); err != nil {
		respondError(c, err, "delete record")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "record deleted"})
}
