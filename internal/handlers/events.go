package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/sse"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const maxStreamPaths = 16

type EventsHandler struct {
	store store.Store
	hub   *sse.Hub
}

func NewEventsHandler(s store.Store, hub *sse.Hub) *EventsHandler {
	return &EventsHandler{store: s, hub: hub}
}

type streamUpdate struct {
	snap store.Snapshot
	err  error
}

// Stream sends a snapshot event for every watched path, first with its
// current content and then after each change beneath it. Paths are given as
// repeated path query parameters.
func (h *EventsHandler) Stream(c *drift.Context) {
	session := middleware.GetSession(c)
	if session.UserID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	paths := c.Request.URL.Query()["path"]
	if len(paths) == 0 || len(paths) > maxStreamPaths {
		c.BadRequest("between 1 and 16 path parameters are required")
		return
	}
	for _, p := range paths {
		if err := store.Validate(p); err != nil {
			c.BadRequest("invalid path: " + p)
			return
		}
		if !canReach(session, p) {
			c.Forbidden("access to " + p + " is not allowed")
			return
		}
	}

	client := sse.NewClient(uuid.New().String(), session.UserID, paths)
	if err := h.hub.Register(client); err != nil {
		_ = c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
			Code:    "TOO_MANY_STREAMS",
			Message: err.Error(),
		})
		return
	}
	defer h.hub.Unregister(client)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	subs := make([]*store.Subscription, 0, len(paths))
	defer func() {
		cancel()
		for _, sub := range subs {
			sub.Close()
		}
	}()
	for _, p := range paths {
		sub, err := h.store.Subscribe(ctx, p)
		if err != nil {
			respondError(c, err, "subscribe to "+p)
			return
		}
		subs = append(subs, sub)
	}

	updates := make(chan streamUpdate)
	for _, sub := range subs {
		go forward(ctx, sub, updates)
	}

	sseCtx := c.SSE()
	if err := sseCtx.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	for {
		select {
		case u := <-updates:
			if u.err != nil {
				log.Printf("Event stream %s for %s failed: %v", client.ID, session.UserID, u.err)
				_ = sseCtx.SendJSON(dto.ErrorResponse{Code: "SUBSCRIPTION_FAILED", Message: "subscription ended"}, "error", "")
				return
			}
			if err := sseCtx.SendJSON(toSnapshotEvent(u.snap), "snapshot", ""); err != nil {
				return
			}
		case <-client.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// forward relays one subscription into the stream until either side ends.
func forward(ctx context.Context, sub *store.Subscription, out chan<- streamUpdate) {
	for snap := range sub.C {
		select {
		case out <- streamUpdate{snap: snap}:
		case <-ctx.Done():
			return
		}
	}
	if err := sub.Err(); err != nil {
		select {
		case out <- streamUpdate{err: err}:
		case <-ctx.Done():
		}
	}
}
