package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"insufficient balance", &leave.InsufficientBalanceError{Requested: 3, Remaining: 1}, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
		{"invalid date", leave.ErrInvalidDate, http.StatusBadRequest, ""},
		{"end before start", leave.ErrEndBeforeStart, http.StatusBadRequest, ""},
		{"version conflict", fmt.Errorf("save: %w", store.ErrVersionConflict), http.StatusConflict, "VERSION_CONFLICT"},
		{"already reviewed", services.ErrLeaveAlreadyReviewed, http.StatusConflict, "ALREADY_REVIEWED"},
		{"rejected leave", services.ErrLeaveRejected, http.StatusConflict, "LEAVE_REJECTED"},
		{"forbidden", services.ErrForbidden, http.StatusForbidden, ""},
		{"invalid input", fmt.Errorf("%w: title is required", services.ErrInvalidInput), http.StatusBadRequest, "title is required"},
		{"no fields", store.ErrNoFieldsToUpdate, http.StatusBadRequest, "no fields"},
		{"invalid path", store.ErrInvalidPath, http.StatusBadRequest, "invalid path"},
		{"store not found", store.ErrNotFound, http.StatusNotFound, ""},
		{"meeting not found", services.ErrMeetingNotFound, http.StatusNotFound, "meeting not found"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "failed to do things"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := drift.New()
			app.Use(middleware.Locale())
			app.Get("/", func(c *drift.Context) { respondError(c, tt.err, "do things") })

			rec := doJSON(t, app, http.MethodGet, "/", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}
