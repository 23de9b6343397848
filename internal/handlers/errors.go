package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dimitrije/officehub/internal/i18n"
	"github.com/dimitrije/officehub/internal/leave"
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/store"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

var notFoundErrors = []error{
	store.ErrNotFound,
	services.ErrUserNotFound,
	services.ErrTaskNotFound,
	services.ErrLeaveNotFound,
	services.ErrMeetingNotFound,
	services.ErrAnnouncementNotFound,
	services.ErrProjectNotFound,
	services.ErrDocumentNotFound,
	services.ErrTimeTaskNotFound,
	services.ErrTimeLogNotFound,
}

// respondError maps a service error onto the HTTP response. what names the
// failed operation in the 500 message.
func respondError(c *drift.Context, err error, what string) {
	locale := middleware.GetLocale(c)

	var balanceErr *leave.InsufficientBalanceError
	switch {
	case errors.As(err, &balanceErr):
		_ = c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: "INSUFFICIENT_BALANCE",
			Message: i18n.T(locale, "leave.insufficient_balance", map[string]any{
				"Requested": balanceErr.Requested,
				"Remaining": balanceErr.Remaining,
			}),
			Requested: balanceErr.Requested,
			Remaining: balanceErr.Remaining,
		})
	case errors.Is(err, leave.ErrInvalidDate), errors.Is(err, leave.ErrEndBeforeStart):
		c.BadRequest(i18n.T(locale, "leave.invalid_dates"))
	case errors.Is(err, store.ErrVersionConflict):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{
			Code:    "VERSION_CONFLICT",
			Message: i18n.T(locale, "errors.version_conflict"),
		})
	case errors.Is(err, services.ErrLeaveAlreadyReviewed):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{
			Code:    "ALREADY_REVIEWED",
			Message: i18n.T(locale, "leave.already_reviewed"),
		})
	case errors.Is(err, services.ErrLeaveRejected):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{
			Code:    "LEAVE_REJECTED",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(i18n.T(locale, "errors.forbidden"))
	case errors.Is(err, services.ErrInvalidInput):
		c.BadRequest(err.Error())
	case errors.Is(err, store.ErrNoFieldsToUpdate):
		c.BadRequest("no fields to update")
	case errors.Is(err, store.ErrInvalidPath):
		c.BadRequest("invalid path")
	case isNotFound(err):
		c.NotFound(err.Error())
	default:
		log.Printf("Failed to %s: %v", what, err)
		c.InternalServerError("failed to " + what)
	}
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
