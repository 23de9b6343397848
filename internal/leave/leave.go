// Package leave implements leave balance accounting: inclusive day spans and
// the used / pending / remaining summary that gates new and edited requests.
package leave

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dimitrije/officehub/internal/models"
)

// TotalAllotment is the yearly leave allotment in days. The per-user
// leaveBalance field is informational and not consulted.
const TotalAllotment = 20

const day = 24 * time.Hour

var (
	ErrInvalidDate         = errors.New("invalid leave date")
	ErrEndBeforeStart      = errors.New("leave ends before it starts")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
)

// InsufficientBalanceError reports a request longer than the remaining balance.
type InsufficientBalanceError struct {
	Requested int
	Remaining int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("cannot apply for %d day(s), only %d day(s) remaining", e.Requested, e.Remaining)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

type Summary struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Pending   int `json:"pending"`
	Remaining int `json:"remaining"`
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Span is the inclusive number of days from start to end, partial days
// rounded up.
func Span(start, end time.Time) int {
	return int(math.Ceil(float64(end.Sub(start))/float64(day))) + 1
}

// SpanOf parses the leave's dates and returns its inclusive span.
func SpanOf(l models.Leave) (int, error) {
	start, err := ParseDate(l.StartDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(l.EndDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}
	return Span(start, end), nil
}

// Summarize totals approved and pending spans against total. Rejected leaves
// and leaves with unparsable dates count for nothing.
func Summarize(total int, leaves []models.Leave) Summary {
	return SummarizeExcluding(total, leaves, "")
}

// SummarizeExcluding is Summarize without the leave whose ID is excludeID.
func SummarizeExcluding(total int, leaves []models.Leave, excludeID string) Summary {
	s := Summary{Total: total}
	for _, l := range leaves {
		if excludeID != "" && l.ID == excludeID {
			continue
		}
		span, err := SpanOf(l)
		if err != nil {
			continue
		}
		switch l.Status {
		case models.LeaveApproved:
			s.Used += span
		case models.LeavePending:
			s.Pending += span
		}
	}
	s.Remaining = total - s.Used - s.Pending
	return s
}

// Check validates a new or edited leave against the user's existing leaves.
// The candidate's own stored version, matched by ID, is left out of the
// balance so an edit is judged against what remains without it.
func Check(total int, leaves []models.Leave, candidate models.Leave) (int, error) {
	span, err := SpanOf(candidate)
	if err != nil {
		return 0, err
	}
	s := SummarizeExcluding(total, leaves, candidate.ID)
	if span > s.Remaining {
		return span, &InsufficientBalanceError{Requested: span, Remaining: s.Remaining}
	}
	return span, nil
}
