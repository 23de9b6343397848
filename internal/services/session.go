package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

var (
	ErrForbidden    = errors.New("not allowed")
	ErrInvalidInput = errors.New("invalid input")
)

// Session is the authenticated caller of a request.
type Session struct {
	UserID  string
	Email   string
	Role    string
	IsOwner bool
}

func NewSession(userID, email, role string) Session {
	return Session{UserID: userID, Email: email, Role: role, IsOwner: role == models.RoleOwner}
}

// CanModify reports whether the caller may change a record created by ownerID.
func (s Session) CanModify(ownerID string) bool {
	return s.IsOwner || (s.UserID != "" && s.UserID == ownerID)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func logWriteErr(op, path string, err error) error {
	if err != nil && !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrVersionConflict) {
		log.Printf("%s %s failed: %v", op, path, err)
	}
	return err
}

type clock func() time.Time
