package gate

import (
	"fmt"

	"github.com/naveenspark/roster/internal/session"
)

// DeniedError is returned when a manager-only screen is opened by someone else.
type DeniedError struct {
	Action string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("Access denied. Only managers can %s.", e.Action)
}

// RequireManager returns a *DeniedError unless u is a Manager. action
// completes the sentence "Only managers can ...", e.g. "view engineers".
func RequireManager(u session.User, action string) error {
	if session.IsManager(u) {
		return nil
	}
	return &DeniedError{Action: action}
}
