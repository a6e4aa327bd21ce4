package wizard

import (
	"fmt"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// NoOpenSessionError is returned when a wizard event targets an action
// with no live session on this device
type NoOpenSessionError struct {
	*shared.DomainError
	ActionID string
}

func NewNoOpenSessionError(actionID string) *NoOpenSessionError {
	return &NoOpenSessionError{
		DomainError: shared.NewDomainError(
			fmt.Sprintf("no open wizard session for action %s", actionID)),
		ActionID: actionID,
	}
}
