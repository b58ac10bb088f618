package approval

import (
	"fmt"
	"strings"
)

// Action is one of the operations an actor can request against an
// application.
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionRequestRevision Action = "request_revision"
	ActionApproveRevision Action = "approve_revision"
	ActionRejectRevision  Action = "reject_revision"
)

// ParseAction converts a raw string to an Action, returning an error
// for unknown values.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionApprove, ActionReject, ActionRequestRevision, ActionApproveRevision, ActionRejectRevision:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Tag returns the upper-cased audit tag stored on notes written by
// this action.
func (a Action) Tag() string {
	return strings.ToUpper(string(a))
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}
