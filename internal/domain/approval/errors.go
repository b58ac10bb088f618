package approval

import "errors"

var (
	// ErrNotFound is returned when the application id does not exist.
	ErrNotFound = errors.New("application not found")

	// ErrInvalidState is returned when the application's status does
	// not meet the action's precondition.
	ErrInvalidState = errors.New("invalid application state for action")

	// ErrForbidden is returned when the actor's role is not allowed to
	// perform the action at the current stage or sub-flow.
	ErrForbidden = errors.New("actor not authorized for action")

	// ErrUnknownStage is returned when the application carries a stage
	// missing from the pipeline configuration.
	ErrUnknownStage = errors.New("unknown approval stage")

	// ErrAlreadyCompleted is returned when a standard approve or
	// reject targets an application whose pipeline already finished.
	ErrAlreadyCompleted = errors.New("approval pipeline already completed")

	// ErrVersionConflict is returned when a concurrent transition won
	// the record's optimistic version check first.
	ErrVersionConflict = errors.New("application modified concurrently")
)
