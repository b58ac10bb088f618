package workflow

// State represents an application's status in the approval lifecycle.
// The stage the application sits at inside the pipeline is tracked
// separately; the state machine only governs status-level legality.
type State string

const (
	StatePending           State = "Pending"
	StateApproved          State = "Approved"
	StateRejected          State = "Rejected"
	StateRevisionRequested State = "RevisionRequested"
)

var validStates = map[State]bool{
	StatePending:           true,
	StateApproved:          true,
	StateRejected:          true,
	StateRevisionRequested: true,
}

// IsDecided returns true when the status represents a finished
// decision. Only decided applications can have a revision requested
// against them.
func (s State) IsDecided() bool {
	return s == StateApproved || s == StateRejected
}

// IsValid returns true if the state is a valid application status.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
