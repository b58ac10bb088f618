package workflow

// Trigger represents an event that can cause a status transition.
type Trigger string

const (
	TriggerApprove         Trigger = "APPROVE"
	TriggerReject          Trigger = "REJECT"
	TriggerRequestRevision Trigger = "REQUEST_REVISION"
	TriggerApproveRevision Trigger = "APPROVE_REVISION"
	TriggerRejectRevision  Trigger = "REJECT_REVISION"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
