package workflow

import (
	domainwf "github.com/yusufkoc/hr-intake/internal/domain/workflow"
)

// Guards supplies the contextual conditions the status machine cannot
// know on its own.
type Guards struct {
	// AdvanceCompletes is true when an approval at the current stage
	// lands the application in the terminal completed stage.
	AdvanceCompletes domainwf.GuardFunc

	// LastDecisionApproved is true when the most recent decision in
	// the audit trail was an approval. Drives where a rejected
	// revision request restores the application to.
	LastDecisionApproved domainwf.GuardFunc
}

// BuildApplicationStateMachine creates the status machine for the
// intake approval pipeline. For a trigger with two candidate targets
// the first whose guard passes wins, so guarded transitions come first
// and the unguarded fallback last.
func BuildApplicationStateMachine(initialState domainwf.State, guards Guards) *domainwf.Machine {
	builder := domainwf.NewBuilder()

	// Pending: an approval either advances within the pipeline
	// (status stays Pending) or, at the final stage, decides the
	// application. A rejection decides it immediately at any stage.
	builder.Configure(domainwf.StatePending).
		PermitIf(domainwf.TriggerApprove, domainwf.StateApproved, guards.AdvanceCompletes).
		Permit(domainwf.TriggerApprove, domainwf.StatePending).
		Permit(domainwf.TriggerReject, domainwf.StateRejected)

	// Decided applications can only be reopened through a revision
	// request.
	builder.Configure(domainwf.StateApproved).
		Permit(domainwf.TriggerRequestRevision, domainwf.StateRevisionRequested)

	builder.Configure(domainwf.StateRejected).
		Permit(domainwf.TriggerRequestRevision, domainwf.StateRevisionRequested)

	// RevisionRequested: approving the revision reopens the pipeline;
	// rejecting it restores whichever decision stood before, falling
	// back to Rejected when the audit trail has no prior decision.
	builder.Configure(domainwf.StateRevisionRequested).
		Permit(domainwf.TriggerApproveRevision, domainwf.StatePending).
		PermitIf(domainwf.TriggerRejectRevision, domainwf.StateApproved, guards.LastDecisionApproved).
		Permit(domainwf.TriggerRejectRevision, domainwf.StateRejected)

	return builder.Build(initialState)
}
