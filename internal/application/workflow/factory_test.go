package workflow

import (
	"context"
	"testing"

	domainwf "github.com/yusufkoc/hr-intake/internal/domain/workflow"
)

func guardsFor(completes, lastApproved bool) Guards {
	return Guards{
		AdvanceCompletes:     func(ctx context.Context) bool { return completes },
		LastDecisionApproved: func(ctx context.Context) bool { return lastApproved },
	}
}

func TestBuildApplicationStateMachine_PendingApprove(t *testing.T) {
	ctx := context.Background()

	// Mid-pipeline approval keeps the application Pending.
	machine := BuildApplicationStateMachine(domainwf.StatePending, guardsFor(false, false))
	if err := machine.Fire(ctx, domainwf.TriggerApprove); err != nil {
		t.Fatalf("Fire(approve) failed: %v", err)
	}
	if machine.State() != domainwf.StatePending {
		t.Errorf("State = %v, want Pending", machine.State())
	}

	// Final-stage approval decides the application.
	machine = BuildApplicationStateMachine(domainwf.StatePending, guardsFor(true, false))
	if err := machine.Fire(ctx, domainwf.TriggerApprove); err != nil {
		t.Fatalf("Fire(approve) failed: %v", err)
	}
	if machine.State() != domainwf.StateApproved {
		t.Errorf("State = %v, want Approved", machine.State())
	}
}

func TestBuildApplicationStateMachine_PendingReject(t *testing.T) {
	machine := BuildApplicationStateMachine(domainwf.StatePending, guardsFor(false, false))
	if err := machine.Fire(context.Background(), domainwf.TriggerReject); err != nil {
		t.Fatalf("Fire(reject) failed: %v", err)
	}
	if machine.State() != domainwf.StateRejected {
		t.Errorf("State = %v, want Rejected", machine.State())
	}
}

func TestBuildApplicationStateMachine_RevisionRequestOnlyFromDecided(t *testing.T) {
	for _, state := range []domainwf.State{domainwf.StateApproved, domainwf.StateRejected} {
		machine := BuildApplicationStateMachine(state, guardsFor(false, false))
		if !machine.CanFire(domainwf.TriggerRequestRevision) {
			t.Errorf("RequestRevision should be permitted from %v", state)
		}
	}

	for _, state := range []domainwf.State{domainwf.StatePending, domainwf.StateRevisionRequested} {
		machine := BuildApplicationStateMachine(state, guardsFor(false, false))
		if machine.CanFire(domainwf.TriggerRequestRevision) {
			t.Errorf("RequestRevision should not be permitted from %v", state)
		}
	}
}

func TestBuildApplicationStateMachine_ApproveRevision(t *testing.T) {
	machine := BuildApplicationStateMachine(domainwf.StateRevisionRequested, guardsFor(false, false))
	if err := machine.Fire(context.Background(), domainwf.TriggerApproveRevision); err != nil {
		t.Fatalf("Fire(approve_revision) failed: %v", err)
	}
	if machine.State() != domainwf.StatePending {
		t.Errorf("State = %v, want Pending", machine.State())
	}
}

func TestBuildApplicationStateMachine_RejectRevisionRestoresDecision(t *testing.T) {
	ctx := context.Background()

	machine := BuildApplicationStateMachine(domainwf.StateRevisionRequested, guardsFor(false, true))
	if err := machine.Fire(ctx, domainwf.TriggerRejectRevision); err != nil {
		t.Fatalf("Fire(reject_revision) failed: %v", err)
	}
	if machine.State() != domainwf.StateApproved {
		t.Errorf("State = %v, want restored Approved", machine.State())
	}

	// No prior approval in the trail falls back to Rejected.
	machine = BuildApplicationStateMachine(domainwf.StateRevisionRequested, guardsFor(false, false))
	if err := machine.Fire(ctx, domainwf.TriggerRejectRevision); err != nil {
		t.Fatalf("Fire(reject_revision) failed: %v", err)
	}
	if machine.State() != domainwf.StateRejected {
		t.Errorf("State = %v, want fallback Rejected", machine.State())
	}
}

func TestBuildApplicationStateMachine_NoEscapeFromPendingViaRevisionTriggers(t *testing.T) {
	machine := BuildApplicationStateMachine(domainwf.StatePending, guardsFor(false, false))
	for _, trigger := range []domainwf.Trigger{domainwf.TriggerApproveRevision, domainwf.TriggerRejectRevision} {
		if machine.CanFire(trigger) {
			t.Errorf("%v should not be permitted from Pending", trigger)
		}
	}
}
