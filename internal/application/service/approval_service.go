package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	appwf "github.com/yusufkoc/hr-intake/internal/application/workflow"
	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
	domainwf "github.com/yusufkoc/hr-intake/internal/domain/workflow"
	"github.com/yusufkoc/hr-intake/internal/metrics"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Notifier is told when a pipeline reaches a final decision. Delivery
// is the notifier's problem; the engine never waits on it.
type Notifier interface {
	DecisionReached(ctx context.Context, app *entity.Application)
}

// fallbackRoleLabel is used in authorization failures when no user
// carries the required role.
const fallbackRoleLabel = "Authorized person"

// ApprovalService is the transition engine: the single entry point
// through which an application's status and stage ever change.
type ApprovalService interface {
	// ApplyAction validates and applies one action against an
	// application on behalf of the actor. On success it returns a
	// human-readable message and guarantees exactly one note was
	// appended; on failure nothing was mutated.
	ApplyAction(ctx context.Context, applicationID string, action approval.Action, noteText string, actor *entity.User) (string, error)
}

type approvalServiceImpl struct {
	appRepo   port.ApplicationRepository
	noteRepo  port.NoteRepository
	userRepo  port.UserRepository
	txManager port.TransactionManager
	notifier  Notifier
	logger    Logger
}

// NewApprovalService creates a new ApprovalService. notifier may be
// nil when decision notifications are disabled.
func NewApprovalService(
	appRepo port.ApplicationRepository,
	noteRepo port.NoteRepository,
	userRepo port.UserRepository,
	txManager port.TransactionManager,
	notifier Notifier,
	logger Logger,
) ApprovalService {
	return &approvalServiceImpl{
		appRepo:   appRepo,
		noteRepo:  noteRepo,
		userRepo:  userRepo,
		txManager: txManager,
		notifier:  notifier,
		logger:    logger,
	}
}

// ApplyAction runs one transition as a single transaction: load,
// validate, mutate, append note. Failed validation leaves the record
// and its notes untouched.
func (s *approvalServiceImpl) ApplyAction(ctx context.Context, applicationID string, action approval.Action, noteText string, actor *entity.User) (string, error) {
	if actor == nil || !actor.Role.IsValid() {
		return "", fmt.Errorf("%w: unknown actor role", approval.ErrForbidden)
	}

	var message string
	var finalStatus string
	var decided *entity.Application

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		app, err := s.appRepo.GetByID(txCtx, applicationID)
		if err != nil {
			return fmt.Errorf("load application: %w", err)
		}
		if app == nil {
			return fmt.Errorf("%w: %s", approval.ErrNotFound, applicationID)
		}

		notes, err := s.noteRepo.ListByApplicationID(txCtx, applicationID)
		if err != nil {
			return fmt.Errorf("load notes: %w", err)
		}
		app.Notes = notes

		machine, err := s.machineFor(app)
		if err != nil {
			return err
		}

		switch action {
		case approval.ActionRequestRevision:
			message, err = s.requestRevision(txCtx, app, machine, actor, noteText)
		case approval.ActionApproveRevision:
			message, err = s.approveRevision(txCtx, app, machine, actor, noteText)
		case approval.ActionRejectRevision:
			message, err = s.rejectRevision(txCtx, app, machine, actor, noteText)
		case approval.ActionApprove, approval.ActionReject:
			message, err = s.decide(txCtx, app, machine, action, actor, noteText)
		default:
			err = fmt.Errorf("%w: unsupported action %q", approval.ErrInvalidState, action)
		}
		if err != nil {
			return err
		}

		finalStatus = app.Status
		if app.Status == entity.StatusApproved || app.Status == entity.StatusRejected {
			decided = app.Clone()
		}
		return nil
	})

	if err != nil {
		metrics.TransitionsTotal.WithLabelValues(action.String(), outcomeLabel(err)).Inc()
		return "", err
	}

	metrics.TransitionsTotal.WithLabelValues(action.String(), "success").Inc()
	s.logger.Info("Transition applied",
		"application_id", applicationID,
		"action", action.String(),
		"actor", actor.Username,
		"status", finalStatus)

	if decided != nil && s.notifier != nil {
		s.notifier.DecisionReached(ctx, decided)
	}

	return message, nil
}

// machineFor builds the status machine seeded with the application's
// current status and guards closed over its stage and audit trail.
func (s *approvalServiceImpl) machineFor(app *entity.Application) (*domainwf.Machine, error) {
	state := domainwf.State(app.Status)
	if !state.IsValid() {
		return nil, fmt.Errorf("%w: application %s has status %q", approval.ErrInvalidState, app.ID, app.Status)
	}

	guards := appwf.Guards{
		AdvanceCompletes: func(ctx context.Context) bool {
			info, ok := approval.Info(app.Stage)
			return ok && info.Next == approval.StageCompleted
		},
		LastDecisionApproved: func(ctx context.Context) bool {
			return lastDecisionTag(app.Notes) == approval.ActionApprove.Tag()
		},
	}
	return appwf.BuildApplicationStateMachine(state, guards), nil
}

// requestRevision reopens the conversation on a finalized decision.
// The state check comes first: asking for a revision on a pipeline
// still in flight is a state problem, not a permission problem.
func (s *approvalServiceImpl) requestRevision(ctx context.Context, app *entity.Application, machine *domainwf.Machine, actor *entity.User, noteText string) (string, error) {
	if !machine.CanFire(domainwf.TriggerRequestRevision) {
		return "", fmt.Errorf("%w: revision can only be requested on a finalized decision", approval.ErrInvalidState)
	}
	// Supervisors decide revision requests; letting them raise one
	// would let a single person reopen and re-close a decision.
	if actor.Role.IsHRSupervisor() {
		return "", fmt.Errorf("%w: HR supervisors cannot request revisions", approval.ErrForbidden)
	}

	if err := machine.Fire(ctx, domainwf.TriggerRequestRevision); err != nil {
		return "", fmt.Errorf("%w: %v", approval.ErrInvalidState, err)
	}

	app.Status = machine.State().String()
	app.ReviseRequestedBy = actor.Role

	if err := s.persist(ctx, app, actor.Name, noteText, approval.ActionRequestRevision.Tag()); err != nil {
		return "", err
	}
	return "Revision requested; awaiting HR supervisor decision", nil
}

// approveRevision rewinds the pipeline to the requester's stage.
func (s *approvalServiceImpl) approveRevision(ctx context.Context, app *entity.Application, machine *domainwf.Machine, actor *entity.User, noteText string) (string, error) {
	if !actor.Role.IsHRSupervisor() {
		return "", fmt.Errorf("%w: only HR supervisors may decide revision requests", approval.ErrForbidden)
	}
	if !machine.CanFire(domainwf.TriggerApproveRevision) {
		return "", fmt.Errorf("%w: no revision request is pending", approval.ErrInvalidState)
	}

	if err := machine.Fire(ctx, domainwf.TriggerApproveRevision); err != nil {
		return "", fmt.Errorf("%w: %v", approval.ErrInvalidState, err)
	}

	returnStage := approval.ResolveReturnStage(app.ReviseRequestedBy)

	app.Status = machine.State().String()
	app.Stage = returnStage
	app.ReviseRequestedBy = ""

	if err := s.persist(ctx, app, actor.Name, noteText, approval.ActionApproveRevision.Tag()); err != nil {
		return "", err
	}
	return fmt.Sprintf("Revision approved; application returned to the %s stage", returnStage), nil
}

// rejectRevision denies the revision request and restores whichever
// decision stood before it.
func (s *approvalServiceImpl) rejectRevision(ctx context.Context, app *entity.Application, machine *domainwf.Machine, actor *entity.User, noteText string) (string, error) {
	if !actor.Role.IsHRSupervisor() {
		return "", fmt.Errorf("%w: only HR supervisors may decide revision requests", approval.ErrForbidden)
	}
	if !machine.CanFire(domainwf.TriggerRejectRevision) {
		return "", fmt.Errorf("%w: no revision request is pending", approval.ErrInvalidState)
	}

	// A revision request only ever starts from a finalized decision,
	// so a missing prior APPROVE/REJECT note means the audit trail is
	// damaged. Restore as Rejected but leave a trace in the logs.
	if lastDecisionTag(app.Notes) == "" {
		s.logger.Warn("No prior decision found in audit trail, restoring as Rejected",
			"application_id", app.ID)
	}

	if err := machine.Fire(ctx, domainwf.TriggerRejectRevision); err != nil {
		return "", fmt.Errorf("%w: %v", approval.ErrInvalidState, err)
	}

	app.Status = machine.State().String()
	app.ReviseRequestedBy = ""

	if err := s.persist(ctx, app, actor.Name, noteText, approval.ActionRejectRevision.Tag()); err != nil {
		return "", err
	}
	return fmt.Sprintf("Revision rejected; application restored to %s", app.Status), nil
}

// decide handles the standard approve/reject pipeline flow.
func (s *approvalServiceImpl) decide(ctx context.Context, app *entity.Application, machine *domainwf.Machine, action approval.Action, actor *entity.User, noteText string) (string, error) {
	if app.Stage == approval.StageCompleted {
		return "", fmt.Errorf("%w: application %s", approval.ErrAlreadyCompleted, app.ID)
	}
	info, ok := approval.Info(app.Stage)
	if !ok {
		return "", fmt.Errorf("%w: %q", approval.ErrUnknownStage, app.Stage)
	}

	if actor.Role.Canonical() != info.RequiredRole {
		return "", fmt.Errorf("%w: this application is awaiting action from %s",
			approval.ErrForbidden, s.requiredRoleLabel(ctx, info.RequiredRole))
	}

	switch action {
	case approval.ActionApprove:
		if err := machine.Fire(ctx, domainwf.TriggerApprove); err != nil {
			return "", fmt.Errorf("%w: %v", approval.ErrInvalidState, err)
		}
		app.Status = machine.State().String()
		app.Stage = info.Next
	case approval.ActionReject:
		if err := machine.Fire(ctx, domainwf.TriggerReject); err != nil {
			return "", fmt.Errorf("%w: %v", approval.ErrInvalidState, err)
		}
		// Rejection terminates the pipeline immediately, regardless
		// of which stage it happened at.
		app.Status = machine.State().String()
		app.Stage = approval.StageCompleted
	}

	if err := s.persist(ctx, app, actor.Name, noteText, action.Tag()); err != nil {
		return "", err
	}

	switch {
	case app.Status == entity.StatusApproved:
		return "Application approved", nil
	case app.Status == entity.StatusRejected:
		return "Application rejected", nil
	default:
		return fmt.Sprintf("Application forwarded to the %s stage", app.Stage), nil
	}
}

// persist writes the mutated record and appends exactly one note.
func (s *approvalServiceImpl) persist(ctx context.Context, app *entity.Application, actorName, noteText, tag string) error {
	if err := s.appRepo.UpdateDecision(ctx, app); err != nil {
		return fmt.Errorf("update application: %w", err)
	}

	text := strings.TrimSpace(noteText)
	if text == "" {
		text = entity.NotePlaceholderText
	}

	now := time.Now()
	note := &entity.Note{
		ApplicationID: app.ID,
		ActorName:     actorName,
		Text:          text,
		ActionTag:     strings.ToUpper(tag),
		NoteDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return fmt.Errorf("append note: %w", err)
	}
	return nil
}

// requiredRoleLabel finds a human-readable name for the role required
// at a stage, so authorization failures tell the caller who to wait
// for instead of echoing an internal role code.
func (s *approvalServiceImpl) requiredRoleLabel(ctx context.Context, required approval.Role) string {
	user, err := s.userRepo.FirstByRoles(ctx, approval.RolesMatching(required))
	if err != nil || user == nil {
		return fallbackRoleLabel
	}
	return user.Name
}

// lastDecisionTag scans the audit trail newest-first for the most
// recent standard decision. Returns "" when none exists.
func lastDecisionTag(notes []entity.Note) string {
	approveTag := approval.ActionApprove.Tag()
	rejectTag := approval.ActionReject.Tag()
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].ActionTag == approveTag || notes[i].ActionTag == rejectTag {
			return notes[i].ActionTag
		}
	}
	return ""
}

// outcomeLabel maps an engine failure to a metrics label.
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, approval.ErrNotFound):
		return "not_found"
	case errors.Is(err, approval.ErrForbidden):
		return "forbidden"
	case errors.Is(err, approval.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, approval.ErrUnknownStage):
		return "unknown_stage"
	case errors.Is(err, approval.ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, approval.ErrVersionConflict):
		return "conflict"
	default:
		return "error"
	}
}
