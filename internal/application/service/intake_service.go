package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
	"github.com/yusufkoc/hr-intake/internal/metrics"
)

// IntakeForm is the nested submission posted by the public intake
// form. Preference labels are flattened onto the application record so
// reviewers can filter without unpacking the raw form.
type IntakeForm struct {
	FirstName   string             `json:"first_name" binding:"required"`
	LastName    string             `json:"last_name" binding:"required"`
	Preferences []BranchPreference `json:"preferences"`
}

// BranchPreference is one branch section of the intake form.
type BranchPreference struct {
	Branch string           `json:"branch"`
	Areas  []AreaPreference `json:"areas"`
}

// AreaPreference is one area section under a branch.
type AreaPreference struct {
	Area        string                 `json:"area"`
	Departments []DepartmentPreference `json:"departments"`
}

// DepartmentPreference is one department section with the positions
// applied for.
type DepartmentPreference struct {
	Department string   `json:"department"`
	Positions  []string `json:"positions"`
}

// IntakeService manages application records outside the transition
// engine: creation and read access.
type IntakeService interface {
	// CreateApplication stores a new submission in the initial
	// Pending/department_manager state with one seed audit note.
	CreateApplication(ctx context.Context, form *IntakeForm) (*entity.Application, error)

	// GetApplication returns a defensive copy of one application with
	// its full audit trail.
	GetApplication(ctx context.Context, id string) (*entity.Application, error)

	// ListApplications returns defensive copies of the applications
	// visible to the actor (scoped by the actor's branch/department
	// when set).
	ListApplications(ctx context.Context, actor *entity.User) ([]*entity.Application, error)
}

type intakeServiceImpl struct {
	appRepo   port.ApplicationRepository
	noteRepo  port.NoteRepository
	txManager port.TransactionManager
	logger    Logger
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(
	appRepo port.ApplicationRepository,
	noteRepo port.NoteRepository,
	txManager port.TransactionManager,
	logger Logger,
) IntakeService {
	return &intakeServiceImpl{
		appRepo:   appRepo,
		noteRepo:  noteRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateApplication creates the record and its seed note in one
// transaction.
func (s *intakeServiceImpl) CreateApplication(ctx context.Context, form *IntakeForm) (*entity.Application, error) {
	if form == nil {
		return nil, fmt.Errorf("intake form is required")
	}

	fullName := strings.TrimSpace(strings.TrimSpace(form.FirstName) + " " + strings.TrimSpace(form.LastName))
	if fullName == "" {
		return nil, fmt.Errorf("applicant name is required")
	}

	rawForm, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("marshal form: %w", err)
	}

	branches, areas, departments, positions := flattenPreferences(form.Preferences)

	now := time.Now()
	app := &entity.Application{
		// UUID-backed ids: the record keeps the legacy A- prefix but
		// cannot collide the way a random 5-digit suffix could.
		ID:          "A-" + uuid.NewString(),
		FullName:    fullName,
		Branches:    branches,
		Areas:       areas,
		Departments: departments,
		Positions:   positions,
		Status:      entity.StatusPending,
		Stage:       approval.StageDepartmentManager,
		FormData:    string(rawForm),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.appRepo.Create(txCtx, app); err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		note := &entity.Note{
			ApplicationID: app.ID,
			ActorName:     "System",
			Text:          "Application submitted.",
			ActionTag:     entity.TagApplicationSubmitted,
			NoteDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		}
		if err := s.noteRepo.Create(txCtx, note); err != nil {
			return fmt.Errorf("create seed note: %w", err)
		}
		app.Notes = []entity.Note{*note}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsCreated.Inc()
	s.logger.Info("Application created", "id", app.ID, "applicant", app.FullName)
	return app, nil
}

// GetApplication retrieves one application with its notes.
func (s *intakeServiceImpl) GetApplication(ctx context.Context, id string) (*entity.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", approval.ErrNotFound, id)
	}

	notes, err := s.noteRepo.ListByApplicationID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	app.Notes = notes

	return app.Clone(), nil
}

// ListApplications lists applications scoped to the actor.
func (s *intakeServiceImpl) ListApplications(ctx context.Context, actor *entity.User) ([]*entity.Application, error) {
	filter := port.ListFilter{}
	if actor != nil {
		filter.Branch = actor.Branch
		filter.Department = actor.Department
	}

	apps, err := s.appRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	result := make([]*entity.Application, 0, len(apps))
	for _, app := range apps {
		notes, err := s.noteRepo.ListByApplicationID(ctx, app.ID)
		if err != nil {
			return nil, fmt.Errorf("load notes for %s: %w", app.ID, err)
		}
		app.Notes = notes
		result = append(result, app.Clone())
	}
	return result, nil
}

// flattenPreferences collects unique labels from the nested form
// sections, preserving first-seen order.
func flattenPreferences(prefs []BranchPreference) (branches, areas, departments, positions []string) {
	branchSeen := map[string]bool{}
	areaSeen := map[string]bool{}
	deptSeen := map[string]bool{}
	posSeen := map[string]bool{}

	add := func(list *[]string, seen map[string]bool, label string) {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		*list = append(*list, label)
	}

	for _, b := range prefs {
		add(&branches, branchSeen, b.Branch)
		for _, a := range b.Areas {
			add(&areas, areaSeen, a.Area)
			for _, d := range a.Departments {
				add(&departments, deptSeen, d.Department)
				for _, p := range d.Positions {
					add(&positions, posSeen, p)
				}
			}
		}
	}
	return branches, areas, departments, positions
}
