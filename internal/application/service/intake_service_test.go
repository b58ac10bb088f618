package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
)

func newIntakeHarness() (IntakeService, *memAppRepo, *memNoteRepo) {
	appRepo := newMemAppRepo()
	noteRepo := &memNoteRepo{}
	svc := NewIntakeService(appRepo, noteRepo, passthroughTxManager{}, &testLogger{})
	return svc, appRepo, noteRepo
}

func sampleForm() *IntakeForm {
	return &IntakeForm{
		FirstName: "Jane",
		LastName:  "Candidate",
		Preferences: []BranchPreference{
			{
				Branch: "Istanbul",
				Areas: []AreaPreference{
					{
						Area: "Operations",
						Departments: []DepartmentPreference{
							{Department: "Logistics", Positions: []string{"Coordinator", "Planner"}},
						},
					},
				},
			},
			{
				Branch: "Ankara",
				Areas: []AreaPreference{
					{
						Area: "Operations",
						Departments: []DepartmentPreference{
							{Department: "Logistics", Positions: []string{"Coordinator"}},
						},
					},
				},
			},
		},
	}
}

func TestCreateApplication(t *testing.T) {
	svc, appRepo, noteRepo := newIntakeHarness()

	app, err := svc.CreateApplication(context.Background(), sampleForm())
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if !strings.HasPrefix(app.ID, "A-") {
		t.Errorf("id = %q, want A- prefix", app.ID)
	}
	if app.FullName != "Jane Candidate" {
		t.Errorf("full name = %q", app.FullName)
	}
	if app.Status != entity.StatusPending {
		t.Errorf("status = %q, want Pending", app.Status)
	}
	if app.Stage != approval.StageDepartmentManager {
		t.Errorf("stage = %v, want department_manager", app.Stage)
	}
	if app.Version != 1 {
		t.Errorf("version = %d, want 1", app.Version)
	}

	// Duplicate labels across branches collapse, first-seen order kept.
	if got := app.Branches; len(got) != 2 || got[0] != "Istanbul" || got[1] != "Ankara" {
		t.Errorf("branches = %v", got)
	}
	if got := app.Areas; len(got) != 1 || got[0] != "Operations" {
		t.Errorf("areas = %v", got)
	}
	if got := app.Departments; len(got) != 1 || got[0] != "Logistics" {
		t.Errorf("departments = %v", got)
	}
	if got := app.Positions; len(got) != 2 || got[0] != "Coordinator" || got[1] != "Planner" {
		t.Errorf("positions = %v", got)
	}

	if stored := appRepo.apps[app.ID]; stored == nil {
		t.Error("application not persisted")
	}
	if len(noteRepo.notes) != 1 {
		t.Fatalf("note count = %d, want 1 seed note", len(noteRepo.notes))
	}
	seed := noteRepo.notes[0]
	if seed.ActionTag != entity.TagApplicationSubmitted || seed.ActorName != "System" {
		t.Errorf("seed note = %+v", seed)
	}
}

func TestCreateApplication_NameRequired(t *testing.T) {
	svc, _, _ := newIntakeHarness()

	if _, err := svc.CreateApplication(context.Background(), &IntakeForm{FirstName: "  ", LastName: ""}); err == nil {
		t.Fatal("expected an error for a blank name")
	}
	if _, err := svc.CreateApplication(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a nil form")
	}
}

func TestCreateApplication_SeedNoteFailureAborts(t *testing.T) {
	svc, _, noteRepo := newIntakeHarness()
	noteRepo.createErr = errors.New("notes table unavailable")

	if _, err := svc.CreateApplication(context.Background(), sampleForm()); err == nil {
		t.Fatal("expected the seed note failure to surface")
	}
}

func TestGetApplication(t *testing.T) {
	svc, appRepo, _ := newIntakeHarness()

	created, err := svc.CreateApplication(context.Background(), sampleForm())
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	got, err := svc.GetApplication(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetApplication failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("id = %q, want %q", got.ID, created.ID)
	}
	if len(got.Notes) != 1 {
		t.Errorf("notes = %d, want 1", len(got.Notes))
	}

	// Returned copies never alias store-owned slices.
	got.Branches[0] = "tampered"
	if appRepo.apps[created.ID].Branches[0] == "tampered" {
		t.Error("mutating the returned application reached the store")
	}
}

func TestGetApplication_NotFound(t *testing.T) {
	svc, _, _ := newIntakeHarness()

	_, err := svc.GetApplication(context.Background(), "A-nope")
	if !errors.Is(err, approval.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListApplications(t *testing.T) {
	svc, _, _ := newIntakeHarness()

	if _, err := svc.CreateApplication(context.Background(), sampleForm()); err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	apps, err := svc.ListApplications(context.Background(), &entity.User{Role: approval.RoleGeneralManager})
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("listed %d applications, want 1", len(apps))
	}
	if len(apps[0].Notes) != 1 {
		t.Errorf("listed application carries %d notes, want 1", len(apps[0].Notes))
	}
}
