package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
	"github.com/yusufkoc/hr-intake/internal/infrastructure/persistence/sqlite"
)

// executor returns the transaction carried on the context when inside
// one, otherwise the plain connection.
func executor(ctx context.Context, db *sql.DB) sqlite.Executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return db
}

// ApplicationRepository implements port.ApplicationRepository
type ApplicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) port.ApplicationRepository {
	return &ApplicationRepository{db: db, logger: logger}
}

// Create inserts a new application at version 1.
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO applications (
			id, full_name, branches, areas, departments, positions,
			status, stage, revise_requested_by, form_data, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		app.ID,
		app.FullName,
		marshalLabels(app.Branches),
		marshalLabels(app.Areas),
		marshalLabels(app.Departments),
		marshalLabels(app.Positions),
		app.Status,
		app.Stage.String(),
		nullableRole(app.ReviseRequestedBy),
		app.FormData,
	)
	if err != nil {
		r.logger.Error("Failed to create application", zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}

	app.Version = 1
	return nil
}

const applicationColumns = `
	id, full_name, branches, areas, departments, positions,
	status, stage, revise_requested_by, form_data, version,
	created_at, updated_at
`

// GetByID retrieves an application by id. Returns nil when missing.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = ?`

	app, err := scanApplication(executor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get application", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// List retrieves applications newest-first, optionally scoped to a
// branch and department. Labels are stored as JSON arrays, so scoping
// matches on the quoted label.
func (r *ApplicationRepository) List(ctx context.Context, filter port.ListFilter) ([]*entity.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE (? = '' OR branches LIKE '%"' || ? || '"%')
		  AND (? = '' OR departments LIKE '%"' || ? || '"%')
		ORDER BY created_at DESC, id DESC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query,
		filter.Branch, filter.Branch,
		filter.Department, filter.Department,
	)
	if err != nil {
		r.logger.Error("Failed to list applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// UpdateDecision persists the transition outcome conditional on the
// version the engine loaded. Zero rows affected means a concurrent
// transition got there first.
func (r *ApplicationRepository) UpdateDecision(ctx context.Context, app *entity.Application) error {
	query := `
		UPDATE applications
		SET status = ?, stage = ?, revise_requested_by = ?,
			version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		app.Status,
		app.Stage.String(),
		nullableRole(app.ReviseRequestedBy),
		app.ID,
		app.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update application", zap.String("id", app.ID), zap.Error(err))
		return fmt.Errorf("failed to update application: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: application %s version %d", approval.ErrVersionConflict, app.ID, app.Version)
	}

	app.Version++
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*entity.Application, error) {
	var app entity.Application
	var branches, areas, departments, positions string
	var stage string
	var reviseBy sql.NullString

	err := row.Scan(
		&app.ID,
		&app.FullName,
		&branches,
		&areas,
		&departments,
		&positions,
		&app.Status,
		&stage,
		&reviseBy,
		&app.FormData,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Stage = approval.Stage(stage)
	if reviseBy.Valid {
		app.ReviseRequestedBy = approval.Role(reviseBy.String)
	}
	app.Branches = unmarshalLabels(branches)
	app.Areas = unmarshalLabels(areas)
	app.Departments = unmarshalLabels(departments)
	app.Positions = unmarshalLabels(positions)

	return &app, nil
}

func marshalLabels(labels []string) string {
	if labels == nil {
		labels = []string{}
	}
	data, _ := json.Marshal(labels)
	return string(data)
}

func unmarshalLabels(data string) []string {
	var labels []string
	if data != "" {
		_ = json.Unmarshal([]byte(data), &labels)
	}
	return labels
}

func nullableRole(role approval.Role) interface{} {
	if role == "" {
		return nil
	}
	return role.String()
}
