package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
)

// NoteRepository implements port.NoteRepository. The table is
// append-only: there are no update or delete statements here and none
// should ever be added.
type NoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sql.DB, logger *zap.Logger) port.NoteRepository {
	return &NoteRepository{db: db, logger: logger}
}

// Create appends a note to an application's audit trail.
func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	query := `
		INSERT INTO application_notes (application_id, actor_name, text, action_tag, note_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		note.ApplicationID,
		note.ActorName,
		note.Text,
		note.ActionTag,
		note.NoteDate,
	)
	if err != nil {
		r.logger.Error("Failed to create note", zap.String("application_id", note.ApplicationID), zap.Error(err))
		return fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	note.ID = id
	return nil
}

// ListByApplicationID returns the audit trail in insertion order.
func (r *NoteRepository) ListByApplicationID(ctx context.Context, applicationID string) ([]entity.Note, error) {
	query := `
		SELECT id, application_id, actor_name, text, action_tag, note_date, created_at
		FROM application_notes
		WHERE application_id = ?
		ORDER BY id ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list notes", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []entity.Note
	for rows.Next() {
		var note entity.Note
		if err := rows.Scan(
			&note.ID,
			&note.ApplicationID,
			&note.ActorName,
			&note.Text,
			&note.ActionTag,
			&note.NoteDate,
			&note.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
