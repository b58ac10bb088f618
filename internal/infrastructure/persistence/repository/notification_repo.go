package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

// Create records a pending notification.
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (application_id, recipient, subject, body, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		n.ApplicationID,
		n.Recipient,
		n.Subject,
		n.Body,
		entity.NotificationStatusPending,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.String("application_id", n.ApplicationID), zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	n.ID = id
	n.Status = entity.NotificationStatusPending
	return nil
}

// MarkSent marks a notification as delivered.
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET status = ?, sent_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, entity.NotificationStatusSent, id); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed marks a notification as failed with the delivery error.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	query := `UPDATE notifications SET status = ?, error_msg = ? WHERE id = ?`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, entity.NotificationStatusFailed, errorMsg, id); err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}
