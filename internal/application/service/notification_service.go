package service

import (
	"context"
	"fmt"

	"github.com/yusufkoc/hr-intake/internal/application/port"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
	"github.com/yusufkoc/hr-intake/internal/metrics"
)

// EmailSender delivers one message. Implemented by the SMTP sender in
// internal/email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// NotificationService records and delivers decision notifications. It
// implements Notifier for the transition engine.
type NotificationService interface {
	Notifier
}

type notificationServiceImpl struct {
	notifRepo port.NotificationRepository
	sender    EmailSender
	recipient string
	logger    Logger
}

// NewNotificationService creates a new NotificationService. recipient
// is the HR mailbox decision mails go to.
func NewNotificationService(
	notifRepo port.NotificationRepository,
	sender EmailSender,
	recipient string,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		notifRepo: notifRepo,
		sender:    sender,
		recipient: recipient,
		logger:    logger,
	}
}

// DecisionReached records the notification and sends it best-effort.
// Errors are logged and counted, never propagated: a lost email must
// not undo or block a finished transition.
func (s *notificationServiceImpl) DecisionReached(ctx context.Context, app *entity.Application) {
	subject := fmt.Sprintf("Application %s: %s", app.ID, app.Status)
	body := fmt.Sprintf(
		"The application from %s has reached a final decision.\n\nApplication: %s\nDecision: %s\n",
		app.FullName, app.ID, app.Status,
	)

	notification := &entity.Notification{
		ApplicationID: app.ID,
		Recipient:     s.recipient,
		Subject:       subject,
		Body:          body,
		Status:        entity.NotificationStatusPending,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to record notification", "application_id", app.ID, "error", err)
		metrics.NotificationsSent.WithLabelValues(entity.NotificationStatusFailed).Inc()
		return
	}

	if err := s.sender.Send(s.recipient, subject, body); err != nil {
		s.logger.Error("Failed to send notification", "application_id", app.ID, "error", err)
		if markErr := s.notifRepo.MarkFailed(ctx, notification.ID, err.Error()); markErr != nil {
			s.logger.Error("Failed to mark notification failed", "id", notification.ID, "error", markErr)
		}
		metrics.NotificationsSent.WithLabelValues(entity.NotificationStatusFailed).Inc()
		return
	}

	if err := s.notifRepo.MarkSent(ctx, notification.ID); err != nil {
		s.logger.Error("Failed to mark notification sent", "id", notification.ID, "error", err)
	}
	metrics.NotificationsSent.WithLabelValues(entity.NotificationStatusSent).Inc()
}
