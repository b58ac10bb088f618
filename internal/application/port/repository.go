package port

import (
	"context"

	"github.com/yusufkoc/hr-intake/internal/domain/approval"
	"github.com/yusufkoc/hr-intake/internal/domain/entity"
)

// ListFilter narrows application listings to an actor's scope. Zero
// values mean no filtering.
type ListFilter struct {
	Branch     string
	Department string
}

// ApplicationRepository defines persistence operations for Application
type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error

	// GetByID returns nil (no error) when the id does not exist.
	// Notes are not loaded; use NoteRepository.
	GetByID(ctx context.Context, id string) (*entity.Application, error)

	List(ctx context.Context, filter ListFilter) ([]*entity.Application, error)

	// UpdateDecision persists status, stage, revise-requested-by and
	// bumps the version. The update is conditional on app.Version
	// still matching the stored row; approval.ErrVersionConflict is
	// returned when a concurrent transition won.
	UpdateDecision(ctx context.Context, app *entity.Application) error
}

// NoteRepository defines persistence operations for the append-only
// audit trail. There is deliberately no update or delete.
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	ListByApplicationID(ctx context.Context, applicationID string) ([]entity.Note, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// FirstByRoles returns any user carrying one of the given roles,
	// or nil when none exists. Used to put a human-readable name on
	// authorization failures.
	FirstByRoles(ctx context.Context, roles []approval.Role) (*entity.User, error)

	Count(ctx context.Context) (int64, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
