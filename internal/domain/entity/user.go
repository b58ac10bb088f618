package entity

import (
	"time"

	"github.com/yusufkoc/hr-intake/internal/domain/approval"
)

// User is an authenticated actor in the approval pipeline. Department
// and Branch scope which applications the actor sees in listings; they
// play no part in transition authorization.
type User struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	Name         string        `json:"name"`
	Role         approval.Role `json:"role"`
	Department   string        `json:"department,omitempty"`
	Branch       string        `json:"branch,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
