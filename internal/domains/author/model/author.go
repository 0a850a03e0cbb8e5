package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author is the registry entity. Publications keep a point-in-time
// snapshot of FullName/Email, so edits here never propagate backwards.
type Author struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Specialization string    `json:"specialization" db:"specialization"`
	Version        int       `json:"version" db:"version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// FullName joins the name parts, tolerating a missing one.
func (a *Author) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}
