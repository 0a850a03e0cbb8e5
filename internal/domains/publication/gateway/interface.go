package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// =====================================================
// AUTHOR DIRECTORY GATEWAY
// =====================================================

// ErrDirectoryUnavailable reports that the author directory could not
// be reached after all retry attempts. Only surfaced to callers when
// strict existence checking is enabled.
var ErrDirectoryUnavailable = errors.New("author directory unavailable")

// AuthorRecord is the subset of the author registry record the
// publication service snapshots onto new publications.
type AuthorRecord struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
}

// FullName joins first and last name for the author snapshot.
func (r *AuthorRecord) FullName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// AuthorDirectory is the publication registry's view of the authors
// service.
type AuthorDirectory interface {
	// Exists checks whether an author is registered. With the default
	// policy an unreachable directory reads as (false, nil); under
	// strict existence it returns ErrDirectoryUnavailable instead.
	Exists(ctx context.Context, authorID uuid.UUID) (bool, error)

	// Fetch loads the author record for snapshot enrichment. Returns
	// (nil, nil) when the author does not exist or the directory is
	// unreachable under the default policy; enrichment is best-effort.
	Fetch(ctx context.Context, authorID uuid.UUID) (*AuthorRecord, error)

	// HealthCheck probes the directory once, without retries.
	HealthCheck(ctx context.Context) bool
}
