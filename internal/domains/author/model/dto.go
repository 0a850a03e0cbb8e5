package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateAuthorRequest registers a new author.
type CreateAuthorRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Specialization, validation.Length(0, 200)),
	)
}

// UpdateAuthorRequest replaces the mutable author fields. Version is the
// value the client last read; a stale version fails with a conflict.
type UpdateAuthorRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	Version        int    `json:"version"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Specialization, validation.Length(0, 200)),
		validation.Field(&r.Version, validation.Min(0)),
	)
}

// ListAuthorsRequest filters, sorts and paginates the author listing.
type ListAuthorsRequest struct {
	Search string `form:"search"`
	SortBy string `form:"sort"`
	Order  string `form:"order"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Validate normalizes pagination and whitelists the sort column.
func (r *ListAuthorsRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}

	switch r.SortBy {
	case "", "created_at", "updated_at", "last_name", "email":
	default:
		return NewValidationError("unknown sort column: " + r.SortBy)
	}

	switch r.Order {
	case "", "asc", "desc":
	default:
		return NewValidationError("order must be asc or desc")
	}
	return nil
}

// TokenRequest exchanges the shared editor API key for a JWT bound to
// the requesting editor's email.
type TokenRequest struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.APIKey, validation.Required),
	)
}

// TokenResponse carries the issued editor token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
