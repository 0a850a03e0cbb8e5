package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreatePublicationRequest creates a new draft. Author enrichment is
// resolved against the author directory, not taken from the payload.
type CreatePublicationRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`
	AuthorID string   `json:"author_id"`
}

func (r CreatePublicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Body, validation.Required),
		validation.Field(&r.Abstract, validation.Length(0, 2000)),
		validation.Field(&r.Keywords, validation.Length(0, 20)),
		validation.Field(&r.AuthorID, validation.Required, is.UUID),
	)
}

// UpdateContentRequest edits title/body/abstract/keywords. Only valid
// while the publication is in DRAFT or IN_REVIEW.
type UpdateContentRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`
	Version  int      `json:"version"`
}

func (r UpdateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Body, validation.Required),
		validation.Field(&r.Abstract, validation.Length(0, 2000)),
		validation.Field(&r.Keywords, validation.Length(0, 20)),
		validation.Field(&r.Version, validation.Min(0)),
	)
}

// ChangeStatusRequest drives the editorial state machine. ChangedBy is
// filled from the authenticated editor, never from the payload.
type ChangeStatusRequest struct {
	Status      string `json:"status"`
	ReviewNotes string `json:"review_notes"`
	Version     int    `json:"version"`
	ChangedBy   string `json:"-"`
}

func (r ChangeStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			StatusDraft.String(),
			StatusInReview.String(),
			StatusApproved.String(),
			StatusPublished.String(),
			StatusRejected.String(),
		)),
		validation.Field(&r.ReviewNotes, validation.Length(0, 2000)),
		validation.Field(&r.Version, validation.Min(0)),
	)
}

// SetVisibilityRequest toggles whether a publication shows up in
// public-facing reads. Pointer so "false" is distinguishable from
// "field missing".
type SetVisibilityRequest struct {
	IsVisible *bool `json:"is_visible"`
	Version   int   `json:"version"`
}

func (r SetVisibilityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsVisible, validation.NotNil),
		validation.Field(&r.Version, validation.Min(0)),
	)
}

// ListPublicationsRequest filters and paginates the listing endpoint.
type ListPublicationsRequest struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Validate normalizes pagination and checks the optional status filter.
func (r *ListPublicationsRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}

	if r.Status != "" {
		if _, ok := ParseStatus(r.Status); !ok {
			return NewValidationError("unknown status filter: " + r.Status)
		}
	}
	return nil
}

// ExportPublicationsRequest drives the Excel export.
type ExportPublicationsRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

func (r *ExportPublicationsRequest) Validate() error {
	if r.Limit <= 0 || r.Limit > 100 {
		r.Limit = 100
	}

	if r.Status != "" {
		if _, ok := ParseStatus(r.Status); !ok {
			return NewValidationError("unknown status filter: " + r.Status)
		}
	}
	return nil
}
