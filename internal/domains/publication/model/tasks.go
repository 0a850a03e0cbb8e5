package model

import "github.com/google/uuid"

// =====================================================
// TASK PAYLOADS
// =====================================================

// ReviewRequestedPayload is enqueued after a publication enters
// IN_REVIEW, so the worker can notify the review desk.
type ReviewRequestedPayload struct {
	PublicationID uuid.UUID `json:"publication_id"`
	Title         string    `json:"title"`
	AuthorEmail   string    `json:"author_email"`
	RequestedBy   string    `json:"requested_by"`
}

// PurgeAttachmentsPayload is enqueued after a publication is deleted;
// the worker removes its objects from storage out of band.
type PurgeAttachmentsPayload struct {
	PublicationID uuid.UUID `json:"publication_id"`
}
