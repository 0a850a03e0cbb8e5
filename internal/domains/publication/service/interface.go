package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/xuri/excelize/v2"

	"editorial-backend/internal/domains/publication/model"
)

// =====================================================
// PUBLICATION SERVICE INTERFACE
// =====================================================
type PublicationService interface {
	// Create a new publication in DRAFT after author verification
	CreatePublication(ctx context.Context, req model.CreatePublicationRequest) (*model.Publication, error)

	// Get publication by ID
	GetPublication(ctx context.Context, id uuid.UUID) (*model.Publication, error)

	// List publications with optional status filter and pagination
	ListPublications(ctx context.Context, req model.ListPublicationsRequest) ([]model.Publication, int, error)

	// Update title/body/abstract/keywords while editable
	UpdateContent(ctx context.Context, id uuid.UUID, req model.UpdateContentRequest) (*model.Publication, error)

	// Drive the editorial state machine
	ChangeStatus(ctx context.Context, id uuid.UUID, req model.ChangeStatusRequest) (*model.Publication, error)

	// Toggle the display flag
	SetVisibility(ctx context.Context, id uuid.UUID, req model.SetVisibilityRequest) (*model.Publication, error)

	// Delete a publication (forbidden once PUBLISHED)
	DeletePublication(ctx context.Context, id uuid.UUID) error

	// Full transition history for one publication
	GetStatusHistory(ctx context.Context, id uuid.UUID) ([]model.StatusHistory, error)

	// Per-status counts, zero-filled for statuses with no records
	GetStats(ctx context.Context) (*model.Stats, error)
}

// =====================================================
// ATTACHMENT SERVICE INTERFACE
// =====================================================
type AttachmentService interface {
	// Upload stores a file for a publication; image uploads also get a
	// generated thumbnail
	Upload(ctx context.Context, publicationID uuid.UUID, fileName, contentType string, data []byte) (*model.Attachment, error)

	// List attachments of a publication
	List(ctx context.Context, publicationID uuid.UUID) ([]model.Attachment, error)

	// Delete one attachment and its stored objects
	Delete(ctx context.Context, publicationID, attachmentID uuid.UUID) error

	// PurgeAll removes every stored object under a publication's
	// prefix; used by the worker after a publication is deleted
	PurgeAll(ctx context.Context, publicationID uuid.UUID) error
}

// =====================================================
// EXPORT SERVICE INTERFACE
// =====================================================
type ExportService interface {
	// ExportToExcel builds an xlsx workbook of publications
	ExportToExcel(ctx context.Context, req model.ExportPublicationsRequest) (*excelize.File, error)
}

// =====================================================
// TASK ENQUEUER
// =====================================================

// TaskEnqueuer is the slice of *asynq.Client the services need, kept
// as an interface so tests can capture enqueued tasks without Redis.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
