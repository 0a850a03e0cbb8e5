package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"editorial-backend/internal/domains/publication/model"
)

// =====================================================
// PUBLICATION REPOSITORY INTERFACE
// =====================================================
type PublicationRepository interface {
	// Transaction management
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CommitTx(ctx context.Context, tx pgx.Tx) error
	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// Publication operations
	Create(ctx context.Context, pub *model.Publication) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Publication, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Publication, int, error)
	UpdateContent(ctx context.Context, pub *model.Publication) error
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, newStatus model.Status, reviewNotes *string, incrementReview bool, version int) error
	UpdateVisibility(ctx context.Context, id uuid.UUID, isVisible bool, version int) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[model.Status]int, error)
	ListInReviewOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.Publication, error)

	// Status history
	CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.StatusHistory) error
	GetStatusHistory(ctx context.Context, publicationID uuid.UUID) ([]model.StatusHistory, error)

	// Attachments
	CreateAttachment(ctx context.Context, att *model.Attachment) error
	GetAttachmentByID(ctx context.Context, attachmentID uuid.UUID) (*model.Attachment, error)
	ListAttachments(ctx context.Context, publicationID uuid.UUID) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error

	// Cache invalidation for transactional writes, called after commit
	InvalidateCache(ctx context.Context, id uuid.UUID)
}
