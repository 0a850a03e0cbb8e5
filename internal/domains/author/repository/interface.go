package repository

import (
	"context"

	"github.com/google/uuid"

	"editorial-backend/internal/domains/author/model"
)

// =====================================================
// AUTHOR REPOSITORY INTERFACE
// =====================================================
type AuthorRepository interface {
	Create(ctx context.Context, author *model.Author) (*model.Author, error)
	// CreateBatch inserts all authors in one transaction; any failure
	// rolls back the whole batch.
	CreateBatch(ctx context.Context, authors []*model.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context, req model.ListAuthorsRequest) ([]model.Author, int, error)
	Update(ctx context.Context, author *model.Author, currentVersion int) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
