package service

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"editorial-backend/internal/domains/author/model"
)

// =====================================================
// AUTHOR SERVICE INTERFACE
// =====================================================
type AuthorService interface {
	// Register a new author
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)

	// Get author by ID
	GetAuthor(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List authors with search, sort and pagination
	ListAuthors(ctx context.Context, req model.ListAuthorsRequest) ([]model.Author, int, error)

	// Replace the mutable fields, guarded by optimistic locking
	UpdateAuthor(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error)

	// Delete an author; existing publications keep their snapshots
	DeleteAuthor(ctx context.Context, id uuid.UUID) error

	// AuthorExists backs the lightweight existence probe the
	// publications service calls before accepting a new publication
	AuthorExists(ctx context.Context, id uuid.UUID) (bool, error)

	// IssueEditorToken exchanges the shared editor API key for a
	// signed JWT bound to the presented email
	IssueEditorToken(ctx context.Context, req model.TokenRequest) (*model.TokenResponse, error)
}

// =====================================================
// BULK IMPORT SERVICE INTERFACE
// =====================================================
type BulkImportService interface {
	// ImportAuthors processes a CSV file and creates authors
	// all-or-nothing (sync mode)
	ImportAuthors(ctx context.Context, file *multipart.FileHeader) (*model.BulkImportResult, error)
}
