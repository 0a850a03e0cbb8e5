package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"editorial-backend/internal/config"
	"editorial-backend/internal/domains/author/model"
	"editorial-backend/internal/domains/author/repository"
	"editorial-backend/pkg/jwt"
	"editorial-backend/pkg/logger"
)

// =====================================================
// AUTHOR SERVICE IMPLEMENTATION
// =====================================================

type authorService struct {
	repo       repository.AuthorRepository
	jwtManager *jwt.Manager
	jwtConfig  config.JWTConfig
}

func NewAuthorService(
	repo repository.AuthorRepository,
	jwtManager *jwt.Manager,
	jwtConfig config.JWTConfig,
) AuthorService {
	return &authorService{
		repo:       repo,
		jwtManager: jwtManager,
		jwtConfig:  jwtConfig,
	}
}

// =====================================================
// CREATE AUTHOR
// =====================================================

func (s *authorService) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, &model.AuthorError{Code: model.ErrCodeValidation, Message: "Invalid request", Err: err}
	}

	// 2. Insert; the unique index on email is the source of truth for
	// duplicates, the repository maps it to ErrDuplicateEmail.
	author := &model.Author{
		ID:             uuid.New(),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Specialization: strings.TrimSpace(req.Specialization),
		Version:        1,
	}

	created, err := s.repo.Create(ctx, author)
	if err != nil {
		return nil, err
	}

	logger.Info("Author registered", map[string]interface{}{
		"author_id": created.ID,
		"email":     created.Email,
	})

	return created, nil
}

// =====================================================
// GET / LIST
// =====================================================

func (s *authorService) GetAuthor(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) ListAuthors(ctx context.Context, req model.ListAuthorsRequest) ([]model.Author, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}

// =====================================================
// UPDATE AUTHOR
// =====================================================

func (s *authorService) UpdateAuthor(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, &model.AuthorError{Code: model.ErrCodeValidation, Message: "Invalid request", Err: err}
	}

	// 2. Full replace of the mutable fields. The repository compares
	// req.Version against the stored row, so a stale client loses.
	author := &model.Author{
		ID:             id,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Specialization: strings.TrimSpace(req.Specialization),
	}

	updated, err := s.repo.Update(ctx, author, req.Version)
	if err != nil {
		return nil, err
	}

	logger.Info("Author updated", map[string]interface{}{
		"author_id": updated.ID,
		"version":   updated.Version,
	})

	return updated, nil
}

// =====================================================
// DELETE AUTHOR
// =====================================================

func (s *authorService) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	// Publications snapshot the author at creation time, so removing
	// the registry row never touches the publications service.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Author deleted", map[string]interface{}{
		"author_id": id,
	})

	return nil
}

// =====================================================
// EXISTENCE PROBE
// =====================================================

func (s *authorService) AuthorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

// =====================================================
// EDITOR TOKEN
// =====================================================

func (s *authorService) IssueEditorToken(ctx context.Context, req model.TokenRequest) (*model.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &model.AuthorError{Code: model.ErrCodeValidation, Message: "Invalid request", Err: err}
	}

	// An empty hash means token issuing is switched off for this
	// deployment; treat every key as invalid rather than every key as
	// valid.
	if s.jwtConfig.EditorAPIKeyHash == "" {
		logger.Warn("Editor token requested but no API key hash is configured", map[string]interface{}{
			"email": req.Email,
		})
		return nil, model.ErrInvalidAPIKey
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.jwtConfig.EditorAPIKeyHash), []byte(req.APIKey)); err != nil {
		logger.Warn("Editor token rejected", map[string]interface{}{
			"email": req.Email,
		})
		return nil, model.ErrInvalidAPIKey
	}

	token, expiresAt, err := s.jwtManager.GenerateEditorToken(req.Email, s.jwtConfig.TokenTTL)
	if err != nil {
		return nil, err
	}

	logger.Info("Editor token issued", map[string]interface{}{
		"email":      req.Email,
		"expires_at": expiresAt,
	})

	return &model.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
