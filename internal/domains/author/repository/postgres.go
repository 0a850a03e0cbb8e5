package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"editorial-backend/internal/domains/author/model"
	"editorial-backend/pkg/cache"
	"editorial-backend/pkg/database"
	"editorial-backend/pkg/logger"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const (
	cacheKeyAuthor = "author:id:%s"
	authorCacheTTL = 15 * time.Minute
)

type postgresAuthorRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresAuthorRepository(pool *pgxpool.Pool, cache cache.Cache) AuthorRepository {
	return &postgresAuthorRepository{
		pool:  pool,
		cache: cache,
	}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresAuthorRepository) Create(ctx context.Context, author *model.Author) (*model.Author, error) {
	query := `
		INSERT INTO authors (id, first_name, last_name, email, specialization, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		author.ID,
		author.FirstName,
		author.LastName,
		author.Email,
		author.Specialization,
		author.Version,
	).Scan(&author.CreatedAt, &author.UpdatedAt)

	if err != nil {
		if isDuplicateEmail(err) {
			return nil, model.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return author, nil
}

func (r *postgresAuthorRepository) CreateBatch(ctx context.Context, authors []*model.Author) error {
	if len(authors) == 0 {
		return nil
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, author := range authors {
			if err := r.createWithTx(ctx, tx, author); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresAuthorRepository) createWithTx(ctx context.Context, tx pgx.Tx, author *model.Author) error {
	query := `
		INSERT INTO authors (id, first_name, last_name, email, specialization, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		author.ID,
		author.FirstName,
		author.LastName,
		author.Email,
		author.Specialization,
		author.Version,
	).Scan(&author.CreatedAt, &author.UpdatedAt)

	if err != nil {
		if isDuplicateEmail(err) {
			return fmt.Errorf("email %s: %w", author.Email, model.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to insert author %s: %w", author.Email, err)
	}
	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresAuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	cacheKey := fmt.Sprintf(cacheKeyAuthor, id)

	// Step 1: Try cache first
	var cached model.Author
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("Author cache read failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	if found {
		return &cached, nil
	}

	// Step 2: Cache miss, load from database
	query := `
		SELECT id, first_name, last_name, email, specialization, version, created_at, updated_at
		FROM authors
		WHERE id = $1
	`

	var author model.Author
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Email,
		&author.Specialization,
		&author.Version,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	// Step 3: Populate cache for the next read
	if err := r.cache.Set(ctx, cacheKey, author, authorCacheTTL); err != nil {
		logger.Warn("Author cache write failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	return &author, nil
}

func (r *postgresAuthorRepository) List(ctx context.Context, req model.ListAuthorsRequest) ([]model.Author, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, first_name, last_name, email, specialization, version, created_at, updated_at
		FROM authors
		WHERE 1=1
	`)

	args := []interface{}{}
	argPos := 1

	if req.Search != "" {
		pattern := "%" + escapeLikePattern(req.Search) + "%"
		queryBuilder.WriteString(fmt.Sprintf(
			" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, pattern)
		argPos++
	}

	// Sort column is whitelisted by the request validator; never
	// interpolate raw client input here.
	sortColumn := "created_at"
	switch req.SortBy {
	case "last_name", "email", "updated_at":
		sortColumn = req.SortBy
	}

	sortOrder := "DESC"
	if req.Order == "asc" {
		sortOrder = "ASC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortColumn, sortOrder))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		var author model.Author
		if err := rows.Scan(
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.Email,
			&author.Specialization,
			&author.Version,
			&author.CreatedAt,
			&author.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating authors: %w", err)
	}

	// Total count for pagination metadata
	countQuery := `SELECT COUNT(*) FROM authors WHERE 1=1`
	countArgs := []interface{}{}
	if req.Search != "" {
		countQuery += " AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)"
		countArgs = append(countArgs, "%"+escapeLikePattern(req.Search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	return authors, total, nil
}

func (r *postgresAuthorRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

func (r *postgresAuthorRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM authors WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresAuthorRepository) Update(ctx context.Context, author *model.Author, currentVersion int) (*model.Author, error) {
	query := `
		UPDATE authors
		SET first_name = $1,
		    last_name = $2,
		    email = $3,
		    specialization = $4,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $5 AND version = $6
		RETURNING id, first_name, last_name, email, specialization, version, created_at, updated_at
	`

	var updated model.Author
	err := r.pool.QueryRow(ctx, query,
		author.FirstName,
		author.LastName,
		author.Email,
		author.Specialization,
		author.ID,
		currentVersion,
	).Scan(
		&updated.ID,
		&updated.FirstName,
		&updated.LastName,
		&updated.Email,
		&updated.Specialization,
		&updated.Version,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Zero rows means either a missing author or a stale version.
			exists, checkErr := r.ExistsByID(ctx, author.ID)
			if checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, model.ErrAuthorNotFound
			}
			return nil, model.ErrVersionMismatch
		}
		if isDuplicateEmail(err) {
			return nil, model.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidateCache(ctx, author.ID)
	return &updated, nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	r.invalidateCache(ctx, id)
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (r *postgresAuthorRepository) invalidateCache(ctx context.Context, id uuid.UUID) {
	cacheKey := fmt.Sprintf(cacheKeyAuthor, id)
	if err := r.cache.Delete(ctx, cacheKey); err != nil {
		logger.Error("Author cache invalidation failed", err)
	}
}

// isDuplicateEmail reports whether err is the unique violation on the
// authors email constraint.
func isDuplicateEmail(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "email")
	}
	return false
}

// escapeLikePattern neutralizes LIKE wildcards in user-supplied search
// text so "50%" matches literally.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
