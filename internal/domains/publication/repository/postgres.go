package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/pkg/cache"
	"editorial-backend/pkg/logger"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const (
	cacheKeyPublication = "publication:id:%s"
	cacheKeyListPattern = "publications:list:*"
	cacheKeyListFormat  = "publications:list:%s:%d:%d"
	publicationCacheTTL = 15 * time.Minute
	publicationListTTL  = 5 * time.Minute
)

type postgresPublicationRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresPublicationRepository(pool *pgxpool.Pool, cache cache.Cache) PublicationRepository {
	return &postgresPublicationRepository{
		pool:  pool,
		cache: cache,
	}
}

// listCacheEntry wraps a cached page of the listing endpoint.
type listCacheEntry struct {
	Items []model.Publication `json:"items"`
	Total int                 `json:"total"`
}

// =====================================================
// TRANSACTION MANAGEMENT
// =====================================================

func (r *postgresPublicationRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *postgresPublicationRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (r *postgresPublicationRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// =====================================================
// CREATE PUBLICATION
// =====================================================

func (r *postgresPublicationRepository) Create(ctx context.Context, pub *model.Publication) error {
	query := `
		INSERT INTO publications (
			id, title, body, abstract, keywords,
			status, author_id, author_name, author_email,
			review_count, is_visible, version
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		pub.ID,
		pub.Title,
		pub.Body,
		pub.Abstract,
		pq.Array(pub.Keywords),
		pub.Status,
		pub.AuthorID,
		pub.AuthorName,
		pub.AuthorEmail,
		pub.ReviewCount,
		pub.IsVisible,
		pub.Version,
	).Scan(&pub.CreatedAt, &pub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}

	r.invalidateListCache(ctx)
	return nil
}

// =====================================================
// GET PUBLICATION
// =====================================================

func (r *postgresPublicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Publication, error) {
	cacheKey := fmt.Sprintf(cacheKeyPublication, id)

	// Step 1: Try cache first
	var cached model.Publication
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("Publication cache read failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	if found {
		return &cached, nil
	}

	// Step 2: Cache miss, load from database
	query := `
		SELECT
			id, title, body, abstract, keywords,
			status, author_id, author_name, author_email,
			review_notes, review_count, is_visible, version,
			created_at, updated_at
		FROM publications
		WHERE id = $1
	`

	var pub model.Publication
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&pub.ID,
		&pub.Title,
		&pub.Body,
		&pub.Abstract,
		pq.Array(&pub.Keywords),
		&pub.Status,
		&pub.AuthorID,
		&pub.AuthorName,
		&pub.AuthorEmail,
		&pub.ReviewNotes,
		&pub.ReviewCount,
		&pub.IsVisible,
		&pub.Version,
		&pub.CreatedAt,
		&pub.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPublicationNotFound
		}
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}

	// Step 3: Populate cache for subsequent reads
	if err := r.cache.Set(ctx, cacheKey, pub, publicationCacheTTL); err != nil {
		logger.Warn("Publication cache write failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	return &pub, nil
}

// =====================================================
// LIST PUBLICATIONS
// =====================================================

func (r *postgresPublicationRepository) List(ctx context.Context, status string, page, limit int) ([]model.Publication, int, error) {
	cacheKey := fmt.Sprintf(cacheKeyListFormat, status, page, limit)

	var cached listCacheEntry
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("Publication list cache read failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	if found {
		return cached.Items, cached.Total, nil
	}

	offset := (page - 1) * limit

	queryBuilder := `
		SELECT
			id, title, body, abstract, keywords,
			status, author_id, author_name, author_email,
			review_notes, review_count, is_visible, version,
			created_at, updated_at
		FROM publications
		WHERE 1=1
	`
	countQuery := `SELECT COUNT(*) FROM publications WHERE 1=1`
	args := []interface{}{}
	countArgs := []interface{}{}

	if status != "" {
		queryBuilder += ` AND status = $1`
		countQuery += ` AND status = $1`
		args = append(args, status)
		countArgs = append(countArgs, status)
	}

	queryBuilder += ` ORDER BY created_at DESC LIMIT $` + fmt.Sprintf("%d", len(args)+1) + ` OFFSET $` + fmt.Sprintf("%d", len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count publications: %w", err)
	}

	rows, err := r.pool.Query(ctx, queryBuilder, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	var pubs []model.Publication
	for rows.Next() {
		var pub model.Publication
		err := rows.Scan(
			&pub.ID,
			&pub.Title,
			&pub.Body,
			&pub.Abstract,
			pq.Array(&pub.Keywords),
			&pub.Status,
			&pub.AuthorID,
			&pub.AuthorName,
			&pub.AuthorEmail,
			&pub.ReviewNotes,
			&pub.ReviewCount,
			&pub.IsVisible,
			&pub.Version,
			&pub.CreatedAt,
			&pub.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan publication: %w", err)
		}
		pubs = append(pubs, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate publications: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, listCacheEntry{Items: pubs, Total: total}, publicationListTTL); err != nil {
		logger.Warn("Publication list cache write failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	return pubs, total, nil
}

// =====================================================
// UPDATE CONTENT
// =====================================================

func (r *postgresPublicationRepository) UpdateContent(ctx context.Context, pub *model.Publication) error {
	query := `
		UPDATE publications
		SET title = $1,
			body = $2,
			abstract = $3,
			keywords = $4,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $5 AND version = $6
	`

	result, err := r.pool.Exec(ctx, query,
		pub.Title,
		pub.Body,
		pub.Abstract,
		pq.Array(pub.Keywords),
		pub.ID,
		pub.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update publication content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrVersionMismatch
	}

	r.InvalidateCache(ctx, pub.ID)
	return nil
}

// =====================================================
// UPDATE STATUS (transactional)
// =====================================================

// UpdateStatusWithTx applies a status change as one atomic UPDATE.
// The review counter increment and the optional review notes ride the
// same statement so no intermediate state is ever observable.
func (r *postgresPublicationRepository) UpdateStatusWithTx(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	newStatus model.Status,
	reviewNotes *string,
	incrementReview bool,
	version int,
) error {
	setClauses := []string{
		"status = $1",
		"version = version + 1",
		"updated_at = NOW()",
	}
	args := []interface{}{newStatus, id, version}
	argIdx := 4

	if incrementReview {
		setClauses = append(setClauses, "review_count = review_count + 1")
	}

	if reviewNotes != nil {
		setClauses = append(setClauses, fmt.Sprintf("review_notes = $%d", argIdx))
		args = append(args, *reviewNotes)
		argIdx++
	}

	setSQL := strings.Join(setClauses, ", ")

	query := fmt.Sprintf(`
        UPDATE publications
        SET %s
        WHERE id = $2 AND version = $3
    `, setSQL)

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update publication status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrVersionMismatch
	}

	return nil
}

// =====================================================
// UPDATE VISIBILITY
// =====================================================

func (r *postgresPublicationRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, isVisible bool, version int) error {
	query := `
		UPDATE publications
		SET is_visible = $1,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	result, err := r.pool.Exec(ctx, query, isVisible, id, version)
	if err != nil {
		return fmt.Errorf("failed to update publication visibility: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrVersionMismatch
	}

	r.InvalidateCache(ctx, id)
	return nil
}

// =====================================================
// DELETE PUBLICATION
// =====================================================

func (r *postgresPublicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM publications WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete publication: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPublicationNotFound
	}

	r.InvalidateCache(ctx, id)
	return nil
}

// =====================================================
// STATS
// =====================================================

func (r *postgresPublicationRepository) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM publications GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count publications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status model.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}

// =====================================================
// REVIEW REMINDER SWEEP
// =====================================================

func (r *postgresPublicationRepository) ListInReviewOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.Publication, error) {
	query := `
		SELECT
			id, title, body, abstract, keywords,
			status, author_id, author_name, author_email,
			review_notes, review_count, is_visible, version,
			created_at, updated_at
		FROM publications
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.StatusInReview, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale in-review publications: %w", err)
	}
	defer rows.Close()

	var pubs []model.Publication
	for rows.Next() {
		var pub model.Publication
		err := rows.Scan(
			&pub.ID,
			&pub.Title,
			&pub.Body,
			&pub.Abstract,
			pq.Array(&pub.Keywords),
			&pub.Status,
			&pub.AuthorID,
			&pub.AuthorName,
			&pub.AuthorEmail,
			&pub.ReviewNotes,
			&pub.ReviewCount,
			&pub.IsVisible,
			&pub.Version,
			&pub.CreatedAt,
			&pub.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale in-review publication: %w", err)
		}
		pubs = append(pubs, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stale in-review publications: %w", err)
	}

	return pubs, nil
}

// =====================================================
// STATUS HISTORY
// =====================================================

func (r *postgresPublicationRepository) CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.StatusHistory) error {
	query := `
		INSERT INTO publication_status_history (
			publication_id, from_status, to_status, changed_by, notes
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		history.PublicationID,
		history.FromStatus,
		history.ToStatus,
		history.ChangedBy,
		history.Notes,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return nil
}

func (r *postgresPublicationRepository) GetStatusHistory(ctx context.Context, publicationID uuid.UUID) ([]model.StatusHistory, error) {
	query := `
		SELECT
			id, publication_id, from_status, to_status, changed_by, notes, created_at
		FROM publication_status_history
		WHERE publication_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, publicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status history: %w", err)
	}
	defer rows.Close()

	var entries []model.StatusHistory
	for rows.Next() {
		var entry model.StatusHistory
		err := rows.Scan(
			&entry.ID,
			&entry.PublicationID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.ChangedBy,
			&entry.Notes,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}

	return entries, nil
}

// =====================================================
// ATTACHMENTS
// =====================================================

func (r *postgresPublicationRepository) CreateAttachment(ctx context.Context, att *model.Attachment) error {
	query := `
		INSERT INTO publication_attachments (
			id, publication_id, file_name, content_type, size_bytes,
			storage_key, url, thumbnail_key, thumbnail_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		att.ID,
		att.PublicationID,
		att.FileName,
		att.ContentType,
		att.SizeBytes,
		att.StorageKey,
		att.URL,
		att.ThumbnailKey,
		att.ThumbnailURL,
	).Scan(&att.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

func (r *postgresPublicationRepository) GetAttachmentByID(ctx context.Context, attachmentID uuid.UUID) (*model.Attachment, error) {
	query := `
		SELECT
			id, publication_id, file_name, content_type, size_bytes,
			storage_key, url, thumbnail_key, thumbnail_url, created_at
		FROM publication_attachments
		WHERE id = $1
	`

	var att model.Attachment
	err := r.pool.QueryRow(ctx, query, attachmentID).Scan(
		&att.ID,
		&att.PublicationID,
		&att.FileName,
		&att.ContentType,
		&att.SizeBytes,
		&att.StorageKey,
		&att.URL,
		&att.ThumbnailKey,
		&att.ThumbnailURL,
		&att.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return &att, nil
}

func (r *postgresPublicationRepository) ListAttachments(ctx context.Context, publicationID uuid.UUID) ([]model.Attachment, error) {
	query := `
		SELECT
			id, publication_id, file_name, content_type, size_bytes,
			storage_key, url, thumbnail_key, thumbnail_url, created_at
		FROM publication_attachments
		WHERE publication_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, publicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		var att model.Attachment
		err := rows.Scan(
			&att.ID,
			&att.PublicationID,
			&att.FileName,
			&att.ContentType,
			&att.SizeBytes,
			&att.StorageKey,
			&att.URL,
			&att.ThumbnailKey,
			&att.ThumbnailURL,
			&att.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}

	return attachments, nil
}

func (r *postgresPublicationRepository) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error {
	query := `DELETE FROM publication_attachments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrAttachmentNotFound
	}

	return nil
}

// =====================================================
// CACHE INVALIDATION
// =====================================================

// InvalidateCache drops the cached record and all list pages. Called
// directly by non-transactional writes and by the service after a
// transactional status change commits.
func (r *postgresPublicationRepository) InvalidateCache(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, fmt.Sprintf(cacheKeyPublication, id)); err != nil {
		logger.Error("Failed to invalidate publication cache", err)
	}
	r.invalidateListCache(ctx)
}

func (r *postgresPublicationRepository) invalidateListCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, cacheKeyListPattern); err != nil {
		logger.Error("Failed to invalidate publication list cache", err)
	}
}
