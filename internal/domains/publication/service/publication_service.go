package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"

	"editorial-backend/internal/domains/publication/gateway"
	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/repository"
	"editorial-backend/internal/shared"
	"editorial-backend/pkg/logger"
)

// =====================================================
// PUBLICATION SERVICE IMPLEMENTATION
// =====================================================

type publicationService struct {
	repo      repository.PublicationRepository
	directory gateway.AuthorDirectory
	enqueuer  TaskEnqueuer
}

func NewPublicationService(
	repo repository.PublicationRepository,
	directory gateway.AuthorDirectory,
	enqueuer TaskEnqueuer,
) PublicationService {
	return &publicationService{
		repo:      repo,
		directory: directory,
		enqueuer:  enqueuer,
	}
}

// =====================================================
// CREATE PUBLICATION
// =====================================================

func (s *publicationService) CreatePublication(ctx context.Context, req model.CreatePublicationRequest) (*model.Publication, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewPublicationError(model.ErrCodeValidation, "Invalid request", err)
	}

	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		return nil, model.NewValidationError("author_id must be a valid UUID")
	}

	// 2. Confirm the author exists in the directory. Nothing is
	// persisted when this fails.
	exists, err := s.directory.Exists(ctx, authorID)
	if err != nil {
		if errors.Is(err, gateway.ErrDirectoryUnavailable) {
			return nil, model.NewPublicationError(model.ErrCodeDirectoryUnavailable, "Author directory unavailable", model.ErrDirectoryUnavailable)
		}
		return nil, err
	}
	if !exists {
		return nil, model.ErrAuthorNotFound
	}

	// 3. Best-effort enrichment: a missing record here degrades the
	// snapshot, never the creation. Directory unavailability follows
	// the same path even under the strict existence policy.
	pub := &model.Publication{
		ID:          uuid.New(),
		Title:       req.Title,
		Body:        req.Body,
		Abstract:    req.Abstract,
		Keywords:    pq.StringArray(req.Keywords),
		Status:      model.StatusDraft,
		AuthorID:    authorID,
		ReviewCount: 0,
		IsVisible:   false,
		Version:     1,
	}

	record, err := s.directory.Fetch(ctx, authorID)
	if err != nil && !errors.Is(err, gateway.ErrDirectoryUnavailable) {
		return nil, err
	}
	if record != nil {
		pub.AuthorName = record.FullName()
		pub.AuthorEmail = record.Email
	} else {
		logger.Warn("Creating publication without author snapshot", map[string]interface{}{
			"author_id": authorID,
		})
	}

	// 4. Persist as DRAFT
	if err := s.repo.Create(ctx, pub); err != nil {
		return nil, err
	}

	logger.Info("Publication created", map[string]interface{}{
		"publication_id": pub.ID,
		"author_id":      authorID,
	})

	return pub, nil
}

// =====================================================
// GET / LIST
// =====================================================

func (s *publicationService) GetPublication(ctx context.Context, id uuid.UUID) (*model.Publication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *publicationService) ListPublications(ctx context.Context, req model.ListPublicationsRequest) ([]model.Publication, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req.Status, req.Page, req.Limit)
}

// =====================================================
// CHANGE STATUS
// =====================================================

func (s *publicationService) ChangeStatus(ctx context.Context, id uuid.UUID, req model.ChangeStatusRequest) (*model.Publication, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewPublicationError(model.ErrCodeValidation, "Invalid request", err)
	}

	target, ok := model.ParseStatus(req.Status)
	if !ok {
		return nil, model.NewValidationError("unknown target status: " + req.Status)
	}

	// 2. Load current record
	pub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Optional client-side version check before any write
	if req.Version > 0 && req.Version != pub.Version {
		return nil, model.ErrVersionMismatch
	}

	// 4. Semantic rules first, structural legality second. Both must
	// pass; they guard different invariants.
	if err := validateTransition(pub, target, req); err != nil {
		return nil, err
	}

	if !model.CanTransition(pub.Status, target) {
		return nil, model.NewPublicationError(
			model.ErrCodeIllegalTransition,
			fmt.Sprintf("cannot transition from %s to %s, allowed: %v", pub.Status, target, model.AllowedTransitions(pub.Status)),
			model.ErrIllegalTransition,
		)
	}

	// 5. Begin transaction
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.repo.RollbackTx(ctx, tx)

	// 6. Single atomic UPDATE: status, optional notes, and the review
	// counter increment when entering IN_REVIEW.
	var reviewNotes *string
	if strings.TrimSpace(req.ReviewNotes) != "" {
		reviewNotes = &req.ReviewNotes
	}
	incrementReview := target == model.StatusInReview

	if err := s.repo.UpdateStatusWithTx(ctx, tx, id, target, reviewNotes, incrementReview, pub.Version); err != nil {
		return nil, err
	}

	// 7. Record the transition in the same transaction
	fromStatus := pub.Status
	history := &model.StatusHistory{
		PublicationID: id,
		FromStatus:    &fromStatus,
		ToStatus:      target,
		Notes:         reviewNotes,
	}
	if req.ChangedBy != "" {
		history.ChangedBy = &req.ChangedBy
	}
	if err := s.repo.CreateStatusHistoryWithTx(ctx, tx, history); err != nil {
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	// 8. Commit
	if err := s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.repo.InvalidateCache(ctx, id)

	logger.Info("Publication status changed", map[string]interface{}{
		"publication_id": id,
		"from":           fromStatus,
		"to":             target,
	})

	// 9. Notify the review desk after commit
	if target == model.StatusInReview {
		s.enqueueReviewRequested(pub, req.ChangedBy)
	}

	return s.repo.GetByID(ctx, id)
}

// =====================================================
// UPDATE CONTENT
// =====================================================

func (s *publicationService) UpdateContent(ctx context.Context, id uuid.UUID, req model.UpdateContentRequest) (*model.Publication, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewPublicationError(model.ErrCodeValidation, "Invalid request", err)
	}

	// 2. Load current record
	pub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Content is only editable before the editorial decision
	if !pub.IsEditable() {
		return nil, model.ErrNotEditable
	}

	if req.Version > 0 && req.Version != pub.Version {
		return nil, model.ErrVersionMismatch
	}

	// 4. Apply and persist with optimistic locking
	pub.Title = req.Title
	pub.Body = req.Body
	pub.Abstract = req.Abstract
	pub.Keywords = pq.StringArray(req.Keywords)

	if err := s.repo.UpdateContent(ctx, pub); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// =====================================================
// SET VISIBILITY
// =====================================================

func (s *publicationService) SetVisibility(ctx context.Context, id uuid.UUID, req model.SetVisibilityRequest) (*model.Publication, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewPublicationError(model.ErrCodeValidation, "Invalid request", err)
	}

	pub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Version > 0 && req.Version != pub.Version {
		return nil, model.ErrVersionMismatch
	}

	if err := s.repo.UpdateVisibility(ctx, id, *req.IsVisible, pub.Version); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// =====================================================
// DELETE PUBLICATION
// =====================================================

func (s *publicationService) DeletePublication(ctx context.Context, id uuid.UUID) error {
	// 1. Load current record
	pub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. Published work is immutable history
	if pub.Status == model.StatusPublished {
		return model.ErrCannotDelete
	}

	// 3. Delete the row; attachments rows go with it via the schema
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Publication deleted", map[string]interface{}{
		"publication_id": id,
	})

	// 4. Stored objects are purged out of band
	s.enqueuePurgeAttachments(id)

	return nil
}

// =====================================================
// STATUS HISTORY
// =====================================================

func (s *publicationService) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]model.StatusHistory, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, id)
}

// =====================================================
// STATS
// =====================================================

func (s *publicationService) GetStats(ctx context.Context) (*model.Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		ByStatus: make([]model.StatusCount, 0, len(model.AllStatuses)),
	}
	for _, status := range model.AllStatuses {
		count := counts[status]
		stats.ByStatus = append(stats.ByStatus, model.StatusCount{Status: status, Count: count})
		stats.Total += count
	}

	return stats, nil
}

// =====================================================
// TASK ENQUEUEING
// =====================================================

// enqueueReviewRequested notifies the worker that a publication
// entered review. Failure to enqueue is logged, never surfaced: the
// status change has already committed.
func (s *publicationService) enqueueReviewRequested(pub *model.Publication, requestedBy string) {
	payload, err := json.Marshal(model.ReviewRequestedPayload{
		PublicationID: pub.ID,
		Title:         pub.Title,
		AuthorEmail:   pub.AuthorEmail,
		RequestedBy:   requestedBy,
	})
	if err != nil {
		logger.Error("Failed to marshal review requested task", err)
		return
	}

	task := asynq.NewTask(shared.TypeReviewRequested, payload)

	_, err = s.enqueuer.Enqueue(task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		logger.Error("Failed to enqueue review requested task", err)
		return
	}

	logger.Info("Enqueued review requested task", map[string]interface{}{
		"publication_id": pub.ID,
	})
}

// enqueuePurgeAttachments schedules the storage cleanup for a deleted
// publication.
func (s *publicationService) enqueuePurgeAttachments(publicationID uuid.UUID) {
	payload, err := json.Marshal(model.PurgeAttachmentsPayload{
		PublicationID: publicationID,
	})
	if err != nil {
		logger.Error("Failed to marshal purge attachments task", err)
		return
	}

	task := asynq.NewTask(shared.TypePurgeAttachments, payload)

	_, err = s.enqueuer.Enqueue(task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to enqueue purge attachments task", err)
		return
	}

	logger.Info("Enqueued purge attachments task", map[string]interface{}{
		"publication_id": publicationID,
	})
}
