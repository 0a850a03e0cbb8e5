package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/publication/model"
)

// =====================================================
// REVIEW REQUESTED JOB HANDLER
// =====================================================

// ReviewRequestedHandler handles the event task enqueued when a
// publication enters IN_REVIEW. Delivery is a structured log line; a
// mail or chat integration can hang off this handler later without
// touching the enqueue side.
type ReviewRequestedHandler struct{}

// NewReviewRequestedHandler creates a new review requested handler
func NewReviewRequestedHandler() *ReviewRequestedHandler {
	return &ReviewRequestedHandler{}
}

// ProcessTask notifies the review desk about a submitted publication.
func (h *ReviewRequestedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.ReviewRequestedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal review requested payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("publication_id", payload.PublicationID.String()).
		Str("title", payload.Title).
		Str("author_email", payload.AuthorEmail).
		Str("requested_by", payload.RequestedBy).
		Msg("Review requested notification delivered")

	return nil
}
