package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/service"
)

// =====================================================
// PURGE ATTACHMENTS JOB HANDLER
// =====================================================

// PurgeAttachmentsHandler removes every stored object belonging to a
// deleted publication.
type PurgeAttachmentsHandler struct {
	attachmentService service.AttachmentService
}

// NewPurgeAttachmentsHandler creates a new purge attachments handler
func NewPurgeAttachmentsHandler(attachmentService service.AttachmentService) *PurgeAttachmentsHandler {
	return &PurgeAttachmentsHandler{attachmentService: attachmentService}
}

// ProcessTask deletes all objects under the publication's storage prefix.
func (h *PurgeAttachmentsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.PurgeAttachmentsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal purge attachments payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("publication_id", payload.PublicationID.String()).
		Msg("Purging publication attachments")

	if err := h.attachmentService.PurgeAll(ctx, payload.PublicationID); err != nil {
		log.Error().
			Err(err).
			Str("publication_id", payload.PublicationID.String()).
			Msg("Failed to purge publication attachments")
		return fmt.Errorf("purge attachments: %w", err)
	}

	log.Info().
		Str("publication_id", payload.PublicationID.String()).
		Msg("Publication attachments purged")

	return nil
}
