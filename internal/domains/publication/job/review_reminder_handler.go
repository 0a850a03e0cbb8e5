package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/config"
	"editorial-backend/internal/domains/publication/repository"
	"editorial-backend/internal/shared"
	"editorial-backend/pkg/cache"
)

// reminderMarkerTTL suppresses duplicate reminders for the same
// publication across hourly scans.
const reminderMarkerTTL = 24 * time.Hour

// =====================================================
// REVIEW REMINDER JOB HANDLER
// =====================================================

// ReviewReminderHandler flags publications that have been sitting in
// IN_REVIEW longer than the configured age.
type ReviewReminderHandler struct {
	repo      repository.PublicationRepository
	cache     cache.Cache
	jobConfig config.JobConfig
}

// NewReviewReminderHandler creates a new review reminder handler
func NewReviewReminderHandler(
	repo repository.PublicationRepository,
	cache cache.Cache,
	jobConfig config.JobConfig,
) *ReviewReminderHandler {
	return &ReviewReminderHandler{
		repo:      repo,
		cache:     cache,
		jobConfig: jobConfig,
	}
}

// ProcessTask scans for overdue reviews and logs each one, at most once
// per marker TTL.
func (h *ReviewReminderHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	// 1. Parse payload; fall back to configured defaults
	var payload shared.ReviewReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal review reminder payload, using defaults")
	}

	age := h.jobConfig.ReviewReminderAge
	if payload.OlderThan != "" {
		if parsed, err := time.ParseDuration(payload.OlderThan); err == nil && parsed > 0 {
			age = parsed
		}
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = h.jobConfig.ReviewReminderLimit
	}

	// 2. Find reviews older than the cutoff
	cutoff := time.Now().Add(-age)
	overdue, err := h.repo.ListInReviewOlderThan(ctx, cutoff, limit)
	if err != nil {
		return fmt.Errorf("list overdue reviews: %w", err)
	}

	if len(overdue) == 0 {
		log.Info().Msg("No overdue reviews found")
		return nil
	}

	// 3. Log each overdue review, deduplicated via a Redis marker
	reminded := 0
	for _, pub := range overdue {
		markerKey := fmt.Sprintf("reminder:publication:%s", pub.ID)

		seen, err := h.cache.Exists(ctx, markerKey)
		if err != nil {
			log.Warn().Err(err).Str("publication_id", pub.ID.String()).
				Msg("Reminder marker lookup failed, reminding anyway")
		}
		if seen {
			continue
		}

		log.Warn().
			Str("publication_id", pub.ID.String()).
			Str("title", pub.Title).
			Str("author_email", pub.AuthorEmail).
			Time("in_review_since", pub.UpdatedAt).
			Msg("Publication review is overdue")

		if err := h.cache.Set(ctx, markerKey, true, reminderMarkerTTL); err != nil {
			log.Warn().Err(err).Str("publication_id", pub.ID.String()).
				Msg("Failed to set reminder marker")
		}
		reminded++
	}

	log.Info().
		Int("overdue", len(overdue)).
		Int("reminded", reminded).
		Dur("older_than", age).
		Msg("Review reminder scan completed")

	return nil
}
