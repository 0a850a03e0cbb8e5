package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/repository"
)

// =====================================================
// STATS DIGEST JOB HANDLER
// =====================================================

// StatsDigestHandler logs a daily per-status publication count digest.
type StatsDigestHandler struct {
	repo repository.PublicationRepository
}

// NewStatsDigestHandler creates a new stats digest handler
func NewStatsDigestHandler(repo repository.PublicationRepository) *StatsDigestHandler {
	return &StatsDigestHandler{repo: repo}
}

// ProcessTask counts publications per status and emits one log line.
func (h *StatsDigestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	counts, err := h.repo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count by status: %w", err)
	}

	total := 0
	event := log.Info()
	for _, status := range model.AllStatuses {
		count := counts[status]
		total += count
		event = event.Int(status.String(), count)
	}

	event.Int("total", total).Msg("Daily publication stats digest")
	return nil
}
