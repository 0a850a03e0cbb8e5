package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"editorial-backend/internal/config"
	"editorial-backend/internal/shared"
	"editorial-backend/pkg/logger"
)

// Scheduler registers the periodic editorial jobs with asynq:
// the hourly review reminder sweep and the daily stats digest.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddr, redisPassword string, redisDB int, jobCfg config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobCfg,
	}
}

// RegisterTasks wires every cron entry. Must be called before Start.
func (s *Scheduler) RegisterTasks() error {
	if err := s.registerReviewReminder(); err != nil {
		return err
	}
	if err := s.registerStatsDigest(); err != nil {
		return err
	}
	return nil
}

// registerReviewReminder runs hourly and nudges reviewers about
// publications that have sat in review for too long.
func (s *Scheduler) registerReviewReminder() error {
	payload, err := json.Marshal(shared.ReviewReminderPayload{
		OlderThan: s.jobConfig.ReviewReminderAge.String(),
		Limit:     s.jobConfig.ReviewReminderLimit,
	})
	if err != nil {
		return fmt.Errorf("marshal review reminder payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeReviewReminder, payload)

	entryID, err := s.scheduler.Register(
		"0 * * * *", // every hour
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register review reminder: %w", err)
	}

	logger.Info("✓ Registered review reminder job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     "0 * * * *",
	})
	return nil
}

// registerStatsDigest runs daily at 06:00 UTC and logs the per-status
// publication counts.
func (s *Scheduler) registerStatsDigest() error {
	payload, err := json.Marshal(shared.StatsDigestPayload{})
	if err != nil {
		return fmt.Errorf("marshal stats digest payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeStatsDigest, payload)

	entryID, err := s.scheduler.Register(
		"0 6 * * *", // daily at 06:00 UTC
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register stats digest: %w", err)
	}

	logger.Info("✓ Registered stats digest job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     "0 6 * * *",
	})
	return nil
}

// Start runs the scheduler loop in a goroutine.
func (s *Scheduler) Start() error {
	if err := s.RegisterTasks(); err != nil {
		return err
	}

	go func() {
		if err := s.scheduler.Run(); err != nil {
			logger.Error("Scheduler stopped", err)
		}
	}()

	logger.Info("🎯 Scheduler started", nil)
	return nil
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
	logger.Info("Scheduler shut down", nil)
}
