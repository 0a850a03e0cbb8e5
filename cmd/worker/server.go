package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"editorial-backend/internal/shared"
	"editorial-backend/pkg/container"
)

// asynqServer wraps asynq.Server with graceful shutdown.
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the Asynq server, registers every editorial
// task handler and starts consuming.
func setupAsynqServer(c *container.WorkerContainer) *asynqServer {
	mux := asynq.NewServeMux()

	// Event tasks enqueued by the publications service
	mux.HandleFunc(shared.TypeReviewRequested, c.ReviewRequestedHandler.ProcessTask)
	mux.HandleFunc(shared.TypePurgeAttachments, c.PurgeAttachmentsHandler.ProcessTask)

	// Scheduled tasks
	mux.HandleFunc(shared.TypeReviewReminder, c.ReviewReminderHandler.ProcessTask)
	mux.HandleFunc(shared.TypeStatsDigest, c.StatsDigestHandler.ProcessTask)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueHigh:    20,
				shared.QueueDefault: 10,
				shared.QueueLow:     5,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] ❌ Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown gracefully shuts down the server with timeout.
func (s *asynqServer) Shutdown() {
	_, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("[Worker] Shutting down (waiting max 30s)...")
	s.Server.Shutdown()
	log.Println("[Worker] ✓ Gracefully stopped")
}
