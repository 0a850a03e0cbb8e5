package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"editorial-backend/internal/config"
	"editorial-backend/internal/domains/publication/job"
	pubRepo "editorial-backend/internal/domains/publication/repository"
	pubService "editorial-backend/internal/domains/publication/service"
	infraCache "editorial-backend/internal/infrastructure/cache"
	"editorial-backend/internal/infrastructure/database"
	"editorial-backend/internal/infrastructure/storage"
	"editorial-backend/pkg/cache"
)

// ========================================
// WORKER CONTAINER
// ========================================

// WorkerContainer is the dependency graph of the background worker.
// Every job today operates on publications, so it connects to the
// publications database plus the shared Redis and MinIO.
type WorkerContainer struct {
	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor

	PublicationRepo   pubRepo.PublicationRepository
	AttachmentService pubService.AttachmentService

	ReviewReminderHandler   *job.ReviewReminderHandler
	StatsDigestHandler      *job.StatsDigestHandler
	ReviewRequestedHandler  *job.ReviewRequestedHandler
	PurgeAttachmentsHandler *job.PurgeAttachmentsHandler
}

// NewWorkerContainer builds the full graph for the worker.
func NewWorkerContainer() (*WorkerContainer, error) {
	log.Println("🔧 Initializing worker container...")

	c := &WorkerContainer{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: CONNECT DATABASE
	// ========================================
	log.Println("🗄️  Connecting to publications PostgreSQL...")

	db := database.NewPostgresDB(cfg.PublicationsDB.PoolConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to publications database: %w", err)
	}
	c.DB = db
	log.Println("✅ Publications database connected")

	// ========================================
	// STEP 3: CONNECT CACHE
	// ========================================
	log.Println("📦 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// The reminder job degrades to re-sending without its
		// deduplication markers, nothing worse.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: OBJECT STORAGE
	// ========================================
	log.Println("🗂️  Connecting to MinIO...")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init MinIO: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("✅ MinIO ready")

	// ========================================
	// STEP 5: REPOSITORIES AND SERVICES
	// ========================================
	log.Println("📦 Initializing repositories and services...")

	c.PublicationRepo = pubRepo.NewPostgresPublicationRepository(c.DB.Pool, c.Cache)
	c.AttachmentService = pubService.NewAttachmentService(c.PublicationRepo, c.Storage, c.ImageProcessor)
	log.Println("✅ Repositories and services initialized")

	// ========================================
	// STEP 6: JOB HANDLERS
	// ========================================
	log.Println("🎯 Initializing job handlers...")

	c.ReviewReminderHandler = job.NewReviewReminderHandler(c.PublicationRepo, c.Cache, cfg.Jobs)
	c.StatsDigestHandler = job.NewStatsDigestHandler(c.PublicationRepo)
	c.ReviewRequestedHandler = job.NewReviewRequestedHandler()
	c.PurgeAttachmentsHandler = job.NewPurgeAttachmentsHandler(c.AttachmentService)
	log.Println("✅ Job handlers initialized")

	log.Println("🎉 Worker container initialized successfully")
	return c, nil
}

// Cleanup releases the container's connections. Called during
// graceful shutdown.
func (c *WorkerContainer) Cleanup() {
	log.Println("🧹 Cleaning up worker container...")

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok && rc != nil {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Worker container cleanup completed")
}
