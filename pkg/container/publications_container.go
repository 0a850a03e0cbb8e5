package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"editorial-backend/internal/config"
	"editorial-backend/internal/domains/publication/gateway"
	"editorial-backend/internal/domains/publication/gateway/authordir"
	pubHandler "editorial-backend/internal/domains/publication/handler"
	pubRepo "editorial-backend/internal/domains/publication/repository"
	pubService "editorial-backend/internal/domains/publication/service"
	infraCache "editorial-backend/internal/infrastructure/cache"
	"editorial-backend/internal/infrastructure/database"
	"editorial-backend/internal/infrastructure/storage"
	"editorial-backend/pkg/cache"
	"editorial-backend/pkg/jwt"
)

// ========================================
// PUBLICATIONS CONTAINER
// ========================================

// PublicationsContainer is the dependency graph of the publications
// service: its own database, Redis, MinIO for attachments, asynq for
// background work and the HTTP client for the authors registry.
type PublicationsContainer struct {
	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	Storage        *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor
	AsynqClient    *asynq.Client
	JWTManager     *jwt.Manager
	Directory      gateway.AuthorDirectory

	PublicationRepo pubRepo.PublicationRepository

	PublicationService pubService.PublicationService
	AttachmentService  pubService.AttachmentService
	ExportService      pubService.ExportService

	PublicationHandler *pubHandler.PublicationHandler
}

// NewPublicationsContainer builds the full graph for the publications
// service.
func NewPublicationsContainer() (*PublicationsContainer, error) {
	log.Println("🔧 Initializing publications container...")

	c := &PublicationsContainer{}

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
	if err := minioStorage.EnsureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure MinIO bucket: %w", err)
	}
	c.Storage = minioStorage
	c.ImageProcessor = storage.NewImageProcessor()
	log.Println("✅ MinIO ready")

	// ========================================
	// STEP 5: TASK QUEUE CLIENT
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Println("✅ Task queue client ready")

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 6: AUTHOR DIRECTORY CLIENT
	// ========================================
	// The retrying HTTP client for the authors registry. Its policy
	// knobs (attempts, timeouts, strictness) all come from config.
	c.Directory = authordir.NewClient(authordir.NewConfig(authordir.Config{
		BaseURL:          cfg.AuthorDirectory.BaseURL,
		MaxAttempts:      cfg.AuthorDirectory.MaxAttempts,
		AttemptTimeout:   cfg.AuthorDirectory.AttemptTimeout,
		BackoffBase:      cfg.AuthorDirectory.BackoffBase,
		HealthTimeout:    cfg.AuthorDirectory.HealthTimeout,
		RetryAllFailures: cfg.AuthorDirectory.RetryAllFailures,
		StrictExistence:  cfg.AuthorDirectory.StrictExistence,
	}))
	log.Printf("✅ Author directory client ready (base: %s)", cfg.AuthorDirectory.BaseURL)

	// ========================================
	// STEP 7: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.PublicationRepo = pubRepo.NewPostgresPublicationRepository(c.DB.Pool, c.Cache)
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 8: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	c.PublicationService = pubService.NewPublicationService(c.PublicationRepo, c.Directory, c.AsynqClient)
	c.AttachmentService = pubService.NewAttachmentService(c.PublicationRepo, c.Storage, c.ImageProcessor)
	c.ExportService = pubService.NewExportService(c.PublicationRepo)
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 9: HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.PublicationHandler = pubHandler.NewPublicationHandler(c.PublicationService, c.AttachmentService, c.ExportService)
	log.Println("✅ Handlers initialized")

	log.Println("🎉 Publications container initialized successfully")
	return c, nil
}

// Cleanup releases the container's connections. Called during
// graceful shutdown.
func (c *PublicationsContainer) Cleanup() {
	log.Println("🧹 Cleaning up publications container...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue client: %v", err)
		} else {
			log.Println("✅ Task queue client closed")
		}
	}

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

	log.Println("✅ Publications container cleanup completed")
}
