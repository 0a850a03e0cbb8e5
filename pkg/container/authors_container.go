package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"editorial-backend/internal/config"
	authorHandler "editorial-backend/internal/domains/author/handler"
	authorRepo "editorial-backend/internal/domains/author/repository"
	authorService "editorial-backend/internal/domains/author/service"
	infraCache "editorial-backend/internal/infrastructure/cache"
	"editorial-backend/internal/infrastructure/database"
	"editorial-backend/pkg/cache"
	"editorial-backend/pkg/jwt"
)

// ========================================
// AUTHORS CONTAINER
// ========================================

// AuthorsContainer is the dependency graph of the authors service.
// Initialization order matters: config, then infrastructure, then
// repositories, services and handlers on top.
type AuthorsContainer struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	AuthorRepo authorRepo.AuthorRepository

	AuthorService     authorService.AuthorService
	BulkImportService authorService.BulkImportService

	AuthorHandler *authorHandler.AuthorHandler
}

// NewAuthorsContainer builds the full graph for the authors service.
func NewAuthorsContainer() (*AuthorsContainer, error) {
	log.Println("🔧 Initializing authors container...")

	c := &AuthorsContainer{}

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
	log.Println("🗄️  Connecting to authors PostgreSQL...")

	db := database.NewPostgresDB(cfg.AuthorsDB.PoolConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to authors database: %w", err)
	}
	c.DB = db
	log.Println("✅ Authors database connected")

	// ========================================
	// STEP 3: CONNECT CACHE
	// ========================================
	log.Println("📦 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Cache misses are tolerated everywhere, so a dead Redis only
		// costs performance.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.AuthorRepo = authorRepo.NewPostgresAuthorRepository(c.DB.Pool, c.Cache)
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 5: SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.JWTManager, cfg.JWT)
	c.BulkImportService = authorService.NewBulkImportService(c.AuthorRepo)
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 6: HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, c.BulkImportService)
	log.Println("✅ Handlers initialized")

	log.Println("🎉 Authors container initialized successfully")
	return c, nil
}

// Cleanup releases the container's connections. Called during
// graceful shutdown.
func (c *AuthorsContainer) Cleanup() {
	log.Println("🧹 Cleaning up authors container...")

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

	log.Println("✅ Authors container cleanup completed")
}
