package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"editorial-backend/internal/shared/response"
)

const (
	rateLimitCleanupInterval = 5 * time.Minute
	rateLimitClientTTL       = 10 * time.Minute
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit limits requests per client IP using a token bucket.
// Idle client entries are reaped by a background goroutine tied to the
// application context.
func RateLimit(ctx context.Context, rps float64, burst int) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*rateLimitClient)
	)

	go func() {
		ticker := time.NewTicker(rateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) > rateLimitClientTTL {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		mu.Lock()
		client, found := clients[clientIP]
		if !found {
			client = &rateLimitClient{
				limiter: rate.NewLimiter(rate.Limit(rps), burst),
			}
			clients[clientIP] = client
		}
		client.lastSeen = time.Now()

		allowed := client.limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
