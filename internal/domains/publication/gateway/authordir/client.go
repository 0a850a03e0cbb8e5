package authordir

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"editorial-backend/internal/domains/publication/gateway"
	"editorial-backend/pkg/logger"
)

// =====================================================
// AUTHOR DIRECTORY CLIENT
// =====================================================

// Client talks to the authors service over HTTP with bounded retries
// and exponential backoff. One instance is constructed by the
// container and shared for the life of the process.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates new author directory client
func NewClient(config *Config) gateway.AuthorDirectory {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.AttemptTimeout,
		},
	}
}

// envelope mirrors the authors service response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// attemptOutcome classifies a single HTTP attempt.
type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeNotFound
	outcomeRetryable
	outcomeFatal
)

// =====================================================
// EXISTS
// =====================================================

// Exists checks whether an author is registered in the directory.
// After retries are exhausted the directory's unavailability is
// reported as absence under the default policy; the strict policy
// surfaces gateway.ErrDirectoryUnavailable instead.
func (c *Client) Exists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	data, outcome, err := c.getWithRetry(ctx, c.config.existsURL(authorID))
	if err != nil {
		return false, err
	}

	switch outcome {
	case outcomeSuccess:
		var payload struct {
			Exists bool `json:"exists"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			logger.Error("Author directory returned malformed exists payload", err)
			return c.unavailableExists()
		}
		return payload.Exists, nil
	default:
		return c.unavailableExists()
	}
}

func (c *Client) unavailableExists() (bool, error) {
	if c.config.StrictExistence {
		return false, gateway.ErrDirectoryUnavailable
	}
	return false, nil
}

// =====================================================
// FETCH
// =====================================================

// Fetch loads the author record used to snapshot name and email onto a
// new publication. A confirmed 404 is genuine absence and returns
// (nil, nil) without retrying; an unreachable directory also yields
// (nil, nil) under the default policy because enrichment is
// best-effort.
func (c *Client) Fetch(ctx context.Context, authorID uuid.UUID) (*gateway.AuthorRecord, error) {
	data, outcome, err := c.getWithRetry(ctx, c.config.authorURL(authorID))
	if err != nil {
		return nil, err
	}

	switch outcome {
	case outcomeSuccess:
		var record gateway.AuthorRecord
		if err := json.Unmarshal(data, &record); err != nil {
			logger.Error("Author directory returned malformed author payload", err)
			return c.unavailableFetch()
		}
		return &record, nil
	case outcomeNotFound:
		return nil, nil
	default:
		return c.unavailableFetch()
	}
}

func (c *Client) unavailableFetch() (*gateway.AuthorRecord, error) {
	if c.config.StrictExistence {
		return nil, gateway.ErrDirectoryUnavailable
	}
	return nil, nil
}

// =====================================================
// HEALTH CHECK
// =====================================================

// HealthCheck probes the directory once with a short deadline. Used
// for liveness reporting only, never for correctness decisions.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.healthURL(), nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// =====================================================
// RETRY PRIMITIVE
// =====================================================

// getWithRetry performs a GET with up to MaxAttempts tries. The only
// error it ever returns is the caller's own context cancellation;
// remote failures are collapsed into outcomeRetryable/outcomeFatal for
// the policy mapping above.
func (c *Client) getWithRetry(ctx context.Context, url string) (json.RawMessage, attemptOutcome, error) {
	var lastOutcome attemptOutcome

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		data, outcome := c.doAttempt(ctx, url)

		switch outcome {
		case outcomeSuccess, outcomeNotFound, outcomeFatal:
			return data, outcome, nil
		}
		lastOutcome = outcome

		if attempt == c.config.MaxAttempts {
			break
		}

		// Backoff before the next attempt: 2^attempt * base
		// (attempt 1 -> 2s, attempt 2 -> 4s with the 1s default).
		delay := c.config.BackoffBase * time.Duration(1<<uint(attempt))
		logger.Warn("Author directory attempt failed, backing off", map[string]interface{}{
			"url":     url,
			"attempt": attempt,
			"delay":   delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, lastOutcome, ctx.Err()
		}
	}

	return nil, lastOutcome, nil
}

// doAttempt runs a single bounded HTTP GET and classifies the result.
func (c *Client) doAttempt(parent context.Context, url string) (json.RawMessage, attemptOutcome) {
	ctx, cancel := context.WithTimeout(parent, c.config.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, outcomeFatal
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are always retryable.
		return nil, outcomeRetryable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, outcomeRetryable
	}

	return c.classify(resp.StatusCode, body)
}

// classify maps an HTTP response to an attempt outcome under the
// configured retry policy.
func (c *Client) classify(statusCode int, body []byte) (json.RawMessage, attemptOutcome) {
	switch {
	case statusCode >= 200 && statusCode < 300:
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil || !env.Success {
			return nil, outcomeRetryable
		}
		return env.Data, outcomeSuccess

	case statusCode >= 500:
		return nil, outcomeRetryable

	case c.config.RetryAllFailures:
		// Blanket policy: any non-2xx is retried, 404 included.
		return nil, outcomeRetryable

	case statusCode == http.StatusNotFound:
		return nil, outcomeNotFound

	default:
		// Remaining 4xx fail fast: the request itself is wrong and a
		// retry cannot change the answer.
		return nil, outcomeFatal
	}
}

// interface guard
var _ gateway.AuthorDirectory = (*Client)(nil)
