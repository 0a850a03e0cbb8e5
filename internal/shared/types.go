package shared

// Asynq task types for the editorial worker.
const (
	// Scheduled tasks
	TypeReviewReminder = "publication:review_reminder"
	TypeStatsDigest    = "publication:stats_digest"

	// Event tasks enqueued by the publications service after commit
	TypeReviewRequested  = "publication:review_requested"
	TypePurgeAttachments = "publication:purge_attachments"
)

// Worker queue names, ordered by priority.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ReviewReminderPayload carries the scheduler-configured thresholds for
// the overdue-review scan.
type ReviewReminderPayload struct {
	OlderThan string `json:"older_than"` // Go duration string, e.g. "48h"
	Limit     int    `json:"limit"`
}

// StatsDigestPayload is empty today; the struct keeps the payload
// extensible without changing the task contract.
type StatsDigestPayload struct{}
