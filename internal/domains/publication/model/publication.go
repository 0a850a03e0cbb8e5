package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// =====================================================
// PUBLICATION ENTITY
// =====================================================

// Publication is the core editorial record. Author name and email are
// snapshots taken from the author directory at creation time; they are
// not foreign keys and survive later changes to the author record.
type Publication struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Body        string         `json:"body" db:"body"`
	Abstract    string         `json:"abstract" db:"abstract"`
	Keywords    pq.StringArray `json:"keywords" db:"keywords"`
	Status      Status         `json:"status" db:"status"`
	AuthorID    uuid.UUID      `json:"author_id" db:"author_id"`
	AuthorName  string         `json:"author_name" db:"author_name"`
	AuthorEmail string         `json:"author_email" db:"author_email"`
	ReviewNotes *string        `json:"review_notes" db:"review_notes"`
	ReviewCount int            `json:"review_count" db:"review_count"`
	IsVisible   bool           `json:"is_visible" db:"is_visible"`
	Version     int            `json:"version" db:"version"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// HasContent reports whether title and body are both non-empty after
// trimming. Required before a publication may enter review or be
// published.
func (p *Publication) HasContent() bool {
	return strings.TrimSpace(p.Title) != "" && strings.TrimSpace(p.Body) != ""
}

// IsEditable reports whether content updates are allowed in the
// current status.
func (p *Publication) IsEditable() bool {
	return p.Status == StatusDraft || p.Status == StatusInReview
}

// =====================================================
// STATUS HISTORY
// =====================================================

// StatusHistory records one transition of a publication, written in
// the same transaction as the status update itself.
type StatusHistory struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PublicationID uuid.UUID `json:"publication_id" db:"publication_id"`
	FromStatus    *Status   `json:"from_status" db:"from_status"`
	ToStatus      Status    `json:"to_status" db:"to_status"`
	ChangedBy     *string   `json:"changed_by" db:"changed_by"`
	Notes         *string   `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// =====================================================
// ATTACHMENT
// =====================================================

// Attachment is a file stored in object storage for a publication.
// Image attachments additionally carry a generated thumbnail.
type Attachment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PublicationID uuid.UUID `json:"publication_id" db:"publication_id"`
	FileName      string    `json:"file_name" db:"file_name"`
	ContentType   string    `json:"content_type" db:"content_type"`
	SizeBytes     int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey    string    `json:"storage_key" db:"storage_key"`
	URL           string    `json:"url" db:"url"`
	ThumbnailKey  *string   `json:"thumbnail_key" db:"thumbnail_key"`
	ThumbnailURL  *string   `json:"thumbnail_url" db:"thumbnail_url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// =====================================================
// STATS
// =====================================================

// StatusCount is one row of the stats endpoint.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Stats aggregates publication counts per lifecycle status. Every
// status appears, including those with zero publications.
type Stats struct {
	Total    int           `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
}
