package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account that owns submissions.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Submission is a persisted record of one successfully extracted document.
// Records are immutable once created; the only mutation is deletion.
type Submission struct {
	ID             int64           `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	Filename       string          `db:"filename" json:"filename"`
	ContentType    string          `db:"content_type" json:"content_type"`
	DocumentType   string          `db:"document_type" json:"document_type"`
	Name           string          `db:"name" json:"name"`
	ExtractionData json.RawMessage `db:"extraction_data" json:"extraction_data"`
	ImageData      string          `db:"image_data" json:"image_data"`
	ArchiveBucket  *string         `db:"archive_bucket" json:"-"`
	ArchiveKey     *string         `db:"archive_key" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// SubmissionSummary is the list-view projection of a Submission.
type SubmissionSummary struct {
	ID           int64     `db:"id" json:"id"`
	Filename     string    `db:"filename" json:"filename"`
	DocumentType string    `db:"document_type" json:"document_type"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PerFileOutcome is the result of processing one file within a bulk upload.
// Exactly one of Data/Error is set depending on Success.
type PerFileOutcome struct {
	Filename     string            `json:"filename"`
	Success      bool              `json:"success"`
	Data         *ExtractionResult `json:"data,omitempty"`
	Error        string            `json:"error,omitempty"`
	SubmissionID *int64            `json:"submission_id,omitempty"`
}

// BulkSummary aggregates per-file outcome counts.
type BulkSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BulkResult holds the outcomes of a bulk upload, in submission order.
type BulkResult struct {
	Results []PerFileOutcome `json:"results"`
	Summary BulkSummary      `json:"summary"`
}

// Summarize recomputes the summary from the outcome list.
func (b *BulkResult) Summarize() {
	b.Summary = BulkSummary{Total: len(b.Results)}
	for _, r := range b.Results {
		if r.Success {
			b.Summary.Succeeded++
		} else {
			b.Summary.Failed++
		}
	}
}
