package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/port"
)

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	sub.CreatedAt = time.Now().UTC()

	// id is a BIGSERIAL: assigned by the store, never reused after deletion.
	query := `INSERT INTO submissions
		(user_id, filename, content_type, document_type, name, extraction_data,
		 image_data, archive_bucket, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		sub.UserID, sub.Filename, sub.ContentType, sub.DocumentType, sub.Name,
		sub.ExtractionData, sub.ImageData, sub.ArchiveBucket, sub.ArchiveKey,
		sub.CreatedAt).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}
	return nil
}

func (r *submissionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SubmissionSummary, error) {
	var subs []domain.SubmissionSummary
	err := r.db.SelectContext(ctx, &subs,
		`SELECT id, filename, document_type, name, created_at
		 FROM submissions WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListByUser: %w", err)
	}
	return subs, nil
}

// ListFullByUser returns complete records minus the inline image payload,
// which would bloat exports.
func (r *submissionRepo) ListFullByUser(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := r.db.SelectContext(ctx, &subs,
		`SELECT id, user_id, filename, content_type, document_type, name,
		        extraction_data, '' AS image_data, archive_bucket, archive_key, created_at
		 FROM submissions WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListFullByUser: %w", err)
	}
	return subs, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.db.GetContext(ctx, &sub,
		"SELECT * FROM submissions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM submissions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("submissionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
