package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/thehamzam/kyc-idp/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SubmissionRepository defines the contract for submission persistence.
// Submissions are immutable: there is no update operation. IDs are assigned
// by the store and never reused after deletion.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SubmissionSummary, error)
	ListFullByUser(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Submission, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}
