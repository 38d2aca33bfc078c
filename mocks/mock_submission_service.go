package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/service"
)

// MockSubmissionService is a mock implementation of service.SubmissionService.
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) ProcessSingle(ctx context.Context, userID uuid.UUID, file service.BulkFile) (*service.SingleResult, error) {
	args := m.Called(ctx, userID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SingleResult), args.Error(1)
}

func (m *MockSubmissionService) ProcessBulk(ctx context.Context, userID uuid.UUID, files []service.BulkFile) (*domain.BulkResult, error) {
	args := m.Called(ctx, userID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, userID uuid.UUID) ([]domain.SubmissionSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmissionSummary), args.Error(1)
}

func (m *MockSubmissionService) ListFull(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Submission, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
