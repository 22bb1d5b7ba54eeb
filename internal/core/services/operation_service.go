package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// OperationService implements staff working-session management.
type OperationService struct {
	operationRepo ports.OperationRepository
}

var _ ports.OperationService = (*OperationService)(nil)

// NewOperationService creates a new operation service
func NewOperationService(operationRepo ports.OperationRepository) *OperationService {
	return &OperationService{operationRepo: operationRepo}
}

// StartOperation opens an operating session for the user. The store's
// partial unique index rejects a second operating session per user; the
// repository surfaces that as ErrOperationAlreadyActive.
func (s *OperationService) StartOperation(ctx context.Context, userID uuid.UUID, servicePoint string) (*domain.Operation, error) {
	operation, err := domain.NewOperation(userID, servicePoint)
	if err != nil {
		return nil, err
	}

	return s.operationRepo.Create(ctx, operation)
}

// FinishOperation ends the user's working session.
func (s *OperationService) FinishOperation(ctx context.Context, userID, operationID uuid.UUID) (*domain.Operation, error) {
	operation, err := s.operationRepo.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}

	if operation.UserID != userID {
		return nil, apperrors.ErrOperationNotFound
	}

	if err := operation.Finish(); err != nil {
		return nil, err
	}

	return s.operationRepo.Update(ctx, operation)
}

// CurrentOperation returns the caller's operating session, if any.
func (s *OperationService) CurrentOperation(ctx context.Context, userID uuid.UUID) (*domain.Operation, error) {
	return s.operationRepo.GetOperatingByUser(ctx, userID)
}
