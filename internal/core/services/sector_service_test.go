package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/mocks"
	"github.com/queuedesk/queue-backend/internal/core/services"
)

func TestSectorService_CreateSector(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with trimmed name", func(t *testing.T) {
		mockRepo := mocks.NewMockSectorRepository()
		svc := services.NewSectorService(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(s *domain.Sector) bool {
			return s.Name == "Collections"
		})).Return(&domain.Sector{ID: uuid.New(), Name: "Collections"}, nil)

		sector, err := svc.CreateSector(ctx, "  Collections  ")

		require.NoError(t, err)
		assert.Equal(t, "Collections", sector.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		mockRepo := mocks.NewMockSectorRepository()
		svc := services.NewSectorService(mockRepo)

		sector, err := svc.CreateSector(ctx, "   ")

		assert.Nil(t, sector)
		assert.ErrorIs(t, err, apperrors.ErrSectorNameRequired)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestSectorService_RenameSector(t *testing.T) {
	ctx := context.Background()

	t.Run("renames an existing sector", func(t *testing.T) {
		mockRepo := mocks.NewMockSectorRepository()
		svc := services.NewSectorService(mockRepo)

		sectorID := uuid.New()
		mockRepo.On("GetByID", ctx, sectorID).
			Return(&domain.Sector{ID: sectorID, Name: "Collections"}, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(s *domain.Sector) bool {
			return s.Name == "Billing"
		})).Return(&domain.Sector{ID: sectorID, Name: "Billing"}, nil)

		sector, err := svc.RenameSector(ctx, sectorID, "Billing")

		require.NoError(t, err)
		assert.Equal(t, "Billing", sector.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("sector not found", func(t *testing.T) {
		mockRepo := mocks.NewMockSectorRepository()
		svc := services.NewSectorService(mockRepo)

		sectorID := uuid.New()
		mockRepo.On("GetByID", ctx, sectorID).Return(nil, apperrors.ErrSectorNotFound)

		sector, err := svc.RenameSector(ctx, sectorID, "Billing")

		assert.Nil(t, sector)
		assert.ErrorIs(t, err, apperrors.ErrSectorNotFound)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestSectorService_DeleteSector(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing sector", func(t *testing.T) {
		mockRepo := mocks.NewMockSectorRepository()
		svc := services.NewSectorService(mockRepo)

		sectorID := uuid.New()
		mockRepo.On("GetByID", ctx, sectorID).
			Return(&domain.Sector{ID: sectorID, Name: "Collections"}, nil)
		mockRepo.On("Delete", ctx, sectorID).Return(nil)

		err := svc.DeleteSector(ctx, sectorID)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("sector not found", func(t *testing.T) {
		mockRepo := mocks.NewMockSectorRepository()
		svc := services.NewSectorService(mockRepo)

		sectorID := uuid.New()
		mockRepo.On("GetByID", ctx, sectorID).Return(nil, apperrors.ErrSectorNotFound)

		err := svc.DeleteSector(ctx, sectorID)

		assert.ErrorIs(t, err, apperrors.ErrSectorNotFound)
		mockRepo.AssertNotCalled(t, "Delete")
	})
}
