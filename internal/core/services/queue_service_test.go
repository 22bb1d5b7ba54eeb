package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/mocks"
	"github.com/queuedesk/queue-backend/internal/core/ports"
	"github.com/queuedesk/queue-backend/internal/core/services"
)

type queueServiceFixture struct {
	tickets     *mocks.MockTicketRepository
	sectors     *mocks.MockSectorRepository
	operations  *mocks.MockOperationRepository
	treatments  *mocks.MockTreatmentRepository
	txManager   *mocks.MockTransactionManager
	panel       *mocks.MockPanelNotifier
	broadcaster *mocks.MockEventBroadcaster
	svc         *services.QueueService
}

func newQueueServiceFixture() *queueServiceFixture {
	f := &queueServiceFixture{
		tickets:     mocks.NewMockTicketRepository(),
		sectors:     mocks.NewMockSectorRepository(),
		operations:  mocks.NewMockOperationRepository(),
		treatments:  mocks.NewMockTreatmentRepository(),
		txManager:   mocks.NewMockTransactionManager(),
		panel:       mocks.NewMockPanelNotifier(),
		broadcaster: mocks.NewMockEventBroadcaster(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = services.NewQueueService(
		f.tickets, f.sectors, f.operations, f.treatments,
		f.txManager, f.panel, f.broadcaster, logger,
	)
	return f
}

func TestQueueService_CallNextForSector(t *testing.T) {
	ctx := context.Background()

	t.Run("claims oldest pending and announces it", func(t *testing.T) {
		f := newQueueServiceFixture()

		sectorID := uuid.New()
		ticketID := uuid.New()
		calledAt := time.Now().UTC()

		f.sectors.On("GetByID", ctx, sectorID).
			Return(&domain.Sector{ID: sectorID, Name: "Collections"}, nil)
		f.tickets.On("ClaimNext", ctx, mock.MatchedBy(func(p ports.ClaimNextParams) bool {
			return p.SectorID != nil && *p.SectorID == sectorID &&
				p.ServiceType == nil &&
				p.NextStatus == domain.StatusCompleted
		})).Return(&domain.Ticket{
			ID:           ticketID,
			CustomerName: "Maria Souza",
			Status:       domain.StatusCompleted,
			ServiceType:  domain.ServiceTypeService,
			SectorID:     &sectorID,
			CalledAt:     &calledAt,
		}, nil)
		f.panel.On("AnnounceCall", mock.Anything, domain.CallAnnouncement{
			Name:   "Maria Souza",
			Sector: "Collections",
		}).Return()
		f.broadcaster.On("Broadcast", domain.Event{
			Type:     domain.EventTicketUpdated,
			TicketID: ticketID,
		}).Return(nil)

		result, err := f.svc.CallNextForSector(ctx, sectorID)
		f.svc.Shutdown()

		require.NoError(t, err)
		assert.Equal(t, ticketID, result.Ticket.ID)
		assert.Equal(t, domain.StatusCompleted, result.Ticket.Status)
		assert.Equal(t, "Collections", result.SectorName)
		assert.Empty(t, result.ServicePoint)

		f.tickets.AssertExpectations(t)
		f.panel.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("empty queue leaves nothing changed", func(t *testing.T) {
		f := newQueueServiceFixture()

		sectorID := uuid.New()
		f.sectors.On("GetByID", ctx, sectorID).
			Return(&domain.Sector{ID: sectorID, Name: "Collections"}, nil)
		f.tickets.On("ClaimNext", ctx, mock.AnythingOfType("ports.ClaimNextParams")).
			Return(nil, apperrors.ErrNoPendingTicket)

		result, err := f.svc.CallNextForSector(ctx, sectorID)
		f.svc.Shutdown()

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrNoPendingTicket)
		f.panel.AssertNotCalled(t, "AnnounceCall")
		f.broadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("unknown sector", func(t *testing.T) {
		f := newQueueServiceFixture()

		sectorID := uuid.New()
		f.sectors.On("GetByID", ctx, sectorID).Return(nil, apperrors.ErrSectorNotFound)

		result, err := f.svc.CallNextForSector(ctx, sectorID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrSectorNotFound)
		f.tickets.AssertNotCalled(t, "ClaimNext")
	})
}

func TestQueueService_CallNextForOperator(t *testing.T) {
	ctx := context.Background()

	t.Run("claims renegotiation ticket and opens a treatment", func(t *testing.T) {
		f := newQueueServiceFixture()

		userID := uuid.New()
		operationID := uuid.New()
		ticketID := uuid.New()
		calledAt := time.Now().UTC()

		f.operations.On("GetOperatingByUser", ctx, userID).Return(&domain.Operation{
			ID:           operationID,
			UserID:       userID,
			ServicePoint: "Desk 3",
			Status:       domain.OperationOperating,
		}, nil)
		f.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		f.tickets.On("ClaimNext", ctx, mock.MatchedBy(func(p ports.ClaimNextParams) bool {
			return p.SectorID == nil &&
				p.ServiceType != nil && *p.ServiceType == domain.ServiceTypeRenegotiation &&
				p.NextStatus == domain.StatusInService
		})).Return(&domain.Ticket{
			ID:           ticketID,
			CustomerName: "Carlos Dias",
			Status:       domain.StatusInService,
			ServiceType:  domain.ServiceTypeRenegotiation,
			CalledAt:     &calledAt,
		}, nil)
		f.treatments.On("Create", ctx, mock.MatchedBy(func(tr *domain.Treatment) bool {
			return tr.TicketID == ticketID && tr.OperationID == operationID &&
				tr.Status == domain.TreatmentInService
		})).Return(&domain.Treatment{
			ID:          uuid.New(),
			TicketID:    ticketID,
			OperationID: operationID,
			Status:      domain.TreatmentInService,
		}, nil)
		f.panel.On("AnnounceCall", mock.Anything, domain.CallAnnouncement{
			Name:         "Carlos Dias",
			Sector:       "Renegotiation",
			ServicePoint: "Desk 3",
		}).Return()
		f.broadcaster.On("Broadcast", domain.Event{
			Type:     domain.EventTicketUpdated,
			TicketID: ticketID,
		}).Return(nil)

		result, err := f.svc.CallNextForOperator(ctx, userID)
		f.svc.Shutdown()

		require.NoError(t, err)
		assert.Equal(t, ticketID, result.Ticket.ID)
		assert.Equal(t, domain.StatusInService, result.Ticket.Status)
		assert.Equal(t, "Desk 3", result.ServicePoint)

		f.tickets.AssertExpectations(t)
		f.treatments.AssertExpectations(t)
		f.panel.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("requires an operating session", func(t *testing.T) {
		f := newQueueServiceFixture()

		userID := uuid.New()
		f.operations.On("GetOperatingByUser", ctx, userID).
			Return(nil, apperrors.ErrNoActiveOperation)

		result, err := f.svc.CallNextForOperator(ctx, userID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrNoActiveOperation)
		f.tickets.AssertNotCalled(t, "ClaimNext")
	})

	t.Run("treatment insert failure aborts the claim", func(t *testing.T) {
		f := newQueueServiceFixture()

		userID := uuid.New()
		operationID := uuid.New()
		ticketID := uuid.New()

		f.operations.On("GetOperatingByUser", ctx, userID).Return(&domain.Operation{
			ID:           operationID,
			UserID:       userID,
			ServicePoint: "Desk 3",
			Status:       domain.OperationOperating,
		}, nil)
		f.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		f.tickets.On("ClaimNext", ctx, mock.AnythingOfType("ports.ClaimNextParams")).
			Return(&domain.Ticket{
				ID:          ticketID,
				Status:      domain.StatusInService,
				ServiceType: domain.ServiceTypeRenegotiation,
			}, nil)
		f.treatments.On("Create", ctx, mock.AnythingOfType("*domain.Treatment")).
			Return(nil, apperrors.ErrTreatmentAlreadyActive)

		result, err := f.svc.CallNextForOperator(ctx, userID)
		f.svc.Shutdown()

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrTreatmentAlreadyActive)
		f.panel.AssertNotCalled(t, "AnnounceCall")
		f.broadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("empty renegotiation pool", func(t *testing.T) {
		f := newQueueServiceFixture()

		userID := uuid.New()
		f.operations.On("GetOperatingByUser", ctx, userID).Return(&domain.Operation{
			ID:           uuid.New(),
			UserID:       userID,
			ServicePoint: "Desk 1",
			Status:       domain.OperationOperating,
		}, nil)
		f.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		f.tickets.On("ClaimNext", ctx, mock.AnythingOfType("ports.ClaimNextParams")).
			Return(nil, apperrors.ErrNoPendingTicket)

		result, err := f.svc.CallNextForOperator(ctx, userID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrNoPendingTicket)
		f.treatments.AssertNotCalled(t, "Create")
	})
}

func TestQueueService_EndService(t *testing.T) {
	ctx := context.Background()

	t.Run("completes treatment and ticket together", func(t *testing.T) {
		f := newQueueServiceFixture()

		treatmentID := uuid.New()
		ticketID := uuid.New()

		f.treatments.On("GetByID", ctx, treatmentID).Return(&domain.Treatment{
			ID:       treatmentID,
			TicketID: ticketID,
			Status:   domain.TreatmentInService,
		}, nil)
		f.tickets.On("GetByID", ctx, ticketID).Return(&domain.Ticket{
			ID:          ticketID,
			Status:      domain.StatusInService,
			ServiceType: domain.ServiceTypeRenegotiation,
		}, nil)
		f.txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
		f.tickets.On("Update", ctx, mock.MatchedBy(func(tk *domain.Ticket) bool {
			return tk.Status == domain.StatusCompleted
		})).Return(&domain.Ticket{ID: ticketID, Status: domain.StatusCompleted}, nil)
		f.treatments.On("Update", ctx, mock.MatchedBy(func(tr *domain.Treatment) bool {
			return tr.Status == domain.TreatmentCompleted
		})).Return(&domain.Treatment{ID: treatmentID, Status: domain.TreatmentCompleted}, nil)
		f.broadcaster.On("Broadcast", domain.Event{
			Type:     domain.EventTicketUpdated,
			TicketID: ticketID,
		}).Return(nil)

		err := f.svc.EndService(ctx, treatmentID)
		f.svc.Shutdown()

		require.NoError(t, err)
		f.tickets.AssertExpectations(t)
		f.treatments.AssertExpectations(t)
		f.broadcaster.AssertExpectations(t)
	})

	t.Run("rejects a treatment that is not in service", func(t *testing.T) {
		f := newQueueServiceFixture()

		treatmentID := uuid.New()
		f.treatments.On("GetByID", ctx, treatmentID).Return(&domain.Treatment{
			ID:     treatmentID,
			Status: domain.TreatmentCompleted,
		}, nil)

		err := f.svc.EndService(ctx, treatmentID)

		assert.ErrorIs(t, err, apperrors.ErrTreatmentNotInService)
		f.tickets.AssertNotCalled(t, "Update")
		f.broadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("treatment not found", func(t *testing.T) {
		f := newQueueServiceFixture()

		treatmentID := uuid.New()
		f.treatments.On("GetByID", ctx, treatmentID).
			Return(nil, apperrors.ErrTreatmentNotFound)

		err := f.svc.EndService(ctx, treatmentID)

		assert.ErrorIs(t, err, apperrors.ErrTreatmentNotFound)
	})
}
