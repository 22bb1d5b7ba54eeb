package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
)

func TestTicketStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TicketStatus
		want   bool
	}{
		{"pending is not terminal", domain.StatusPending, false},
		{"in_service is not terminal", domain.StatusInService, false},
		{"completed is terminal", domain.StatusCompleted, true},
		{"canceled is terminal", domain.StatusCanceled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestTicketParams_Validate(t *testing.T) {
	sectorID := uuid.New()
	nilUUID := uuid.Nil

	tests := []struct {
		name    string
		params  domain.TicketParams
		wantErr error
	}{
		{
			"valid service ticket",
			domain.TicketParams{CustomerName: "Maria Souza", ServiceType: domain.ServiceTypeService, SectorID: &sectorID},
			nil,
		},
		{
			"valid renegotiation ticket",
			domain.TicketParams{CustomerName: "Maria Souza", ServiceType: domain.ServiceTypeRenegotiation},
			nil,
		},
		{
			"name too short",
			domain.TicketParams{CustomerName: "Jo", ServiceType: domain.ServiceTypeRenegotiation},
			apperrors.ErrCustomerNameTooShort,
		},
		{
			"whitespace does not count toward the name",
			domain.TicketParams{CustomerName: "  J  ", ServiceType: domain.ServiceTypeRenegotiation},
			apperrors.ErrCustomerNameTooShort,
		},
		{
			"service ticket without sector",
			domain.TicketParams{CustomerName: "Maria Souza", ServiceType: domain.ServiceTypeService},
			apperrors.ErrSectorRequired,
		},
		{
			"service ticket with nil uuid sector",
			domain.TicketParams{CustomerName: "Maria Souza", ServiceType: domain.ServiceTypeService, SectorID: &nilUUID},
			apperrors.ErrSectorRequired,
		},
		{
			"renegotiation ticket with sector",
			domain.TicketParams{CustomerName: "Maria Souza", ServiceType: domain.ServiceTypeRenegotiation, SectorID: &sectorID},
			apperrors.ErrSectorNotAllowed,
		},
		{
			"unknown service type",
			domain.TicketParams{CustomerName: "Maria Souza", ServiceType: domain.ServiceType("Express")},
			apperrors.ErrInvalidServiceType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewTicket(t *testing.T) {
	t.Run("starts pending with trimmed name", func(t *testing.T) {
		ticket, err := domain.NewTicket(domain.TicketParams{
			CustomerName: "  Maria Souza  ",
			ServiceType:  domain.ServiceTypeRenegotiation,
		})

		require.NoError(t, err)
		assert.Equal(t, "Maria Souza", ticket.CustomerName)
		assert.Equal(t, domain.StatusPending, ticket.Status)
		assert.Nil(t, ticket.CalledAt)
		assert.False(t, ticket.CreatedAt.IsZero())
	})
}

func TestTicket_Cancel(t *testing.T) {
	t.Run("cancels pending", func(t *testing.T) {
		ticket := &domain.Ticket{Status: domain.StatusPending}

		require.NoError(t, ticket.Cancel())
		assert.Equal(t, domain.StatusCanceled, ticket.Status)
		assert.NotNil(t, ticket.UpdatedAt)
	})

	t.Run("cancels in_service", func(t *testing.T) {
		ticket := &domain.Ticket{Status: domain.StatusInService}

		require.NoError(t, ticket.Cancel())
		assert.Equal(t, domain.StatusCanceled, ticket.Status)
	})

	t.Run("already canceled", func(t *testing.T) {
		ticket := &domain.Ticket{Status: domain.StatusCanceled}

		err := ticket.Cancel()
		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyCanceled)
		assert.Equal(t, domain.StatusCanceled, ticket.Status)
	})

	t.Run("already completed", func(t *testing.T) {
		ticket := &domain.Ticket{Status: domain.StatusCompleted}

		err := ticket.Cancel()
		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyClosed)
		assert.Equal(t, domain.StatusCompleted, ticket.Status)
	})
}

func TestTicket_Complete(t *testing.T) {
	t.Run("completes in_service", func(t *testing.T) {
		ticket := &domain.Ticket{Status: domain.StatusInService}

		require.NoError(t, ticket.Complete())
		assert.Equal(t, domain.StatusCompleted, ticket.Status)
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		for _, status := range []domain.TicketStatus{domain.StatusCompleted, domain.StatusCanceled} {
			ticket := &domain.Ticket{Status: status}
			assert.ErrorIs(t, ticket.Complete(), apperrors.ErrTicketAlreadyClosed)
			assert.Equal(t, status, ticket.Status)
		}
	})
}

func TestTicket_Reclassify(t *testing.T) {
	sectorID := uuid.New()

	t.Run("keeps the pairing invariant", func(t *testing.T) {
		ticket := &domain.Ticket{
			CustomerName: "Maria Souza",
			Status:       domain.StatusPending,
			ServiceType:  domain.ServiceTypeService,
			SectorID:     &sectorID,
		}

		require.NoError(t, ticket.Reclassify(domain.ServiceTypeRenegotiation, nil))
		assert.Equal(t, domain.ServiceTypeRenegotiation, ticket.ServiceType)
		assert.Nil(t, ticket.SectorID)
		assert.Equal(t, domain.StatusPending, ticket.Status)
	})

	t.Run("rejects invalid pairing", func(t *testing.T) {
		ticket := &domain.Ticket{
			CustomerName: "Maria Souza",
			Status:       domain.StatusPending,
			ServiceType:  domain.ServiceTypeService,
			SectorID:     &sectorID,
		}

		err := ticket.Reclassify(domain.ServiceTypeService, nil)
		assert.ErrorIs(t, err, apperrors.ErrSectorRequired)
		assert.Equal(t, &sectorID, ticket.SectorID)
	})
}
