package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error)
	Login(ctx context.Context, cpf, password string) (*domain.User, error)
}

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	CustomerName string
	ServiceType  domain.ServiceType
	SectorID     *uuid.UUID
}

// UpdateTicketParams defines the input for editing a ticket. Nil fields
// are left untouched; the status is never changed by an edit.
type UpdateTicketParams struct {
	TicketID     uuid.UUID
	CustomerName *string
	ServiceType  *domain.ServiceType
	SectorID     *uuid.UUID
}

// ListTicketsParams defines the input for listing tickets.
type ListTicketsParams struct {
	Status      *domain.TicketStatus
	ServiceType *domain.ServiceType
	SectorID    *uuid.UUID
}

// TicketService defines the core business operations for managing tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	CancelTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	ListTickets(ctx context.Context, params ListTicketsParams) ([]*domain.Ticket, error)
	Shutdown()
}

// CallNextResult carries the claimed ticket plus the labels announced on
// the public panel. Treatment is set only by the operator flow; the
// caller needs its ID to end the service later.
type CallNextResult struct {
	Ticket       *domain.Ticket
	Treatment    *domain.Treatment
	SectorName   string
	ServicePoint string
}

// QueueService defines call-next and end-of-service flows.
type QueueService interface {
	// CallNextForSector claims the oldest pending ticket of a sector and
	// completes it directly (the walk-up flow without an operator session).
	CallNextForSector(ctx context.Context, sectorID uuid.UUID) (*CallNextResult, error)
	// CallNextForOperator claims the oldest pending Renegotiation ticket
	// for the caller's operating session, opening a treatment.
	// Renegotiation tickets never belong to a sector, so there is
	// nothing to narrow the claim by.
	CallNextForOperator(ctx context.Context, userID uuid.UUID) (*CallNextResult, error)
	// EndService completes an in-service treatment and its ticket.
	EndService(ctx context.Context, treatmentID uuid.UUID) error
	Shutdown()
}

// SectorService defines sector administration.
type SectorService interface {
	CreateSector(ctx context.Context, name string) (*domain.Sector, error)
	RenameSector(ctx context.Context, id uuid.UUID, name string) (*domain.Sector, error)
	GetSector(ctx context.Context, id uuid.UUID) (*domain.Sector, error)
	ListSectors(ctx context.Context) ([]*domain.Sector, error)
	DeleteSector(ctx context.Context, id uuid.UUID) error
}

// OperationService defines staff working-session management.
type OperationService interface {
	StartOperation(ctx context.Context, userID uuid.UUID, servicePoint string) (*domain.Operation, error)
	FinishOperation(ctx context.Context, userID, operationID uuid.UUID) (*domain.Operation, error)
	CurrentOperation(ctx context.Context, userID uuid.UUID) (*domain.Operation, error)
}

// EventBroadcaster defines the port for pushing change events to all
// connected real-time subscribers. Best effort: a slow or closed
// subscriber never blocks or fails the publisher.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}

// PanelNotifier defines the port for announcing a call on the public
// display panel. Fire and forget: failures are logged, never returned.
type PanelNotifier interface {
	AnnounceCall(ctx context.Context, announcement domain.CallAnnouncement)
}

// TransactionManager defines the port for running atomic operations.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
