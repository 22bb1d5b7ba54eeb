package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/core/domain"
)

// TicketFilter narrows ticket listings. Nil fields are not applied;
// present fields combine conjunctively.
type TicketFilter struct {
	Status      *domain.TicketStatus
	ServiceType *domain.ServiceType
	SectorID    *uuid.UUID
}

// ClaimNextParams describes an atomic claim over a pending queue: the
// oldest matching pending ticket is flipped to NextStatus and stamped
// with CalledAt in a single conditioned update.
type ClaimNextParams struct {
	SectorID    *uuid.UUID
	ServiceType *domain.ServiceType
	NextStatus  domain.TicketStatus
	CalledAt    time.Time
}

// TicketRepository is the port for ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)
	// ClaimNext atomically selects and flips the oldest pending ticket
	// matching the params. Returns ErrNoPendingTicket when the pool is
	// empty; two concurrent claims over one ticket resolve to a single
	// winner.
	ClaimNext(ctx context.Context, params ClaimNextParams) (*domain.Ticket, error)
}

// SectorRepository is the port for sector persistence.
type SectorRepository interface {
	Create(ctx context.Context, sector *domain.Sector) (*domain.Sector, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Sector, error)
	Update(ctx context.Context, sector *domain.Sector) (*domain.Sector, error)
	List(ctx context.Context) ([]*domain.Sector, error)
	// Delete removes the sector; its tickets go with it (cascade).
	Delete(ctx context.Context, id uuid.UUID) error
}

// OperationRepository is the port for staff working sessions.
type OperationRepository interface {
	Create(ctx context.Context, operation *domain.Operation) (*domain.Operation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error)
	// GetOperatingByUser returns the user's single operating session, or
	// ErrNoActiveOperation.
	GetOperatingByUser(ctx context.Context, userID uuid.UUID) (*domain.Operation, error)
	Update(ctx context.Context, operation *domain.Operation) (*domain.Operation, error)
}

// TreatmentRepository is the port for service encounters.
type TreatmentRepository interface {
	Create(ctx context.Context, treatment *domain.Treatment) (*domain.Treatment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Treatment, error)
	Update(ctx context.Context, treatment *domain.Treatment) (*domain.Treatment, error)
	// GetInServiceByOperation returns the operation's single in-service
	// treatment, or ErrTreatmentNotFound.
	GetInServiceByOperation(ctx context.Context, operationID uuid.UUID) (*domain.Treatment, error)
}

// UserRepository is the port for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.User, error)
}
