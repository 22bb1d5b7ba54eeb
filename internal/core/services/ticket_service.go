package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// TicketService implements business logic for ticket management
type TicketService struct {
	ticketRepo  ports.TicketRepository
	sectorRepo  ports.SectorRepository
	broadcaster ports.EventBroadcaster
	wg          sync.WaitGroup
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo ports.TicketRepository,
	sectorRepo ports.SectorRepository,
	broadcaster ports.EventBroadcaster,
) *TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		sectorRepo:  sectorRepo,
		broadcaster: broadcaster,
	}
}

// CreateTicket handles the use case for registering a new customer request.
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	// 1. Create domain entity with validation
	ticket, err := domain.NewTicket(domain.TicketParams{
		CustomerName: params.CustomerName,
		ServiceType:  params.ServiceType,
		SectorID:     params.SectorID,
	})
	if err != nil {
		return nil, err
	}

	// 2. Service tickets must point at an existing sector
	if ticket.SectorID != nil {
		if _, err := s.sectorRepo.GetByID(ctx, *ticket.SectorID); err != nil {
			return nil, err
		}
	}

	// 3. Persist the ticket
	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	// 4. Broadcast real-time event (post-commit, async)
	s.broadcastEvent(domain.EventTicketCreated, created.ID)

	return created, nil
}

// GetTicket retrieves a specific ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// UpdateTicket edits the customer name / sector / service type fields of
// a ticket without changing its status.
func (s *TicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	if params.CustomerName != nil {
		if err := ticket.Rename(*params.CustomerName); err != nil {
			return nil, err
		}
	}

	if params.ServiceType != nil || params.SectorID != nil {
		serviceType := ticket.ServiceType
		if params.ServiceType != nil {
			serviceType = *params.ServiceType
		}
		sectorID := ticket.SectorID
		if params.SectorID != nil {
			sectorID = params.SectorID
		}
		if serviceType == domain.ServiceTypeRenegotiation {
			sectorID = nil
		}
		if err := ticket.Reclassify(serviceType, sectorID); err != nil {
			return nil, err
		}
		if ticket.SectorID != nil {
			if _, err := s.sectorRepo.GetByID(ctx, *ticket.SectorID); err != nil {
				return nil, err
			}
		}
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcastEvent(domain.EventTicketUpdated, updated.ID)

	return updated, nil
}

// CancelTicket moves a ticket to the canceled terminal state. Canceling
// an already-canceled ticket is rejected without touching the record.
func (s *TicketService) CancelTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.Cancel(); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcastEvent(domain.EventTicketUpdated, updated.ID)

	return updated, nil
}

// ListTickets retrieves tickets matching the conjunctive filters.
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]*domain.Ticket, error) {
	if params.SectorID != nil {
		if _, err := s.sectorRepo.GetByID(ctx, *params.SectorID); err != nil {
			return nil, err
		}
	}

	return s.ticketRepo.List(ctx, ports.TicketFilter{
		Status:      params.Status,
		ServiceType: params.ServiceType,
		SectorID:    params.SectorID,
	})
}

// broadcastEvent queues a real-time change event as a post-commit effect.
// Broadcast failures never surface to the caller.
func (s *TicketService) broadcastEvent(eventType domain.EventType, ticketID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:     eventType,
			TicketID: ticketID,
		})
	}()
}

// Shutdown waits for in-flight broadcast effects to drain.
func (s *TicketService) Shutdown() {
	s.wg.Wait()
}
