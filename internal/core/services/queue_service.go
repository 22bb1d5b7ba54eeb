package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// renegotiationPoolLabel is announced on the panel when a claimed
// Renegotiation ticket carries no sector.
const renegotiationPoolLabel = "Renegotiation"

// QueueService implements the call-next and end-of-service flows.
//
// The selection step is delegated to the repository's atomic claim:
// pick-oldest-pending and flip-status happen in one conditioned update,
// so two operators draining the same pool can never double-call a
// ticket. Panel relay and broadcast are post-commit effects; their
// failures are logged and swallowed, never rolled back into the
// committed state change.
type QueueService struct {
	ticketRepo    ports.TicketRepository
	sectorRepo    ports.SectorRepository
	operationRepo ports.OperationRepository
	treatmentRepo ports.TreatmentRepository
	txManager     ports.TransactionManager
	panel         ports.PanelNotifier
	broadcaster   ports.EventBroadcaster
	logger        *slog.Logger
	wg            sync.WaitGroup
}

var _ ports.QueueService = (*QueueService)(nil)

// NewQueueService creates a new queue service
func NewQueueService(
	ticketRepo ports.TicketRepository,
	sectorRepo ports.SectorRepository,
	operationRepo ports.OperationRepository,
	treatmentRepo ports.TreatmentRepository,
	txManager ports.TransactionManager,
	panel ports.PanelNotifier,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
) *QueueService {
	return &QueueService{
		ticketRepo:    ticketRepo,
		sectorRepo:    sectorRepo,
		operationRepo: operationRepo,
		treatmentRepo: treatmentRepo,
		txManager:     txManager,
		panel:         panel,
		broadcaster:   broadcaster,
		logger:        logger.With("component", "queue_service"),
	}
}

// CallNextForSector claims the oldest pending ticket of the sector and
// completes it directly (walk-up flow: no operator session involved).
func (s *QueueService) CallNextForSector(ctx context.Context, sectorID uuid.UUID) (*ports.CallNextResult, error) {
	sector, err := s.sectorRepo.GetByID(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.ClaimNext(ctx, ports.ClaimNextParams{
		SectorID:   &sectorID,
		NextStatus: domain.StatusCompleted,
		CalledAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	result := &ports.CallNextResult{
		Ticket:     ticket,
		SectorName: sector.Name,
	}

	s.runPostCommit(
		func(effectCtx context.Context) {
			s.panel.AnnounceCall(effectCtx, domain.CallAnnouncement{
				Name:   ticket.CustomerName,
				Sector: sector.Name,
			})
		},
		func(context.Context) {
			_ = s.broadcaster.Broadcast(domain.Event{
				Type:     domain.EventTicketUpdated,
				TicketID: ticket.ID,
			})
		},
	)

	return result, nil
}

// CallNextForOperator claims the oldest pending Renegotiation ticket for
// the caller's operating session, opening an in-service treatment. The
// claim and the treatment insert commit atomically.
func (s *QueueService) CallNextForOperator(ctx context.Context, userID uuid.UUID) (*ports.CallNextResult, error) {
	operation, err := s.operationRepo.GetOperatingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	serviceType := domain.ServiceTypeRenegotiation

	var (
		ticket    *domain.Ticket
		treatment *domain.Treatment
	)
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		claimed, claimErr := s.ticketRepo.ClaimNext(txCtx, ports.ClaimNextParams{
			ServiceType: &serviceType,
			NextStatus:  domain.StatusInService,
			CalledAt:    time.Now().UTC(),
		})
		if claimErr != nil {
			return claimErr
		}

		created, claimErr := s.treatmentRepo.Create(txCtx, domain.NewTreatment(claimed.ID, operation.ID))
		if claimErr != nil {
			return claimErr
		}

		ticket = claimed
		treatment = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	sectorName := s.sectorLabel(ctx, ticket)

	result := &ports.CallNextResult{
		Ticket:       ticket,
		Treatment:    treatment,
		SectorName:   sectorName,
		ServicePoint: operation.ServicePoint,
	}

	s.runPostCommit(
		func(effectCtx context.Context) {
			s.panel.AnnounceCall(effectCtx, domain.CallAnnouncement{
				Name:         ticket.CustomerName,
				Sector:       sectorName,
				ServicePoint: operation.ServicePoint,
			})
		},
		func(context.Context) {
			_ = s.broadcaster.Broadcast(domain.Event{
				Type:     domain.EventTicketUpdated,
				TicketID: ticket.ID,
			})
		},
	)

	return result, nil
}

// EndService completes an in-service treatment together with its ticket.
func (s *QueueService) EndService(ctx context.Context, treatmentID uuid.UUID) error {
	treatment, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return err
	}

	if err := treatment.Complete(); err != nil {
		return err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, treatment.TicketID)
	if err != nil {
		return err
	}

	if err := ticket.Complete(); err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, txErr := s.ticketRepo.Update(txCtx, ticket); txErr != nil {
			return txErr
		}
		_, txErr := s.treatmentRepo.Update(txCtx, treatment)
		return txErr
	})
	if err != nil {
		return err
	}

	s.runPostCommit(func(context.Context) {
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:     domain.EventTicketUpdated,
			TicketID: ticket.ID,
		})
	})

	return nil
}

// sectorLabel resolves the name announced on the panel for a ticket.
// Renegotiation tickets carry no sector and announce under the pool name.
func (s *QueueService) sectorLabel(ctx context.Context, ticket *domain.Ticket) string {
	if ticket.SectorID == nil {
		return renegotiationPoolLabel
	}
	sector, err := s.sectorRepo.GetByID(ctx, *ticket.SectorID)
	if err != nil {
		s.logger.Warn("failed to resolve sector for panel announcement",
			"ticket_id", ticket.ID,
			"error", err,
		)
		return renegotiationPoolLabel
	}
	return sector.Name
}

// runPostCommit executes side effects after the authoritative mutation
// has committed. Each effect runs independently; a panic in one is
// recovered and logged so it cannot take down its siblings or the server.
func (s *QueueService) runPostCommit(effects ...func(ctx context.Context)) {
	for _, effect := range effects {
		s.wg.Add(1)
		go func(fn func(ctx context.Context)) {
			defer s.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("post-commit effect panicked", "panic", r)
				}
			}()
			// The triggering request may already be finished.
			fn(context.Background())
		}(effect)
	}
}

// Shutdown waits for in-flight post-commit effects to drain.
func (s *QueueService) Shutdown() {
	s.wg.Wait()
}
