package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusPending   TicketStatus = "pending"
	StatusInService TicketStatus = "in_service"
	StatusCompleted TicketStatus = "completed"
	StatusCanceled  TicketStatus = "canceled"
)

// IsTerminal reports whether no further transition is permitted.
func (s TicketStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// ServiceType partitions tickets into two disjoint queues: sector-scoped
// Service tickets and the shared Renegotiation pool.
type ServiceType string

const (
	ServiceTypeService       ServiceType = "Service"
	ServiceTypeRenegotiation ServiceType = "Renegotiation"
)

const MinCustomerNameLength = 3

// Ticket is the core domain entity: a customer's request for service,
// tracked through its status lifecycle.
type Ticket struct {
	ID           uuid.UUID
	CustomerName string
	Status       TicketStatus
	ServiceType  ServiceType
	SectorID     *uuid.UUID
	CalledAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// TicketParams holds the input for creating a new ticket.
type TicketParams struct {
	CustomerName string
	ServiceType  ServiceType
	SectorID     *uuid.UUID
}

// Validate checks the customer name and the service-type/sector pairing.
func (p *TicketParams) Validate() error {
	if len(strings.TrimSpace(p.CustomerName)) < MinCustomerNameLength {
		return apperrors.ErrCustomerNameTooShort
	}

	switch p.ServiceType {
	case ServiceTypeService:
		if p.SectorID == nil || *p.SectorID == uuid.Nil {
			return apperrors.ErrSectorRequired
		}
	case ServiceTypeRenegotiation:
		if p.SectorID != nil {
			return apperrors.ErrSectorNotAllowed
		}
	default:
		return apperrors.ErrInvalidServiceType
	}

	return nil
}

// NewTicket is a factory function to create a valid new ticket.
func NewTicket(params TicketParams) (*Ticket, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Ticket{
		CustomerName: strings.TrimSpace(params.CustomerName),
		Status:       StatusPending,
		ServiceType:  params.ServiceType,
		SectorID:     params.SectorID,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Cancel moves the ticket to the canceled terminal state.
// Terminal tickets are never resurrected; the caller gets a typed error
// distinguishing "already canceled" from "already completed".
func (t *Ticket) Cancel() error {
	switch t.Status {
	case StatusCanceled:
		return apperrors.ErrTicketAlreadyCanceled
	case StatusCompleted:
		return apperrors.ErrTicketAlreadyClosed
	}

	t.Status = StatusCanceled
	t.touch()
	return nil
}

// Complete moves the ticket to the completed terminal state.
func (t *Ticket) Complete() error {
	if t.Status.IsTerminal() {
		return apperrors.ErrTicketAlreadyClosed
	}

	t.Status = StatusCompleted
	t.touch()
	return nil
}

// Rename updates the customer name without touching the status.
func (t *Ticket) Rename(customerName string) error {
	if len(strings.TrimSpace(customerName)) < MinCustomerNameLength {
		return apperrors.ErrCustomerNameTooShort
	}
	t.CustomerName = strings.TrimSpace(customerName)
	t.touch()
	return nil
}

// Reclassify changes the service type / sector pairing, keeping the
// pairing invariant intact. The status is left alone.
func (t *Ticket) Reclassify(serviceType ServiceType, sectorID *uuid.UUID) error {
	params := TicketParams{
		CustomerName: t.CustomerName,
		ServiceType:  serviceType,
		SectorID:     sectorID,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	t.ServiceType = serviceType
	t.SectorID = sectorID
	t.touch()
	return nil
}

func (t *Ticket) touch() {
	now := time.Now().UTC()
	t.UpdatedAt = &now
}
