package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
)

// OperationStatus represents the state of a staff working session.
type OperationStatus string

const (
	OperationOperating OperationStatus = "operating"
	OperationFinished  OperationStatus = "finished"
)

// Operation is a staff member's active working session at a service point.
// At most one operating session exists per user, enforced by a partial
// unique index in the store.
type Operation struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ServicePoint string
	Status       OperationStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// NewOperation creates an operating session for a user at a service point.
func NewOperation(userID uuid.UUID, servicePoint string) (*Operation, error) {
	trimmed := strings.TrimSpace(servicePoint)
	if trimmed == "" {
		return nil, apperrors.ErrServicePointRequired
	}

	return &Operation{
		UserID:       userID,
		ServicePoint: trimmed,
		Status:       OperationOperating,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Finish ends the working session. Finishing twice is a state conflict.
func (o *Operation) Finish() error {
	if o.Status == OperationFinished {
		return apperrors.ErrOperationFinished
	}
	o.Status = OperationFinished
	now := time.Now().UTC()
	o.UpdatedAt = &now
	return nil
}

// TreatmentStatus represents the state of a single service encounter.
type TreatmentStatus string

const (
	TreatmentInService TreatmentStatus = "in_service"
	TreatmentCompleted TreatmentStatus = "completed"
)

// Treatment links a ticket to the operation that is serving it.
type Treatment struct {
	ID          uuid.UUID
	TicketID    uuid.UUID
	OperationID uuid.UUID
	Status      TreatmentStatus
	CreatedAt   time.Time
}

// NewTreatment creates an in-service encounter for a claimed ticket.
func NewTreatment(ticketID, operationID uuid.UUID) *Treatment {
	return &Treatment{
		TicketID:    ticketID,
		OperationID: operationID,
		Status:      TreatmentInService,
		CreatedAt:   time.Now().UTC(),
	}
}

// Complete ends the encounter. Only in-service treatments can complete.
func (t *Treatment) Complete() error {
	if t.Status != TreatmentInService {
		return apperrors.ErrTreatmentNotInService
	}
	t.Status = TreatmentCompleted
	return nil
}
