package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
)

// Sector is a named service desk that owns a queue of Service tickets.
// Deleting a sector cascades to its tickets at the data layer.
type Sector struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewSector creates a sector with a validated, non-empty name.
func NewSector(name string) (*Sector, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, apperrors.ErrSectorNameRequired
	}

	return &Sector{
		Name:      trimmed,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Rename updates the sector name.
func (s *Sector) Rename(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.ErrSectorNameRequired
	}
	s.Name = trimmed
	now := time.Now().UTC()
	s.UpdatedAt = &now
	return nil
}
