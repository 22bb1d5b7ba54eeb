package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// SectorService implements sector administration.
type SectorService struct {
	sectorRepo ports.SectorRepository
}

var _ ports.SectorService = (*SectorService)(nil)

// NewSectorService creates a new sector service
func NewSectorService(sectorRepo ports.SectorRepository) *SectorService {
	return &SectorService{sectorRepo: sectorRepo}
}

// CreateSector creates a sector with a validated name.
func (s *SectorService) CreateSector(ctx context.Context, name string) (*domain.Sector, error) {
	sector, err := domain.NewSector(name)
	if err != nil {
		return nil, err
	}
	return s.sectorRepo.Create(ctx, sector)
}

// RenameSector renames an existing sector.
func (s *SectorService) RenameSector(ctx context.Context, id uuid.UUID, name string) (*domain.Sector, error) {
	sector, err := s.sectorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sector.Rename(name); err != nil {
		return nil, err
	}

	return s.sectorRepo.Update(ctx, sector)
}

// GetSector retrieves a sector by id.
func (s *SectorService) GetSector(ctx context.Context, id uuid.UUID) (*domain.Sector, error) {
	return s.sectorRepo.GetByID(ctx, id)
}

// ListSectors retrieves all sectors.
func (s *SectorService) ListSectors(ctx context.Context) ([]*domain.Sector, error) {
	return s.sectorRepo.List(ctx)
}

// DeleteSector removes a sector. The store cascades the delete to every
// ticket referencing it.
func (s *SectorService) DeleteSector(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sectorRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.sectorRepo.Delete(ctx, id)
}
