package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

const sectorColumns = "id, name, created_at, updated_at"

// SectorRepository is the secondary adapter for sector persistence.
type SectorRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SectorRepository = (*SectorRepository)(nil)

// NewSectorRepository creates a new sector repository.
func NewSectorRepository(pool *pgxpool.Pool) *SectorRepository {
	return &SectorRepository{pool: pool}
}

func scanSector(row rowScanner) (*domain.Sector, error) {
	var (
		sector    domain.Sector
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&sector.ID, &sector.Name, &sector.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		sector.UpdatedAt = &t
	}

	return &sector, nil
}

// Create persists a new sector.
func (r *SectorRepository) Create(ctx context.Context, sector *domain.Sector) (*domain.Sector, error) {
	query := `
		INSERT INTO sectors (name, created_at)
		VALUES ($1, $2)
		RETURNING ` + sectorColumns

	db := GetDBTX(ctx, r.pool)
	created, err := scanSector(db.QueryRow(ctx, query, sector.Name, sector.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create sector: %w", err)
	}
	return created, nil
}

// GetByID retrieves a single sector by its ID.
func (r *SectorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sector, error) {
	query := "SELECT " + sectorColumns + " FROM sectors WHERE id = $1"

	db := GetDBTX(ctx, r.pool)
	sector, err := scanSector(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectorNotFound
		}
		return nil, fmt.Errorf("failed to get sector: %w", err)
	}
	return sector, nil
}

// Update persists changes to an existing sector.
func (r *SectorRepository) Update(ctx context.Context, sector *domain.Sector) (*domain.Sector, error) {
	query := `
		UPDATE sectors
		SET name = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + sectorColumns

	db := GetDBTX(ctx, r.pool)
	updated, err := scanSector(db.QueryRow(ctx, query, sector.ID, sector.Name, sector.UpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectorNotFound
		}
		return nil, fmt.Errorf("failed to update sector: %w", err)
	}
	return updated, nil
}

// List retrieves all sectors ordered by name.
func (r *SectorRepository) List(ctx context.Context) ([]*domain.Sector, error) {
	query := "SELECT " + sectorColumns + " FROM sectors ORDER BY name ASC"

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	defer rows.Close()

	sectors := []*domain.Sector{}
	for rows.Next() {
		sector, err := scanSector(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, sector)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sectors: %w", err)
	}

	return sectors, nil
}

// Delete removes a sector. Tickets referencing it are removed by the
// ON DELETE CASCADE on tickets.sector_id.
func (r *SectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM sectors WHERE id = $1"

	db := GetDBTX(ctx, r.pool)
	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sector: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSectorNotFound
	}
	return nil
}
