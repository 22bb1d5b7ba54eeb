package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

const treatmentColumns = "id, ticket_id, operation_id, status, created_at"

// TreatmentRepository is the secondary adapter for service encounters.
type TreatmentRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TreatmentRepository = (*TreatmentRepository)(nil)

// NewTreatmentRepository creates a new treatment repository.
func NewTreatmentRepository(pool *pgxpool.Pool) *TreatmentRepository {
	return &TreatmentRepository{pool: pool}
}

func scanTreatment(row rowScanner) (*domain.Treatment, error) {
	var treatment domain.Treatment

	err := row.Scan(
		&treatment.ID,
		&treatment.TicketID,
		&treatment.OperationID,
		&treatment.Status,
		&treatment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &treatment, nil
}

// Create persists a new in-service encounter. The partial unique index
// on (operation_id) WHERE status = 'in_service' rejects a second open
// encounter per operation.
func (r *TreatmentRepository) Create(ctx context.Context, treatment *domain.Treatment) (*domain.Treatment, error) {
	query := `
		INSERT INTO treatments (ticket_id, operation_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + treatmentColumns

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		treatment.TicketID,
		treatment.OperationID,
		treatment.Status,
		treatment.CreatedAt,
	)

	created, err := scanTreatment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrTreatmentAlreadyActive
		}
		return nil, fmt.Errorf("failed to create treatment: %w", err)
	}
	return created, nil
}

// GetByID retrieves a single treatment by its ID.
func (r *TreatmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Treatment, error) {
	query := "SELECT " + treatmentColumns + " FROM treatments WHERE id = $1"

	db := GetDBTX(ctx, r.pool)
	treatment, err := scanTreatment(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTreatmentNotFound
		}
		return nil, fmt.Errorf("failed to get treatment: %w", err)
	}
	return treatment, nil
}

// Update persists changes to an existing treatment.
func (r *TreatmentRepository) Update(ctx context.Context, treatment *domain.Treatment) (*domain.Treatment, error) {
	query := `
		UPDATE treatments
		SET status = $2
		WHERE id = $1
		RETURNING ` + treatmentColumns

	db := GetDBTX(ctx, r.pool)
	updated, err := scanTreatment(db.QueryRow(ctx, query, treatment.ID, treatment.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTreatmentNotFound
		}
		return nil, fmt.Errorf("failed to update treatment: %w", err)
	}
	return updated, nil
}

// GetInServiceByOperation retrieves the operation's single open encounter.
func (r *TreatmentRepository) GetInServiceByOperation(ctx context.Context, operationID uuid.UUID) (*domain.Treatment, error) {
	query := "SELECT " + treatmentColumns + " FROM treatments WHERE operation_id = $1 AND status = 'in_service'"

	db := GetDBTX(ctx, r.pool)
	treatment, err := scanTreatment(db.QueryRow(ctx, query, operationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTreatmentNotFound
		}
		return nil, fmt.Errorf("failed to get in-service treatment: %w", err)
	}
	return treatment, nil
}
