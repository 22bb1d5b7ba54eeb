package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

const operationColumns = "id, user_id, service_point, status, created_at, updated_at"

// OperationRepository is the secondary adapter for staff working sessions.
type OperationRepository struct {
	pool *pgxpool.Pool
}

var _ ports.OperationRepository = (*OperationRepository)(nil)

// NewOperationRepository creates a new operation repository.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

func scanOperation(row rowScanner) (*domain.Operation, error) {
	var (
		operation domain.Operation
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&operation.ID,
		&operation.UserID,
		&operation.ServicePoint,
		&operation.Status,
		&operation.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		operation.UpdatedAt = &t
	}

	return &operation, nil
}

// Create persists a new operating session. The partial unique index on
// (user_id) WHERE status = 'operating' rejects a second open session.
func (r *OperationRepository) Create(ctx context.Context, operation *domain.Operation) (*domain.Operation, error) {
	query := `
		INSERT INTO operations (user_id, service_point, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + operationColumns

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		operation.UserID,
		operation.ServicePoint,
		operation.Status,
		operation.CreatedAt,
	)

	created, err := scanOperation(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrOperationAlreadyActive
		}
		return nil, fmt.Errorf("failed to create operation: %w", err)
	}
	return created, nil
}

// GetByID retrieves a single operation by its ID.
func (r *OperationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	query := "SELECT " + operationColumns + " FROM operations WHERE id = $1"

	db := GetDBTX(ctx, r.pool)
	operation, err := scanOperation(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return operation, nil
}

// GetOperatingByUser retrieves the user's single operating session.
func (r *OperationRepository) GetOperatingByUser(ctx context.Context, userID uuid.UUID) (*domain.Operation, error) {
	query := "SELECT " + operationColumns + " FROM operations WHERE user_id = $1 AND status = 'operating'"

	db := GetDBTX(ctx, r.pool)
	operation, err := scanOperation(db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoActiveOperation
		}
		return nil, fmt.Errorf("failed to get operating session: %w", err)
	}
	return operation, nil
}

// Update persists changes to an existing operation.
func (r *OperationRepository) Update(ctx context.Context, operation *domain.Operation) (*domain.Operation, error) {
	query := `
		UPDATE operations
		SET service_point = $2, status = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + operationColumns

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		operation.ID,
		operation.ServicePoint,
		operation.Status,
		operation.UpdatedAt,
	)

	updated, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to update operation: %w", err)
	}
	return updated, nil
}
