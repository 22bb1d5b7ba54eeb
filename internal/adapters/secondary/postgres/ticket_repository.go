package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

const ticketColumns = "id, customer_name, status, service_type, sector_id, called_at, created_at, updated_at"

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		sectorID  pgtype.UUID
		calledAt  pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&ticket.ID,
		&ticket.CustomerName,
		&ticket.Status,
		&ticket.ServiceType,
		&sectorID,
		&calledAt,
		&ticket.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sectorID.Valid {
		id := uuid.UUID(sectorID.Bytes)
		ticket.SectorID = &id
	}
	if calledAt.Valid {
		t := calledAt.Time
		ticket.CalledAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		ticket.UpdatedAt = &t
	}

	return &ticket, nil
}

// Create persists a new ticket.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		INSERT INTO tickets (customer_name, status, service_type, sector_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ticketColumns

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		ticket.CustomerName,
		ticket.Status,
		ticket.ServiceType,
		ticket.SectorID,
		ticket.CreatedAt,
	)

	created, err := scanTicket(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return created, nil
}

// GetByID retrieves a single ticket by its ID.
func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := "SELECT " + ticketColumns + " FROM tickets WHERE id = $1"

	db := GetDBTX(ctx, r.pool)
	ticket, err := scanTicket(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// Update persists changes to an existing ticket.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET customer_name = $2,
		    status = $3,
		    service_type = $4,
		    sector_id = $5,
		    called_at = $6,
		    updated_at = $7
		WHERE id = $1
		RETURNING ` + ticketColumns

	db := GetDBTX(ctx, r.pool)
	row := db.QueryRow(ctx, query,
		ticket.ID,
		ticket.CustomerName,
		ticket.Status,
		ticket.ServiceType,
		ticket.SectorID,
		ticket.CalledAt,
		ticket.UpdatedAt,
	)

	updated, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return updated, nil
}

// List retrieves tickets matching the filter, oldest first.
func (r *TicketRepository) List(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ServiceType != nil {
		args = append(args, *filter.ServiceType)
		conditions = append(conditions, fmt.Sprintf("service_type = $%d", len(args)))
	}
	if filter.SectorID != nil {
		args = append(args, *filter.SectorID)
		conditions = append(conditions, fmt.Sprintf("sector_id = $%d", len(args)))
	}

	query := "SELECT " + ticketColumns + " FROM tickets"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// ClaimNext atomically selects the oldest pending ticket matching the
// params and flips it to the requested status. FOR UPDATE SKIP LOCKED
// makes concurrent claims resolve to distinct tickets: the row a rival
// transaction already locked is skipped, not waited on.
func (r *TicketRepository) ClaimNext(ctx context.Context, params ports.ClaimNextParams) (*domain.Ticket, error) {
	args := []any{params.NextStatus, params.CalledAt}
	conditions := []string{"status = 'pending'"}

	if params.SectorID != nil {
		args = append(args, *params.SectorID)
		conditions = append(conditions, fmt.Sprintf("sector_id = $%d", len(args)))
	}
	if params.ServiceType != nil {
		args = append(args, *params.ServiceType)
		conditions = append(conditions, fmt.Sprintf("service_type = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		WITH next_ticket AS (
			SELECT id FROM tickets
			WHERE %s
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE tickets
		SET status = $1, called_at = $2, updated_at = $2
		FROM next_ticket
		WHERE tickets.id = next_ticket.id
		RETURNING tickets.id, tickets.customer_name, tickets.status, tickets.service_type,
		          tickets.sector_id, tickets.called_at, tickets.created_at, tickets.updated_at`,
		strings.Join(conditions, " AND "))

	db := GetDBTX(ctx, r.pool)
	ticket, err := scanTicket(db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoPendingTicket
		}
		return nil, fmt.Errorf("failed to claim next ticket: %w", err)
	}
	return ticket, nil
}
