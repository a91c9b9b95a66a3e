package postgres

import (
	"context"
	"fmt"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) Create(ctx context.Context, t domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, cpf, kind, created_at, valid_until, remaining_uses)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt, t.ID, t.CPF, t.Kind, t.CreatedAt, t.ValidUntil, t.RemainingUses)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) Get(ctx context.Context, id string) (domain.Ticket, error) {
	const query = `
SELECT id, cpf, kind, created_at, valid_until, remaining_uses
FROM tickets
WHERE id = $1`

	var t domain.Ticket
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.CPF, &t.Kind, &t.CreatedAt, &t.ValidUntil, &t.RemainingUses)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
SELECT id, cpf, kind, created_at, valid_until, remaining_uses
FROM tickets
ORDER BY created_at ASC`

	return r.collect(ctx, query)
}

func (r *TicketRepository) ListByCPF(ctx context.Context, cpf int64) ([]domain.Ticket, error) {
	const query = `
SELECT id, cpf, kind, created_at, valid_until, remaining_uses
FROM tickets
WHERE cpf = $1
ORDER BY created_at ASC`

	return r.collect(ctx, query, cpf)
}

// ConsumeUse decrements remaining_uses by one as a single conditional
// update. Concurrent callers serialize on the row: when only one unit
// remains, exactly one of them observes a row and the rest get
// ErrTicketExhausted.
func (r *TicketRepository) ConsumeUse(ctx context.Context, id string) (int, error) {
	const stmt = `
UPDATE tickets
SET remaining_uses = remaining_uses - 1
WHERE id = $1 AND remaining_uses > 0
RETURNING remaining_uses`

	var remaining int
	err := r.pool.QueryRow(ctx, stmt, id).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrTicketExhausted
		}
		return 0, fmt.Errorf("consume ticket use: %w", err)
	}
	return remaining, nil
}

// RestoreUse re-credits one consumed unit. Only the admission saga's
// compensation path calls this; tickets are never re-credited through any
// public operation.
func (r *TicketRepository) RestoreUse(ctx context.Context, id string) error {
	const stmt = `
UPDATE tickets
SET remaining_uses = remaining_uses + 1
WHERE id = $1 AND kind = 'limited'`

	tag, err := r.pool.Exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("restore ticket use: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.CPF, &t.Kind, &t.CreatedAt, &t.ValidUntil, &t.RemainingUses); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
