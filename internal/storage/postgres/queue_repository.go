package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QueueRepository struct {
	pool *pgxpool.Pool
}

func NewQueueRepository(pool *pgxpool.Pool) *QueueRepository {
	return &QueueRepository{pool: pool}
}

// Insert appends a queue entry. The (attraction_id, cpf) uniqueness
// constraint turns a concurrent duplicate into ErrAlreadyQueued rather than
// leaving a race window.
func (r *QueueRepository) Insert(ctx context.Context, attractionID, cpf int64, enteredAt time.Time) (domain.QueueEntry, error) {
	const stmt = `
INSERT INTO queue_entries (attraction_id, cpf, entered_at)
VALUES ($1, $2, $3)
RETURNING id`

	entry := domain.QueueEntry{
		AttractionID: attractionID,
		CPF:          cpf,
		EnteredAt:    enteredAt,
	}
	err := r.pool.QueryRow(ctx, stmt, attractionID, cpf, enteredAt).Scan(&entry.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.QueueEntry{}, domain.ErrAlreadyQueued
		}
		return domain.QueueEntry{}, fmt.Errorf("insert queue entry: %w", err)
	}
	return entry, nil
}

// Delete removes the entry for (attraction, user); absence is
// ErrQueueEntryNotFound.
func (r *QueueRepository) Delete(ctx context.Context, attractionID, cpf int64) error {
	const stmt = `
DELETE FROM queue_entries
WHERE attraction_id = $1 AND cpf = $2`

	tag, err := r.pool.Exec(ctx, stmt, attractionID, cpf)
	if err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQueueEntryNotFound
	}
	return nil
}

func (r *QueueRepository) Get(ctx context.Context, id int64) (domain.QueueEntry, error) {
	const query = `
SELECT id, attraction_id, cpf, entered_at
FROM queue_entries
WHERE id = $1`

	var e domain.QueueEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.AttractionID, &e.CPF, &e.EnteredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.QueueEntry{}, domain.ErrQueueEntryNotFound
		}
		return domain.QueueEntry{}, fmt.Errorf("get queue entry: %w", err)
	}
	return e, nil
}

func (r *QueueRepository) List(ctx context.Context) ([]domain.QueueEntry, error) {
	const query = `
SELECT id, attraction_id, cpf, entered_at
FROM queue_entries
ORDER BY id ASC`

	return r.collect(ctx, query)
}

func (r *QueueRepository) ListByCPF(ctx context.Context, cpf int64) ([]domain.QueueEntry, error) {
	const query = `
SELECT id, attraction_id, cpf, entered_at
FROM queue_entries
WHERE cpf = $1
ORDER BY entered_at ASC`

	return r.collect(ctx, query, cpf)
}

// ListByAttraction returns an attraction's queue in FIFO order.
func (r *QueueRepository) ListByAttraction(ctx context.Context, attractionID int64) ([]domain.QueueEntry, error) {
	const query = `
SELECT id, attraction_id, cpf, entered_at
FROM queue_entries
WHERE attraction_id = $1
ORDER BY entered_at ASC`

	return r.collect(ctx, query, attractionID)
}

func (r *QueueRepository) collect(ctx context.Context, query string, args ...any) ([]domain.QueueEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list queue entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueueEntry
	for rows.Next() {
		var e domain.QueueEntry
		if err := rows.Scan(&e.ID, &e.AttractionID, &e.CPF, &e.EnteredAt); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
