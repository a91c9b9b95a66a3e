package postgres

import (
	"context"
	"fmt"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttractionRepository struct {
	pool *pgxpool.Pool
}

func NewAttractionRepository(pool *pgxpool.Pool) *AttractionRepository {
	return &AttractionRepository{pool: pool}
}

func (r *AttractionRepository) Create(ctx context.Context, a domain.Attraction) (domain.Attraction, error) {
	const stmt = `
INSERT INTO attractions (name, description, capacity, avg_wait, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	err := r.pool.QueryRow(ctx, stmt, a.Name, a.Description, a.Capacity, a.AvgWait, a.Status).Scan(&a.ID)
	if err != nil {
		return domain.Attraction{}, fmt.Errorf("create attraction: %w", err)
	}
	return a, nil
}

func (r *AttractionRepository) Get(ctx context.Context, id int64) (domain.Attraction, error) {
	const query = `
SELECT id, name, description, capacity, avg_wait, status
FROM attractions
WHERE id = $1`

	var a domain.Attraction
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Description, &a.Capacity, &a.AvgWait, &a.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Attraction{}, domain.ErrAttractionNotFound
		}
		return domain.Attraction{}, fmt.Errorf("get attraction: %w", err)
	}
	return a, nil
}

func (r *AttractionRepository) List(ctx context.Context) ([]domain.Attraction, error) {
	const query = `
SELECT id, name, description, capacity, avg_wait, status
FROM attractions
ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	defer rows.Close()

	var attractions []domain.Attraction
	for rows.Next() {
		var a domain.Attraction
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Capacity, &a.AvgWait, &a.Status); err != nil {
			return nil, fmt.Errorf("scan attraction: %w", err)
		}
		attractions = append(attractions, a)
	}
	return attractions, rows.Err()
}

// Update applies the non-nil fields, leaving the rest untouched.
func (r *AttractionRepository) Update(ctx context.Context, id int64, name, description *string, capacity, avgWait *int, status *string) (domain.Attraction, error) {
	const stmt = `
UPDATE attractions
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    capacity = COALESCE($4, capacity),
    avg_wait = COALESCE($5, avg_wait),
    status = COALESCE($6, status)
WHERE id = $1
RETURNING id, name, description, capacity, avg_wait, status`

	var a domain.Attraction
	err := r.pool.QueryRow(ctx, stmt, id, name, description, capacity, avgWait, status).
		Scan(&a.ID, &a.Name, &a.Description, &a.Capacity, &a.AvgWait, &a.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Attraction{}, domain.ErrAttractionNotFound
		}
		return domain.Attraction{}, fmt.Errorf("update attraction: %w", err)
	}
	return a, nil
}

func (r *AttractionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attractions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attraction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttractionNotFound
	}
	return nil
}
