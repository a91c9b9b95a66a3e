// Package migrations holds the embedded SQL schemas for the three stores.
// Each store is owned by exactly one service and migrated by that service's
// binary at startup; the sets are kept separate because the stores share no
// transaction boundary (or even, in production, a database server).
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed tickets/*.sql
var ticketFiles embed.FS

//go:embed queues/*.sql
var queueFiles embed.FS

//go:embed attractions/*.sql
var attractionFiles embed.FS

// Tickets returns the migration set for the ticket store.
func Tickets() fs.FS { return sub(ticketFiles, "tickets") }

// Queues returns the migration set for the queue store.
func Queues() fs.FS { return sub(queueFiles, "queues") }

// Attractions returns the migration set for the attraction directory store.
func Attractions() fs.FS { return sub(attractionFiles, "attractions") }

func sub(fsys embed.FS, dir string) fs.FS {
	out, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return out
}

const advisoryLockID int64 = 730114589

// Apply runs a migration set in filename order, recording applied files in
// schema_migrations. Concurrent replicas serialize on an advisory lock.
func Apply(ctx context.Context, pool *pgxpool.Pool, set fs.FS) error {
	entries, err := fs.ReadDir(set, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockID)
	}()

	if _, err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, name := range names {
		var applied bool
		if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		sqlBytes, err := fs.ReadFile(set, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		sql := strings.TrimSpace(string(sqlBytes))
		if sql == "" {
			continue
		}
		if _, err := conn.Exec(ctx, sql); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}
