package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/testutil"
	"github.com/GabScalon/parkaccess/migrations"
)

func TestTicketRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewTicketRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool, migrations.Tickets())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Create and Get round-trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.Truncate(t, ctx, pool, "tickets")

		uses := 3
		if err := repo.Create(ctx, domain.Ticket{
			ID:            "TICKET-rt",
			CPF:           4444,
			Kind:          domain.TicketKindLimited,
			CreatedAt:     now,
			RemainingUses: &uses,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		ticket, err := repo.Get(ctx, "TICKET-rt")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if ticket.CPF != 4444 || ticket.Kind != domain.TicketKindLimited {
			t.Fatalf("unexpected ticket: %+v", ticket)
		}
		if ticket.RemainingUses == nil || *ticket.RemainingUses != 3 {
			t.Fatalf("unexpected allowance: %+v", ticket.RemainingUses)
		}
		if ticket.ValidUntil != nil {
			t.Fatalf("limited ticket should carry no expiry, got %v", ticket.ValidUntil)
		}

		if _, err := repo.Get(ctx, "TICKET-missing"); !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})

	t.Run("ListByCPF filters", func(t *testing.T) {
		ctx := context.Background()
		testutil.Truncate(t, ctx, pool, "tickets")

		until := now.Add(24 * time.Hour)
		for _, ticket := range []domain.Ticket{
			{ID: "TICKET-a", CPF: 1111, Kind: domain.TicketKindDaily, CreatedAt: now, ValidUntil: &until},
			{ID: "TICKET-b", CPF: 2222, Kind: domain.TicketKindDaily, CreatedAt: now.Add(time.Minute), ValidUntil: &until},
			{ID: "TICKET-c", CPF: 1111, Kind: domain.TicketKindAnnual, CreatedAt: now.Add(2 * time.Minute), ValidUntil: &until},
		} {
			if err := repo.Create(ctx, ticket); err != nil {
				t.Fatalf("create %s: %v", ticket.ID, err)
			}
		}

		tickets, err := repo.ListByCPF(ctx, 1111)
		if err != nil {
			t.Fatalf("list by cpf: %v", err)
		}
		if len(tickets) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(tickets))
		}
		if tickets[0].ID != "TICKET-a" || tickets[1].ID != "TICKET-c" {
			t.Fatalf("unexpected order: %+v", tickets)
		}
	})

	t.Run("ConsumeUse stops at zero", func(t *testing.T) {
		ctx := context.Background()
		testutil.Truncate(t, ctx, pool, "tickets")

		uses := 2
		if err := repo.Create(ctx, domain.Ticket{
			ID: "TICKET-uses", CPF: 4444, Kind: domain.TicketKindLimited, CreatedAt: now, RemainingUses: &uses,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		remaining, err := repo.ConsumeUse(ctx, "TICKET-uses")
		if err != nil || remaining != 1 {
			t.Fatalf("first consume: remaining=%d err=%v", remaining, err)
		}
		remaining, err = repo.ConsumeUse(ctx, "TICKET-uses")
		if err != nil || remaining != 0 {
			t.Fatalf("second consume: remaining=%d err=%v", remaining, err)
		}
		if _, err := repo.ConsumeUse(ctx, "TICKET-uses"); !errors.Is(err, domain.ErrTicketExhausted) {
			t.Fatalf("expected ErrTicketExhausted, got %v", err)
		}
	})

	t.Run("ConsumeUse never oversells under concurrency", func(t *testing.T) {
		ctx := context.Background()
		testutil.Truncate(t, ctx, pool, "tickets")

		uses := 5
		if err := repo.Create(ctx, domain.Ticket{
			ID: "TICKET-race", CPF: 4444, Kind: domain.TicketKindLimited, CreatedAt: now, RemainingUses: &uses,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		const attempts = 20
		var wg sync.WaitGroup
		var mu sync.Mutex
		consumed := 0
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.ConsumeUse(ctx, "TICKET-race"); err == nil {
					mu.Lock()
					consumed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if consumed != 5 {
			t.Fatalf("expected exactly 5 successful consumptions, got %d", consumed)
		}

		ticket, err := repo.Get(ctx, "TICKET-race")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if ticket.RemainingUses == nil || *ticket.RemainingUses != 0 {
			t.Fatalf("expected zero remaining, got %+v", ticket.RemainingUses)
		}
	})

	t.Run("RestoreUse re-credits limited tickets only", func(t *testing.T) {
		ctx := context.Background()
		testutil.Truncate(t, ctx, pool, "tickets")

		uses := 1
		if err := repo.Create(ctx, domain.Ticket{
			ID: "TICKET-comp", CPF: 4444, Kind: domain.TicketKindLimited, CreatedAt: now, RemainingUses: &uses,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := repo.ConsumeUse(ctx, "TICKET-comp"); err != nil {
			t.Fatalf("consume: %v", err)
		}
		if err := repo.RestoreUse(ctx, "TICKET-comp"); err != nil {
			t.Fatalf("restore: %v", err)
		}

		ticket, err := repo.Get(ctx, "TICKET-comp")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if ticket.RemainingUses == nil || *ticket.RemainingUses != 1 {
			t.Fatalf("expected allowance back at 1, got %+v", ticket.RemainingUses)
		}

		until := now.Add(24 * time.Hour)
		if err := repo.Create(ctx, domain.Ticket{
			ID: "TICKET-daily", CPF: 4444, Kind: domain.TicketKindDaily, CreatedAt: now, ValidUntil: &until,
		}); err != nil {
			t.Fatalf("create daily: %v", err)
		}
		if err := repo.RestoreUse(ctx, "TICKET-daily"); !errors.Is(err, domain.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound for timed ticket, got %v", err)
		}
	})
}
