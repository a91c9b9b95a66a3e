package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GabScalon/parkaccess/internal/clock"
	"github.com/GabScalon/parkaccess/internal/domain"
)

func TestTicketService_Issue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	makeSvc := func() (*TicketService, *fakeTicketRepo, *fakeRegistry) {
		repo := newFakeTicketRepo()
		registry := &fakeRegistry{known: map[int64]bool{1111: true}}
		svc := NewTicketService(repo, registry, &fakeQueues{}, clock.NewFixed(now))
		return svc, repo, registry
	}

	t.Run("limited ticket stores initial allowance", func(t *testing.T) {
		svc, repo, _ := makeSvc()

		ticket, err := svc.Issue(context.Background(), IssueTicketInput{CPF: 1111, Kind: "limitado", InitialUses: 3})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(ticket.ID, "TICKET-") {
			t.Fatalf("unexpected ticket id %q", ticket.ID)
		}
		if ticket.Kind != domain.TicketKindLimited {
			t.Fatalf("expected limited kind, got %s", ticket.Kind)
		}
		if ticket.RemainingUses == nil || *ticket.RemainingUses != 3 {
			t.Fatalf("expected 3 remaining uses, got %v", ticket.RemainingUses)
		}
		if ticket.ValidUntil != nil {
			t.Fatalf("limited tickets must not carry valid_until")
		}
		if len(repo.tickets) != 1 {
			t.Fatalf("expected ticket persisted")
		}
	})

	t.Run("daily ticket is valid for 24 hours", func(t *testing.T) {
		svc, _, _ := makeSvc()

		ticket, err := svc.Issue(context.Background(), IssueTicketInput{CPF: 1111, Kind: "diario"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.RemainingUses != nil {
			t.Fatalf("daily tickets must not carry remaining uses")
		}
		if ticket.ValidUntil == nil || !ticket.ValidUntil.Equal(now.Add(24*time.Hour)) {
			t.Fatalf("expected valid_until %v, got %v", now.Add(24*time.Hour), ticket.ValidUntil)
		}
	})

	t.Run("annual ticket is valid for 365 days", func(t *testing.T) {
		svc, _, _ := makeSvc()

		ticket, err := svc.Issue(context.Background(), IssueTicketInput{CPF: 1111, Kind: "anual"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ticket.ValidUntil == nil || !ticket.ValidUntil.Equal(now.Add(365*24*time.Hour)) {
			t.Fatalf("expected valid_until %v, got %v", now.Add(365*24*time.Hour), ticket.ValidUntil)
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		svc, _, _ := makeSvc()

		_, err := svc.Issue(context.Background(), IssueTicketInput{CPF: 1111, Kind: "vip"})
		if err != domain.ErrUnknownTicketKind {
			t.Fatalf("expected ErrUnknownTicketKind, got %v", err)
		}
	})

	t.Run("limited ticket requires positive allowance", func(t *testing.T) {
		svc, _, _ := makeSvc()

		_, err := svc.Issue(context.Background(), IssueTicketInput{CPF: 1111, Kind: "limitado", InitialUses: 0})
		if err != domain.ErrInvalidInitialUses {
			t.Fatalf("expected ErrInvalidInitialUses, got %v", err)
		}
	})

	t.Run("unregistered user rejected before persisting", func(t *testing.T) {
		svc, repo, _ := makeSvc()

		_, err := svc.Issue(context.Background(), IssueTicketInput{CPF: 9999, Kind: "diario"})
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		if len(repo.tickets) != 0 {
			t.Fatalf("expected no ticket persisted")
		}
	})
}

func TestTicketService_Validate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("limited ticket consumes one use per success", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(limitedTicket("TICKET-a", 4444, 2))
		svc := NewTicketService(repo, &fakeRegistry{}, &fakeQueues{}, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-a", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("expected allowed decision")
		}
		if decision.CPF != 4444 {
			t.Fatalf("expected cpf 4444, got %d", decision.CPF)
		}
		if got := *repo.tickets["TICKET-a"].RemainingUses; got != 1 {
			t.Fatalf("expected 1 use left, got %d", got)
		}
	})

	t.Run("exhausted ticket denied with decision", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(limitedTicket("TICKET-a", 4444, 0))
		svc := NewTicketService(repo, &fakeRegistry{}, &fakeQueues{}, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-a", nil)
		if err != domain.ErrTicketExhausted {
			t.Fatalf("expected ErrTicketExhausted, got %v", err)
		}
		if decision.Allowed {
			t.Fatalf("expected denied decision")
		}
		if decision.Message == "" {
			t.Fatalf("expected a rejection message")
		}
	})

	t.Run("concurrent validations never exceed the allowance", func(t *testing.T) {
		const allowance = 5
		const attempts = 20

		repo := newFakeTicketRepo()
		repo.add(limitedTicket("TICKET-a", 4444, allowance))
		svc := NewTicketService(repo, &fakeRegistry{}, &fakeQueues{}, clock.NewFixed(now))

		var wg sync.WaitGroup
		results := make(chan bool, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				decision, _ := svc.Validate(context.Background(), "TICKET-a", nil)
				results <- decision.Allowed
			}()
		}
		wg.Wait()
		close(results)

		allowed := 0
		for ok := range results {
			if ok {
				allowed++
			}
		}
		if allowed != allowance {
			t.Fatalf("expected exactly %d successful validations, got %d", allowance, allowed)
		}
		if got := *repo.tickets["TICKET-a"].RemainingUses; got != 0 {
			t.Fatalf("expected 0 uses left, got %d", got)
		}
	})

	t.Run("daily ticket allowed exactly at valid_until", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(timedTicket("TICKET-d", 4444, domain.TicketKindDaily, now))
		svc := NewTicketService(repo, &fakeRegistry{}, &fakeQueues{}, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-d", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("expected allowed at the validity boundary")
		}
	})

	t.Run("expired annual ticket denied", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(timedTicket("TICKET-y", 4444, domain.TicketKindAnnual, now.Add(-time.Second)))
		svc := NewTicketService(repo, &fakeRegistry{}, &fakeQueues{}, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-y", nil)
		if err != domain.ErrTicketExpired {
			t.Fatalf("expected ErrTicketExpired, got %v", err)
		}
		if decision.Allowed {
			t.Fatalf("expected denied decision")
		}
	})

	t.Run("unknown ticket has no side effects", func(t *testing.T) {
		repo := newFakeTicketRepo()
		svc := NewTicketService(repo, &fakeRegistry{}, &fakeQueues{}, clock.NewFixed(now))

		_, err := svc.Validate(context.Background(), "TICKET-missing", nil)
		if err != domain.ErrTicketNotFound {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})
}

func TestTicketService_ValidateWithQueue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	attraction := int64(7)

	t.Run("allowed ticket joins the queue", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(limitedTicket("TICKET-a", 4444, 1))
		queues := &fakeQueues{}
		svc := NewTicketService(repo, &fakeRegistry{}, queues, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-a", &attraction)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !decision.Allowed || decision.QueueMessage == "" {
			t.Fatalf("expected allowed decision with queue message, got %+v", decision)
		}
		if len(queues.entered) != 1 || queues.entered[0].cpf != 4444 {
			t.Fatalf("expected one queue admission for cpf 4444, got %+v", queues.entered)
		}
	})

	t.Run("denied ticket never reaches the queue", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(limitedTicket("TICKET-a", 4444, 0))
		queues := &fakeQueues{}
		svc := NewTicketService(repo, &fakeRegistry{}, queues, clock.NewFixed(now))

		_, err := svc.Validate(context.Background(), "TICKET-a", &attraction)
		if err != domain.ErrTicketExhausted {
			t.Fatalf("expected ErrTicketExhausted, got %v", err)
		}
		if len(queues.entered) != 0 {
			t.Fatalf("expected no queue admission")
		}
	})

	t.Run("queue failure restores the consumed use", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(limitedTicket("TICKET-a", 4444, 1))
		queues := &fakeQueues{err: domain.ErrAttractionClosed}
		svc := NewTicketService(repo, &fakeRegistry{}, queues, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-a", &attraction)
		if !errors.Is(err, domain.ErrAttractionClosed) {
			t.Fatalf("expected ErrAttractionClosed, got %v", err)
		}
		if decision.Allowed {
			t.Fatalf("expected the queue failure to override the decision")
		}
		if got := *repo.tickets["TICKET-a"].RemainingUses; got != 1 {
			t.Fatalf("expected the consumed use restored, got %d remaining", got)
		}

		// The restored unit must still admit one more validation.
		decision, err = svc.Validate(context.Background(), "TICKET-a", nil)
		if err != nil || !decision.Allowed {
			t.Fatalf("expected the restored use to validate, got %+v, %v", decision, err)
		}
	})

	t.Run("queue failure on a daily ticket restores nothing", func(t *testing.T) {
		repo := newFakeTicketRepo()
		repo.add(timedTicket("TICKET-d", 4444, domain.TicketKindDaily, now.Add(time.Hour)))
		queues := &fakeQueues{err: domain.ErrAlreadyQueued}
		svc := NewTicketService(repo, &fakeRegistry{}, queues, clock.NewFixed(now))

		decision, err := svc.Validate(context.Background(), "TICKET-d", &attraction)
		if !errors.Is(err, domain.ErrAlreadyQueued) {
			t.Fatalf("expected ErrAlreadyQueued, got %v", err)
		}
		if decision.Allowed {
			t.Fatalf("expected denied decision")
		}
		if repo.restored["TICKET-d"] != 0 {
			t.Fatalf("daily tickets must not be re-credited")
		}
	})
}

func limitedTicket(id string, cpf int64, uses int) domain.Ticket {
	u := uses
	return domain.Ticket{
		ID:            id,
		CPF:           cpf,
		Kind:          domain.TicketKindLimited,
		CreatedAt:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		RemainingUses: &u,
	}
}

func timedTicket(id string, cpf int64, kind domain.TicketKind, validUntil time.Time) domain.Ticket {
	until := validUntil
	return domain.Ticket{
		ID:         id,
		CPF:        cpf,
		Kind:       kind,
		CreatedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: &until,
	}
}

// fakeTicketRepo guards its map with a mutex so the concurrency tests
// exercise the same serialization contract the conditional UPDATE gives the
// real store.
type fakeTicketRepo struct {
	mu       sync.Mutex
	tickets  map[string]*domain.Ticket
	restored map[string]int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets:  make(map[string]*domain.Ticket),
		restored: make(map[string]int),
	}
}

func (f *fakeTicketRepo) add(t domain.Ticket) {
	f.tickets[t.ID] = &t
}

func (f *fakeTicketRepo) Create(_ context.Context, t domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[t.ID] = &t
	return nil
}

func (f *fakeTicketRepo) Get(_ context.Context, id string) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return *t, nil
}

func (f *fakeTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByCPF(_ context.Context, cpf int64) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, t := range f.tickets {
		if t.CPF == cpf {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ConsumeUse(_ context.Context, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.RemainingUses == nil || *t.RemainingUses <= 0 {
		return 0, domain.ErrTicketExhausted
	}
	*t.RemainingUses--
	return *t.RemainingUses, nil
}

func (f *fakeTicketRepo) RestoreUse(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.Kind != domain.TicketKindLimited {
		return domain.ErrTicketNotFound
	}
	*t.RemainingUses++
	f.restored[id]++
	return nil
}

// fakeRegistry knows the CPFs in its map; an empty map accepts everyone so
// validation tests need no registry setup.
type fakeRegistry struct {
	known map[int64]bool
}

func (f *fakeRegistry) CheckUser(_ context.Context, cpf int64) error {
	if f.known == nil {
		return nil
	}
	if !f.known[cpf] {
		return domain.ErrUserNotFound
	}
	return nil
}

type enteredQueue struct {
	attractionID int64
	cpf          int64
}

type fakeQueues struct {
	mu      sync.Mutex
	err     error
	entered []enteredQueue
}

func (f *fakeQueues) Enter(_ context.Context, attractionID, cpf int64) (domain.QueueEntry, error) {
	if f.err != nil {
		return domain.QueueEntry{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entered = append(f.entered, enteredQueue{attractionID: attractionID, cpf: cpf})
	return domain.QueueEntry{
		ID:           int64(len(f.entered)),
		AttractionID: attractionID,
		CPF:          cpf,
	}, nil
}
