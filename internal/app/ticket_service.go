package app

import (
	"context"
	"fmt"
	"time"

	"github.com/GabScalon/parkaccess/internal/clock"
	"github.com/GabScalon/parkaccess/internal/domain"
)

const (
	dailyValidity  = 24 * time.Hour
	annualValidity = 365 * 24 * time.Hour
)

type TicketRepository interface {
	Create(ctx context.Context, t domain.Ticket) error
	Get(ctx context.Context, id string) (domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByCPF(ctx context.Context, cpf int64) ([]domain.Ticket, error)
	ConsumeUse(ctx context.Context, id string) (int, error)
	RestoreUse(ctx context.Context, id string) error
}

// UserRegistry is the existence check against the external visitor registry.
type UserRegistry interface {
	CheckUser(ctx context.Context, cpf int64) error
}

// QueueAdmitter is the queue service's enter operation, reached over HTTP.
type QueueAdmitter interface {
	Enter(ctx context.Context, attractionID, cpf int64) (domain.QueueEntry, error)
}

type TicketService struct {
	repo     TicketRepository
	registry UserRegistry
	queues   QueueAdmitter
	clock    clock.Clock
}

func NewTicketService(repo TicketRepository, registry UserRegistry, queues QueueAdmitter, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:     repo,
		registry: registry,
		queues:   queues,
		clock:    clk,
	}
}

type IssueTicketInput struct {
	CPF         int64
	Kind        string // wire vocabulary: limitado, diario, anual
	InitialUses int
}

// Issue sells a new ticket after resolving the buyer against the registry.
func (s *TicketService) Issue(ctx context.Context, in IssueTicketInput) (domain.Ticket, error) {
	kind, ok := domain.ParseTicketKind(in.Kind)
	if !ok {
		return domain.Ticket{}, domain.ErrUnknownTicketKind
	}
	if kind == domain.TicketKindLimited && in.InitialUses <= 0 {
		return domain.Ticket{}, domain.ErrInvalidInitialUses
	}

	if err := s.registry.CheckUser(ctx, in.CPF); err != nil {
		return domain.Ticket{}, err
	}

	now := s.clock.Now()
	ticket := domain.Ticket{
		ID:        newTicketID(),
		CPF:       in.CPF,
		Kind:      kind,
		CreatedAt: now,
	}
	switch kind {
	case domain.TicketKindLimited:
		uses := in.InitialUses
		ticket.RemainingUses = &uses
	case domain.TicketKindDaily:
		until := now.Add(dailyValidity)
		ticket.ValidUntil = &until
	case domain.TicketKindAnnual:
		until := now.Add(annualValidity)
		ticket.ValidUntil = &until
	}

	if err := s.repo.Create(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	return ticket, nil
}

func (s *TicketService) Ticket(ctx context.Context, id string) (domain.Ticket, error) {
	return s.repo.Get(ctx, id)
}

func (s *TicketService) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.List(ctx)
}

func (s *TicketService) TicketsByUser(ctx context.Context, cpf int64) ([]domain.Ticket, error) {
	return s.repo.ListByCPF(ctx, cpf)
}

// Decision is the turnstile's answer for one presented ticket.
type Decision struct {
	Allowed      bool
	Message      string
	CPF          int64
	QueueMessage string
}

// Validate decides whether the ticket currently grants access and, when an
// attraction is given, admits the bearer into its queue. The two stores are
// independently owned, so the sequence runs as a saga: a limited ticket's
// unit is consumed first, and if the queue step then fails the unit is
// restored before the failure is reported. A rejected run carries both a
// Decision (the response body) and the sentinel error that classifies it.
func (s *TicketService) Validate(ctx context.Context, id string, attractionID *int64) (Decision, error) {
	ticket, err := s.repo.Get(ctx, id)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{CPF: ticket.CPF}
	now := s.clock.Now()

	switch ticket.Kind {
	case domain.TicketKindLimited:
		remaining, err := s.repo.ConsumeUse(ctx, id)
		if err != nil {
			if err == domain.ErrTicketExhausted {
				decision.Message = "ticket has no remaining uses"
				return decision, err
			}
			return Decision{}, err
		}
		decision.Allowed = true
		decision.Message = fmt.Sprintf("access allowed, %d uses remaining", remaining)

	case domain.TicketKindDaily, domain.TicketKindAnnual:
		// Boundary: validation at exactly valid_until is still allowed.
		if now.After(*ticket.ValidUntil) {
			decision.Message = fmt.Sprintf("%s ticket expired", ticket.Kind)
			return decision, domain.ErrTicketExpired
		}
		decision.Allowed = true
		if ticket.Kind == domain.TicketKindDaily {
			decision.Message = "unlimited daily access allowed"
		} else {
			decision.Message = "annual pass access allowed"
		}

	default:
		return Decision{}, domain.ErrUnknownTicketKind
	}

	if attractionID == nil {
		decision.QueueMessage = "no queue requested; ticket validated only"
		return decision, nil
	}

	if _, err := s.queues.Enter(ctx, *attractionID, ticket.CPF); err != nil {
		queueErr := err
		if ticket.Kind == domain.TicketKindLimited {
			if restoreErr := s.repo.RestoreUse(ctx, id); restoreErr != nil {
				queueErr = fmt.Errorf("%w (use not restored: %v)", err, restoreErr)
			}
		}
		decision.Allowed = false
		decision.Message = err.Error()
		return decision, queueErr
	}

	decision.QueueMessage = "user added to the attraction queue"
	return decision, nil
}

