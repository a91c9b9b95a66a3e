package app

import (
	"context"
	"time"

	"github.com/GabScalon/parkaccess/internal/clock"
	"github.com/GabScalon/parkaccess/internal/domain"
)

type QueueRepository interface {
	Insert(ctx context.Context, attractionID, cpf int64, enteredAt time.Time) (domain.QueueEntry, error)
	Delete(ctx context.Context, attractionID, cpf int64) error
	Get(ctx context.Context, id int64) (domain.QueueEntry, error)
	List(ctx context.Context) ([]domain.QueueEntry, error)
	ListByCPF(ctx context.Context, cpf int64) ([]domain.QueueEntry, error)
	ListByAttraction(ctx context.Context, attractionID int64) ([]domain.QueueEntry, error)
}

// AttractionDirectory resolves attraction snapshots, normally over HTTP.
type AttractionDirectory interface {
	Attraction(ctx context.Context, id int64) (domain.Attraction, error)
}

type QueueService struct {
	repo      QueueRepository
	registry  UserRegistry
	directory AttractionDirectory
	clock     clock.Clock
}

func NewQueueService(repo QueueRepository, registry UserRegistry, directory AttractionDirectory, clk clock.Clock) *QueueService {
	return &QueueService{
		repo:      repo,
		registry:  registry,
		directory: directory,
		clock:     clk,
	}
}

// Enter admits a user into an attraction's queue. The user must resolve in
// the registry, the attraction must resolve in the directory and be
// operational, and the user must not already be in this queue. Nothing is
// written when any check fails.
func (s *QueueService) Enter(ctx context.Context, attractionID, cpf int64) (domain.QueueEntry, error) {
	if err := s.registry.CheckUser(ctx, cpf); err != nil {
		return domain.QueueEntry{}, err
	}

	attraction, err := s.directory.Attraction(ctx, attractionID)
	if err != nil {
		return domain.QueueEntry{}, err
	}
	if !attraction.Operational() {
		return domain.QueueEntry{}, domain.ErrAttractionClosed
	}

	return s.repo.Insert(ctx, attractionID, cpf, s.clock.Now())
}

// Exit removes the user's entry from the attraction's queue.
func (s *QueueService) Exit(ctx context.Context, attractionID, cpf int64) error {
	return s.repo.Delete(ctx, attractionID, cpf)
}

func (s *QueueService) Entry(ctx context.Context, id int64) (domain.QueueEntry, error) {
	return s.repo.Get(ctx, id)
}

func (s *QueueService) Entries(ctx context.Context) ([]domain.QueueEntry, error) {
	return s.repo.List(ctx)
}

func (s *QueueService) EntriesByUser(ctx context.Context, cpf int64) ([]domain.QueueEntry, error) {
	return s.repo.ListByCPF(ctx, cpf)
}

// EntriesForAttraction returns the FIFO queue for one attraction. The
// attraction must resolve in the directory so a queue is never reported for
// an id the park does not know.
func (s *QueueService) EntriesForAttraction(ctx context.Context, attractionID int64) ([]domain.QueueEntry, error) {
	if _, err := s.directory.Attraction(ctx, attractionID); err != nil {
		return nil, err
	}
	return s.repo.ListByAttraction(ctx, attractionID)
}
