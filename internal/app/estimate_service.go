package app

import (
	"context"
	"fmt"

	"github.com/GabScalon/parkaccess/internal/domain"
	"golang.org/x/sync/errgroup"
)

// QueueReader is the read-only view of an attraction's queue, normally the
// queue service reached over HTTP.
type QueueReader interface {
	QueueForAttraction(ctx context.Context, attractionID int64) ([]domain.QueueEntry, error)
}

type EstimateService struct {
	directory AttractionDirectory
	queues    QueueReader
}

func NewEstimateService(directory AttractionDirectory, queues QueueReader) *EstimateService {
	return &EstimateService{
		directory: directory,
		queues:    queues,
	}
}

type Estimate struct {
	AttractionID int64
	Name         string
	Status       string
	QueueLength  int
	Minutes      int
}

// Estimate fetches the attraction snapshot and its queue concurrently and
// computes the wait as ceil(queue_length / capacity) * avg_wait. The
// requester is not counted; the figure answers "how long is the line right
// now", matching the estimate the park displays at the gate.
func (s *EstimateService) Estimate(ctx context.Context, attractionID int64) (Estimate, error) {
	var (
		attraction domain.Attraction
		queue      []domain.QueueEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attraction, err = s.directory.Attraction(gctx, attractionID)
		if err != nil {
			return fmt.Errorf("attraction directory: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		queue, err = s.queues.QueueForAttraction(gctx, attractionID)
		if err != nil {
			return fmt.Errorf("queue store: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Estimate{}, err
	}

	if attraction.Capacity <= 0 {
		return Estimate{}, domain.ErrInvalidCapacity
	}

	length := len(queue)
	batches := (length + attraction.Capacity - 1) / attraction.Capacity
	return Estimate{
		AttractionID: attractionID,
		Name:         attraction.Name,
		Status:       attraction.Status,
		QueueLength:  length,
		Minutes:      batches * attraction.AvgWait,
	}, nil
}
