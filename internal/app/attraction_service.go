package app

import (
	"context"

	"github.com/GabScalon/parkaccess/internal/domain"
)

type AttractionRepository interface {
	Create(ctx context.Context, a domain.Attraction) (domain.Attraction, error)
	Get(ctx context.Context, id int64) (domain.Attraction, error)
	List(ctx context.Context) ([]domain.Attraction, error)
	Update(ctx context.Context, id int64, name, description *string, capacity, avgWait *int, status *string) (domain.Attraction, error)
	Delete(ctx context.Context, id int64) error
}

type AttractionService struct {
	repo AttractionRepository
}

func NewAttractionService(repo AttractionRepository) *AttractionService {
	return &AttractionService{repo: repo}
}

type CreateAttractionInput struct {
	Name        string
	Description string
	Capacity    int
	AvgWait     int
	Status      string
}

func (s *AttractionService) Create(ctx context.Context, in CreateAttractionInput) (domain.Attraction, error) {
	if in.Capacity <= 0 {
		return domain.Attraction{}, domain.ErrInvalidCapacity
	}
	status := in.Status
	if status == "" {
		status = domain.StatusOperational
	}
	return s.repo.Create(ctx, domain.Attraction{
		Name:        in.Name,
		Description: in.Description,
		Capacity:    in.Capacity,
		AvgWait:     in.AvgWait,
		Status:      status,
	})
}

func (s *AttractionService) Attraction(ctx context.Context, id int64) (domain.Attraction, error) {
	return s.repo.Get(ctx, id)
}

func (s *AttractionService) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	return s.repo.List(ctx)
}

type UpdateAttractionInput struct {
	Name        *string
	Description *string
	Capacity    *int
	AvgWait     *int
	Status      *string
}

func (s *AttractionService) Update(ctx context.Context, id int64, in UpdateAttractionInput) (domain.Attraction, error) {
	if in.Capacity != nil && *in.Capacity <= 0 {
		return domain.Attraction{}, domain.ErrInvalidCapacity
	}
	return s.repo.Update(ctx, id, in.Name, in.Description, in.Capacity, in.AvgWait, in.Status)
}

func (s *AttractionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
