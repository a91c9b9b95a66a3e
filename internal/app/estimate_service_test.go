package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
)

func TestEstimateService_Estimate(t *testing.T) {
	t.Parallel()

	entries := func(n int) []domain.QueueEntry {
		out := make([]domain.QueueEntry, n)
		base := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
		for i := range out {
			out[i] = domain.QueueEntry{ID: int64(i + 1), AttractionID: 7, CPF: int64(i), EnteredAt: base.Add(time.Duration(i) * time.Minute)}
		}
		return out
	}

	tests := []struct {
		name        string
		capacity    int
		avgWait     int
		queueLength int
		expected    int
	}{
		{name: "partial batch rounds up", capacity: 5, avgWait: 4, queueLength: 12, expected: 12},
		{name: "exact multiple of capacity", capacity: 5, avgWait: 4, queueLength: 10, expected: 8},
		{name: "empty queue waits nothing", capacity: 5, avgWait: 4, queueLength: 0, expected: 0},
		{name: "single rider single slot", capacity: 1, avgWait: 3, queueLength: 1, expected: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			directory := newFakeDirectory(domain.Attraction{
				ID:       7,
				Name:     "Splash",
				Capacity: tt.capacity,
				AvgWait:  tt.avgWait,
				Status:   domain.StatusOperational,
			})
			svc := NewEstimateService(directory, fakeQueueReader{entries: entries(tt.queueLength)})

			estimate, err := svc.Estimate(context.Background(), 7)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if estimate.Minutes != tt.expected {
				t.Fatalf("expected %d minutes, got %d", tt.expected, estimate.Minutes)
			}
			if estimate.QueueLength != tt.queueLength {
				t.Fatalf("expected queue length %d, got %d", tt.queueLength, estimate.QueueLength)
			}
			if estimate.Name != "Splash" || estimate.Status != domain.StatusOperational {
				t.Fatalf("expected snapshot fields carried through, got %+v", estimate)
			}
		})
	}

	t.Run("non-positive capacity is a configuration error", func(t *testing.T) {
		t.Parallel()
		directory := newFakeDirectory(domain.Attraction{ID: 7, Name: "Broken", Capacity: 0, AvgWait: 4})
		svc := NewEstimateService(directory, fakeQueueReader{entries: entries(3)})

		_, err := svc.Estimate(context.Background(), 7)
		if !errors.Is(err, domain.ErrInvalidCapacity) {
			t.Fatalf("expected ErrInvalidCapacity, got %v", err)
		}
	})

	t.Run("unknown attraction surfaces the directory not-found", func(t *testing.T) {
		t.Parallel()
		svc := NewEstimateService(newFakeDirectory(), fakeQueueReader{})

		_, err := svc.Estimate(context.Background(), 42)
		if !errors.Is(err, domain.ErrAttractionNotFound) {
			t.Fatalf("expected ErrAttractionNotFound, got %v", err)
		}
	})

	t.Run("queue fetch failure surfaces its error kind", func(t *testing.T) {
		t.Parallel()
		directory := newFakeDirectory(domain.Attraction{ID: 7, Capacity: 5, AvgWait: 4})
		svc := NewEstimateService(directory, fakeQueueReader{err: domain.ErrUpstream})

		_, err := svc.Estimate(context.Background(), 7)
		if !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
	})
}

type fakeQueueReader struct {
	entries []domain.QueueEntry
	err     error
}

func (f fakeQueueReader) QueueForAttraction(_ context.Context, _ int64) ([]domain.QueueEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}
