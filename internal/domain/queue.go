package domain

import "time"

// QueueEntry records one user's position in one attraction's admission line.
// At most one entry exists per (attraction, user) pair; the queue store
// enforces this with a uniqueness constraint at insert time.
type QueueEntry struct {
	ID           int64
	AttractionID int64
	CPF          int64
	EnteredAt    time.Time
}
