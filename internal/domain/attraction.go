package domain

// StatusOperational is the directory's wire value for an attraction
// currently admitting visitors.
const StatusOperational = "Em funcionamento"

// Attraction is the read-only view served by the attraction directory.
// AvgWait is minutes per capacity-sized batch.
type Attraction struct {
	ID          int64
	Name        string
	Description string
	Capacity    int
	AvgWait     int
	Status      string
}

func (a Attraction) Operational() bool {
	return a.Status == StatusOperational
}
