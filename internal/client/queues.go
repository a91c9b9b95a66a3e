package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
)

// Queues talks to the queue admission service.
type Queues struct {
	c *Client
}

func NewQueues(baseURL string, timeout time.Duration) *Queues {
	return &Queues{c: New(baseURL, timeout)}
}

type enterRequest struct {
	AttractionID int64 `json:"attraction_id"`
	CPF          int64 `json:"cpf_usuario"`
}

type queueEntryPayload struct {
	ID           int64     `json:"id"`
	AttractionID int64     `json:"attraction_id"`
	CPF          int64     `json:"cpf_usuario"`
	EnteredAt    time.Time `json:"entrou_em"`
}

// Enter admits the user into the attraction's queue. Failures come back as
// the queue service's domain errors (ErrAttractionNotFound,
// ErrAttractionClosed, ErrAlreadyQueued, ErrUserNotFound, ErrUpstream).
func (q *Queues) Enter(ctx context.Context, attractionID, cpf int64) (domain.QueueEntry, error) {
	resp, err := q.c.postJSON(ctx, "/Filas/entrar", enterRequest{AttractionID: attractionID, CPF: cpf})
	if err != nil {
		return domain.QueueEntry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return domain.QueueEntry{}, errorFromResponse(resp, domain.ErrAttractionNotFound)
	}

	var payload queueEntryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.QueueEntry{}, fmt.Errorf("%w: decode queue entry: %v", domain.ErrUpstream, err)
	}
	return domain.QueueEntry{
		ID:           payload.ID,
		AttractionID: payload.AttractionID,
		CPF:          payload.CPF,
		EnteredAt:    payload.EnteredAt,
	}, nil
}

// QueueForAttraction returns the attraction's queue in FIFO order.
func (q *Queues) QueueForAttraction(ctx context.Context, attractionID int64) ([]domain.QueueEntry, error) {
	resp, err := q.c.get(ctx, fmt.Sprintf("/Filas/atracao/%d", attractionID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp, domain.ErrAttractionNotFound)
	}

	var payload []queueEntryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode queue: %v", domain.ErrUpstream, err)
	}
	entries := make([]domain.QueueEntry, 0, len(payload))
	for _, p := range payload {
		entries = append(entries, domain.QueueEntry{
			ID:           p.ID,
			AttractionID: p.AttractionID,
			CPF:          p.CPF,
			EnteredAt:    p.EnteredAt,
		})
	}
	return entries, nil
}
