package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
)

// Directory reads attraction snapshots from the attraction directory.
type Directory struct {
	c *Client
}

func NewDirectory(baseURL string, timeout time.Duration) *Directory {
	return &Directory{c: New(baseURL, timeout)}
}

type attractionPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Capacity    int    `json:"capacidade"`
	AvgWait     int    `json:"tempo_medio"`
	Status      string `json:"status"`
}

// Attraction fetches one attraction's snapshot.
func (d *Directory) Attraction(ctx context.Context, id int64) (domain.Attraction, error) {
	resp, err := d.c.get(ctx, fmt.Sprintf("/Atracoes/%d", id))
	if err != nil {
		return domain.Attraction{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Attraction{}, errorFromResponse(resp, domain.ErrAttractionNotFound)
	}

	var payload attractionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Attraction{}, fmt.Errorf("%w: decode attraction: %v", domain.ErrUpstream, err)
	}
	return domain.Attraction{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Capacity:    payload.Capacity,
		AvgWait:     payload.AvgWait,
		Status:      payload.Status,
	}, nil
}
