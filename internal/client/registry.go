package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
)

// Registry looks up visitors in the external user registry. Only existence
// matters to this system; the registry's payload is not interpreted.
type Registry struct {
	c *Client
}

func NewRegistry(baseURL string, timeout time.Duration) *Registry {
	return &Registry{c: New(baseURL, timeout)}
}

// CheckUser returns nil when the CPF resolves, ErrUserNotFound when the
// registry reports 404, and ErrUpstream for anything else.
func (r *Registry) CheckUser(ctx context.Context, cpf int64) error {
	resp, err := r.c.get(ctx, fmt.Sprintf("/Cadastro/%d", cpf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return errorFromResponse(resp, domain.ErrUserNotFound)
}
