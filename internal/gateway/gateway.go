// Package gateway routes public traffic to the park's services by path
// prefix. The route table is built once from injected configuration; nothing
// is resolved per request.
package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/GabScalon/parkaccess/internal/config"
	"github.com/GabScalon/parkaccess/internal/wire"
)

type Proxy struct {
	byPrefix map[string]*httputil.ReverseProxy
}

// New builds the proxy from the configured upstream locations.
func New(routes config.Routes) (*Proxy, error) {
	targets := map[string]string{
		"Cadastro":   routes.Registry,
		"Ingressos":  routes.Tickets,
		"Validar":    routes.Tickets,
		"Atracoes":   routes.Attractions,
		"Filas":      routes.Queues,
		"Estimativa": routes.WaitTime,
	}

	byPrefix := make(map[string]*httputil.ReverseProxy, len(targets))
	for prefix, target := range targets {
		u, err := url.Parse(target)
		if err != nil {
			return nil, err
		}
		byPrefix[prefix] = httputil.NewSingleHostReverseProxy(u)
	}
	return &Proxy{byPrefix: byPrefix}, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segment := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)[0]
	proxy, ok := p.byPrefix[segment]
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(wire.ErrorResponse{
			Error: "no service mapped for this path",
			Code:  wire.CodeNotFound,
		})
		return
	}
	proxy.ServeHTTP(w, r)
}
