package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/GabScalon/parkaccess/internal/app"
	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/wire"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Estimator is the surface the wait-time endpoint needs.
type Estimator interface {
	Estimate(ctx context.Context, attractionID int64) (app.Estimate, error)
}

// NewEstimateRouter mounts the wait-time estimation endpoint.
func NewEstimateRouter(svc Estimator, logger *log.Logger) http.Handler {
	h := &estimateHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(func(next http.Handler) http.Handler { return RequestLogger(next, logger) })

	r.Get("/health", HealthHandler)
	r.Get("/Estimativa/atracao/{id}", h.estimate)

	return r
}

type estimateHandler struct {
	svc Estimator
}

type estimateResponse struct {
	AttractionID int64  `json:"atracao_id"`
	Name         string `json:"nome_atracao"`
	Status       string `json:"status_atracao"`
	QueueLength  int    `json:"pessoas_na_fila"`
	Minutes      int    `json:"tempo_estimado_minutos"`
}

func (h *estimateHandler) estimate(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	estimate, err := h.svc.Estimate(r.Context(), id)
	if err != nil {
		// A non-positive capacity here is bad directory data, not bad
		// caller input: the attraction record is misconfigured.
		if errors.Is(err, domain.ErrInvalidCapacity) {
			writeError(w, http.StatusInternalServerError, wire.CodeInvalidCapacity, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{
		AttractionID: estimate.AttractionID,
		Name:         estimate.Name,
		Status:       estimate.Status,
		QueueLength:  estimate.QueueLength,
		Minutes:      estimate.Minutes,
	})
}
