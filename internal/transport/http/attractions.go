package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/GabScalon/parkaccess/internal/app"
	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/wire"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// AttractionService is the surface the directory endpoints need.
type AttractionService interface {
	Create(ctx context.Context, in app.CreateAttractionInput) (domain.Attraction, error)
	Attraction(ctx context.Context, id int64) (domain.Attraction, error)
	Attractions(ctx context.Context) ([]domain.Attraction, error)
	Update(ctx context.Context, id int64, in app.UpdateAttractionInput) (domain.Attraction, error)
	Delete(ctx context.Context, id int64) error
}

// NewAttractionRouter mounts the attraction directory's CRUD endpoints.
func NewAttractionRouter(svc AttractionService, corsOrigins string, logger *log.Logger) http.Handler {
	h := &attractionHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(func(next http.Handler) http.Handler { return RequestLogger(next, logger) })
	r.Use(func(next http.Handler) http.Handler { return CORS(corsOrigins, next) })

	r.Get("/health", HealthHandler)
	r.Get("/Atracoes", h.list)
	r.Post("/Atracoes", h.create)
	r.Get("/Atracoes/{id}", h.get)
	r.Patch("/Atracoes/{id}", h.update)
	r.Delete("/Atracoes/{id}", h.remove)

	return r
}

type attractionHandler struct {
	svc AttractionService
}

type attractionRequest struct {
	Name        *string `json:"nome"`
	Description *string `json:"descricao"`
	Capacity    *int    `json:"capacidade"`
	AvgWait     *int    `json:"tempo_medio"`
	Status      *string `json:"status"`
}

type attractionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Capacity    int    `json:"capacidade"`
	AvgWait     int    `json:"tempo_medio"`
	Status      string `json:"status"`
}

func toAttractionResponse(a domain.Attraction) attractionResponse {
	return attractionResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Capacity:    a.Capacity,
		AvgWait:     a.AvgWait,
		Status:      a.Status,
	}
}

func (h *attractionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req attractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" || req.Capacity == nil || req.AvgWait == nil {
		writeError(w, http.StatusBadRequest, wire.CodeMissingRequiredField, "nome, capacidade and tempo_medio are required")
		return
	}

	in := app.CreateAttractionInput{
		Name:     *req.Name,
		Capacity: *req.Capacity,
		AvgWait:  *req.AvgWait,
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	attraction, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttractionResponse(attraction))
}

func (h *attractionHandler) list(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.svc.Attractions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]attractionResponse, 0, len(attractions))
	for _, a := range attractions {
		out = append(out, toAttractionResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *attractionHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	attraction, err := h.svc.Attraction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttractionResponse(attraction))
}

func (h *attractionHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var req attractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
		return
	}

	attraction, err := h.svc.Update(r.Context(), id, app.UpdateAttractionInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		AvgWait:     req.AvgWait,
		Status:      req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttractionResponse(attraction))
}

func (h *attractionHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "attraction removed"})
}
