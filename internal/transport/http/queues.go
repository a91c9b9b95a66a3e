package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/wire"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// QueueService is the surface the queue endpoints need.
type QueueService interface {
	Enter(ctx context.Context, attractionID, cpf int64) (domain.QueueEntry, error)
	Exit(ctx context.Context, attractionID, cpf int64) error
	Entry(ctx context.Context, id int64) (domain.QueueEntry, error)
	Entries(ctx context.Context) ([]domain.QueueEntry, error)
	EntriesByUser(ctx context.Context, cpf int64) ([]domain.QueueEntry, error)
	EntriesForAttraction(ctx context.Context, attractionID int64) ([]domain.QueueEntry, error)
}

// NewQueueRouter mounts the queue admission endpoints.
func NewQueueRouter(svc QueueService, corsOrigins string, logger *log.Logger) http.Handler {
	h := &queueHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(func(next http.Handler) http.Handler { return RequestLogger(next, logger) })
	r.Use(func(next http.Handler) http.Handler { return CORS(corsOrigins, next) })

	r.Get("/health", HealthHandler)
	r.Post("/Filas/entrar", h.enter)
	r.Post("/Filas/sair", h.exit)
	r.Get("/Filas", h.list)
	r.Get("/Filas/usuario/{cpf}", h.listByUser)
	r.Get("/Filas/atracao/{id}", h.listByAttraction)
	r.Get("/Filas/entrada/{id}", h.get)

	return r
}

type queueHandler struct {
	svc QueueService
}

type queueMembershipRequest struct {
	AttractionID *json.Number `json:"attraction_id"`
	CPF          *json.Number `json:"cpf_usuario"`
}

// parse validates both fields are present and numeric.
func (req queueMembershipRequest) parse() (attractionID, cpf int64, ok bool) {
	if req.AttractionID == nil || req.CPF == nil {
		return 0, 0, false
	}
	attractionID, err := req.AttractionID.Int64()
	if err != nil {
		return 0, 0, false
	}
	cpf, err = req.CPF.Int64()
	if err != nil {
		return 0, 0, false
	}
	return attractionID, cpf, true
}

type queueEntryResponse struct {
	ID           int64     `json:"id"`
	AttractionID int64     `json:"attraction_id"`
	CPF          int64     `json:"cpf_usuario"`
	EnteredAt    time.Time `json:"entrou_em"`
}

func toQueueEntryResponse(e domain.QueueEntry) queueEntryResponse {
	return queueEntryResponse{
		ID:           e.ID,
		AttractionID: e.AttractionID,
		CPF:          e.CPF,
		EnteredAt:    e.EnteredAt,
	}
}

func queueListResponse(entries []domain.QueueEntry) []queueEntryResponse {
	out := make([]queueEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toQueueEntryResponse(e))
	}
	return out
}

func (h *queueHandler) enter(w http.ResponseWriter, r *http.Request) {
	var req queueMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
		return
	}
	attractionID, cpf, ok := req.parse()
	if !ok {
		writeError(w, http.StatusBadRequest, wire.CodeMissingRequiredField, "attraction_id and cpf_usuario are required and must be numeric")
		return
	}

	entry, err := h.svc.Enter(r.Context(), attractionID, cpf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQueueEntryResponse(entry))
}

func (h *queueHandler) exit(w http.ResponseWriter, r *http.Request) {
	var req queueMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
		return
	}
	attractionID, cpf, ok := req.parse()
	if !ok {
		writeError(w, http.StatusBadRequest, wire.CodeMissingRequiredField, "attraction_id and cpf_usuario are required and must be numeric")
		return
	}

	if err := h.svc.Exit(r.Context(), attractionID, cpf); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user removed from the queue"})
}

func (h *queueHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Entries(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queueListResponse(entries))
}

func (h *queueHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	cpf, ok := int64Param(w, r, "cpf")
	if !ok {
		return
	}
	entries, err := h.svc.EntriesByUser(r.Context(), cpf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queueListResponse(entries))
}

func (h *queueHandler) listByAttraction(w http.ResponseWriter, r *http.Request) {
	attractionID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.svc.EntriesForAttraction(r.Context(), attractionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queueListResponse(entries))
}

func (h *queueHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	entry, err := h.svc.Entry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQueueEntryResponse(entry))
}
