package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/GabScalon/parkaccess/internal/app"
	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/wire"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// TicketService is the surface the ticket endpoints need.
type TicketService interface {
	Issue(ctx context.Context, in app.IssueTicketInput) (domain.Ticket, error)
	Ticket(ctx context.Context, id string) (domain.Ticket, error)
	Tickets(ctx context.Context) ([]domain.Ticket, error)
	TicketsByUser(ctx context.Context, cpf int64) ([]domain.Ticket, error)
	Validate(ctx context.Context, id string, attractionID *int64) (app.Decision, error)
}

// NewTicketRouter mounts the ticket service's endpoints: issuance, listings,
// and the turnstile validation that doubles as queue admission.
func NewTicketRouter(svc TicketService, logger *log.Logger) http.Handler {
	h := &ticketHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(func(next http.Handler) http.Handler { return RequestLogger(next, logger) })

	r.Get("/health", HealthHandler)
	r.Post("/Ingressos", h.issue)
	r.Get("/Ingressos", h.list)
	r.Get("/Ingressos/usuario/{cpf}", h.listByUser)
	r.Get("/Ingressos/{id}", h.get)
	r.Post("/Validar/{id}", h.validate)

	return r
}

type ticketHandler struct {
	svc TicketService
}

type issueTicketRequest struct {
	CPF         *json.Number `json:"cpf"`
	Kind        string       `json:"tipo"`
	InitialUses *json.Number `json:"valorInicial"`
}

type ticketResponse struct {
	ID            string     `json:"id"`
	CPF           int64      `json:"cpf"`
	Kind          string     `json:"kind"`
	CreatedAt     time.Time  `json:"created_at"`
	ValidUntil    *time.Time `json:"valid_until"`
	RemainingUses *int       `json:"remaining_uses"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		CPF:           t.CPF,
		Kind:          string(t.Kind),
		CreatedAt:     t.CreatedAt,
		ValidUntil:    t.ValidUntil,
		RemainingUses: t.RemainingUses,
	}
}

func (h *ticketHandler) issue(w http.ResponseWriter, r *http.Request) {
	var req issueTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
		return
	}
	if req.CPF == nil || req.Kind == "" {
		writeError(w, http.StatusBadRequest, wire.CodeMissingRequiredField, "cpf and tipo are required")
		return
	}
	cpf, err := req.CPF.Int64()
	if err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidID, "cpf must be numeric")
		return
	}

	in := app.IssueTicketInput{CPF: cpf, Kind: req.Kind}
	if req.InitialUses != nil {
		uses, err := req.InitialUses.Int64()
		if err != nil {
			writeError(w, http.StatusBadRequest, wire.CodeInvalidInitialUses, "valorInicial must be numeric")
			return
		}
		in.InitialUses = int(uses)
	}

	ticket, err := h.svc.Issue(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTicketResponse(ticket))
}

func (h *ticketHandler) list(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.svc.Tickets(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketListResponse(tickets))
}

func (h *ticketHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	cpf, ok := int64Param(w, r, "cpf")
	if !ok {
		return
	}
	tickets, err := h.svc.TicketsByUser(r.Context(), cpf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketListResponse(tickets))
}

func (h *ticketHandler) get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.svc.Ticket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func ticketListResponse(tickets []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}

type validateRequest struct {
	AttractionID *json.Number `json:"attraction_id"`
}

type validationResponse struct {
	Allowed      bool   `json:"allowed"`
	Message      string `json:"message"`
	CPF          int64  `json:"cpf"`
	QueueMessage string `json:"message_fila,omitempty"`
}

// validate runs the admission orchestration. The turnstile may post an empty
// body (validation-only mode) or an attraction_id to also join that queue.
func (h *ticketHandler) validate(w http.ResponseWriter, r *http.Request) {
	var attractionID *int64

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
		return
	}
	if len(body) > 0 {
		var req validateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, wire.CodeInvalidRequestBody, "invalid request body")
			return
		}
		if req.AttractionID != nil {
			id, err := req.AttractionID.Int64()
			if err != nil {
				writeError(w, http.StatusBadRequest, wire.CodeInvalidID, "attraction_id must be numeric")
				return
			}
			attractionID = &id
		}
	}

	decision, err := h.svc.Validate(r.Context(), chi.URLParam(r, "id"), attractionID)
	if err != nil {
		// Rejections that carry a decision (entitlement denied, queue step
		// failed) keep the decision as the body; everything else gets the
		// plain error envelope.
		if decision.Message == "" {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, statusFor(err), validationResponse{
			Allowed:      decision.Allowed,
			Message:      decision.Message,
			CPF:          decision.CPF,
			QueueMessage: decision.QueueMessage,
		})
		return
	}

	writeJSON(w, http.StatusOK, validationResponse{
		Allowed:      decision.Allowed,
		Message:      decision.Message,
		CPF:          decision.CPF,
		QueueMessage: decision.QueueMessage,
	})
}

// int64Param parses a numeric chi URL parameter, writing a 400 when it is
// not a number.
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	var n json.Number = json.Number(raw)
	v, err := n.Int64()
	if err != nil {
		writeError(w, http.StatusBadRequest, wire.CodeInvalidID, name+" must be numeric")
		return 0, false
	}
	return v, true
}
