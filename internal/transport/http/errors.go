package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/wire"
)

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(wire.ErrorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a service error to its status and envelope.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), wire.CodeFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAttractionNotFound),
		errors.Is(err, domain.ErrQueueEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTicketExhausted),
		errors.Is(err, domain.ErrTicketExpired),
		errors.Is(err, domain.ErrAttractionClosed):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyQueued):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownTicketKind),
		errors.Is(err, domain.ErrInvalidInitialUses),
		errors.Is(err, domain.ErrInvalidCapacity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
