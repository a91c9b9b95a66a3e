// Package wire defines the error envelope shared by every service.
// Failures travel between services as {"error": ..., "code": ...}; clients
// map the code back to a domain error instead of matching on message text.
package wire

import (
	"errors"

	"github.com/GabScalon/parkaccess/internal/domain"
)

const (
	CodeInvalidRequestBody   = "invalid_request_body"
	CodeMissingRequiredField = "missing_required_field"
	CodeInvalidTicketKind    = "invalid_ticket_kind"
	CodeInvalidInitialUses   = "invalid_initial_uses"
	CodeInvalidID            = "invalid_id"
	CodeNotFound             = "not_found"
	CodeTicketNotFound       = "ticket_not_found"
	CodeUserNotFound         = "user_not_found"
	CodeAttractionNotFound   = "attraction_not_found"
	CodeQueueEntryNotFound   = "queue_entry_not_found"
	CodeTicketExhausted      = "ticket_exhausted"
	CodeTicketExpired        = "ticket_expired"
	CodeAttractionClosed     = "attraction_closed"
	CodeAlreadyQueued        = "already_queued"
	CodeInvalidCapacity      = "invalid_capacity"
	CodeUpstreamUnavailable  = "upstream_unavailable"
	CodeMethodNotAllowed     = "method_not_allowed"
	CodeInternalError        = "internal_error"
)

// ErrorResponse is the JSON envelope written for every failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var codeByError = []struct {
	err  error
	code string
}{
	{domain.ErrTicketNotFound, CodeTicketNotFound},
	{domain.ErrUserNotFound, CodeUserNotFound},
	{domain.ErrAttractionNotFound, CodeAttractionNotFound},
	{domain.ErrQueueEntryNotFound, CodeQueueEntryNotFound},
	{domain.ErrTicketExhausted, CodeTicketExhausted},
	{domain.ErrTicketExpired, CodeTicketExpired},
	{domain.ErrAttractionClosed, CodeAttractionClosed},
	{domain.ErrAlreadyQueued, CodeAlreadyQueued},
	{domain.ErrInvalidCapacity, CodeInvalidCapacity},
	{domain.ErrUnknownTicketKind, CodeInvalidTicketKind},
	{domain.ErrInvalidInitialUses, CodeInvalidInitialUses},
	{domain.ErrUpstream, CodeUpstreamUnavailable},
}

// CodeFor returns the wire code for a domain error, or CodeInternalError
// when the error carries no specific code. Wrapped sentinels match.
func CodeFor(err error) string {
	for _, entry := range codeByError {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return CodeInternalError
}

// ErrorFor maps a wire code received from another service back to the
// domain error it stands for. Unknown codes come back as ErrUpstream so a
// misbehaving dependency is never mistaken for a local condition.
func ErrorFor(code string) error {
	for _, entry := range codeByError {
		if entry.code == code {
			return entry.err
		}
	}
	return domain.ErrUpstream
}
