package domain

import "errors"

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketExhausted    = errors.New("ticket has no remaining uses")
	ErrTicketExpired      = errors.New("ticket expired")
	ErrUnknownTicketKind  = errors.New("unknown ticket kind")
	ErrInvalidInitialUses = errors.New("limited tickets require a positive initial allowance")
	ErrUserNotFound       = errors.New("user not found in registry")
	ErrAttractionNotFound = errors.New("attraction not found in directory")
	ErrAttractionClosed   = errors.New("attraction is not operational")
	ErrQueueEntryNotFound = errors.New("queue entry not found")
	ErrAlreadyQueued      = errors.New("user is already in this queue")
	ErrInvalidCapacity    = errors.New("attraction capacity must be positive")
	ErrUpstream           = errors.New("upstream dependency unavailable")
)
