package domain

import "time"

type TicketKind string

const (
	TicketKindLimited TicketKind = "limited"
	TicketKindDaily   TicketKind = "daily"
	TicketKindAnnual  TicketKind = "annual"
)

// ParseTicketKind maps the wire vocabulary used at issuance to a kind. The
// ticket kiosks still send the legacy Portuguese names alongside the
// canonical ones.
func ParseTicketKind(s string) (TicketKind, bool) {
	switch s {
	case "limitado", "limited":
		return TicketKindLimited, true
	case "diario", "daily":
		return TicketKindDaily, true
	case "anual", "annual":
		return TicketKindAnnual, true
	}
	return "", false
}

// Ticket is an issued credential granting attraction access.
// Exactly one of ValidUntil and RemainingUses is set, depending on Kind:
// limited tickets carry RemainingUses, daily/annual tickets carry ValidUntil.
type Ticket struct {
	ID            string
	CPF           int64
	Kind          TicketKind
	CreatedAt     time.Time
	ValidUntil    *time.Time
	RemainingUses *int
}
