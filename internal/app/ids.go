package app

import "github.com/google/uuid"

// Ticket ids are opaque strings with a human-recognizable prefix, as printed
// on the physical media.
func newTicketID() string {
	return "TICKET-" + uuid.NewString()
}
