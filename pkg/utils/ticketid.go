package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// NewTicketID returns an opaque identifier for a new ticket.
func NewTicketID() string {
	return uuid.NewString()
}

// FormatTicketNumber builds the display code printed on the ticket.
// The sequence restarts per office per day, so the caller must pass
// today's next sequence number for the office.
func FormatTicketNumber(office string, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", officePrefix(office), day.Format("060102"), seq)
}

func officePrefix(office string) string {
	var b strings.Builder
	for _, r := range office {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "TKT"
	}
	return b.String()
}
