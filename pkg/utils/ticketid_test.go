package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicketNumber(t *testing.T) {
	day := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "REG-250310-001", FormatTicketNumber("Registrar", day, 1))
	assert.Equal(t, "CAS-250310-042", FormatTicketNumber("Cashier's Office", day, 42))
	assert.Equal(t, "TKT-250310-007", FormatTicketNumber("---", day, 7))
}

func TestNewTicketIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewTicketID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
