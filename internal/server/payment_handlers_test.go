package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPaymentValidUntil(t *testing.T) {
	tests := []struct {
		name string
		now  string
		want string
	}{
		{"mid month", "2025-03-15T10:30:00Z", "2025-04-30T23:59:59.999Z"},
		{"first of month", "2025-03-01T00:00:00Z", "2025-04-30T23:59:59.999Z"},
		{"last of month", "2025-03-31T23:59:59Z", "2025-04-30T23:59:59.999Z"},
		{"year rollover", "2025-12-05T08:00:00Z", "2026-01-31T23:59:59.999Z"},
		{"into february", "2025-01-20T12:00:00Z", "2025-02-28T23:59:59.999Z"},
		{"into leap february", "2024-01-20T12:00:00Z", "2024-02-29T23:59:59.999Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, err := time.Parse(time.RFC3339, tt.now)
			require.NoError(t, err)
			want, err := time.Parse(time.RFC3339, tt.want)
			require.NoError(t, err)

			require.True(t, paymentValidUntil(now).Equal(want))
		})
	}
}
