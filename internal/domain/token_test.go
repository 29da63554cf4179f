package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dev-Universe-Castro/sankhya-gateway/internal/domain"
)

func TestTokenRecordRemaining(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := domain.TokenRecord{Token: "tok", IssuedAt: issued, TTL: time.Hour}

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{name: "at issuance", now: issued, want: time.Hour},
		{name: "halfway", now: issued.Add(30 * time.Minute), want: 30 * time.Minute},
		{name: "at expiry", now: issued.Add(time.Hour), want: 0},
		{name: "past expiry", now: issued.Add(2 * time.Hour), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, record.Remaining(tt.now))
		})
	}
}

func TestTokenRecordRemainingMonotonic(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := domain.TokenRecord{Token: "tok", IssuedAt: issued, TTL: time.Hour}

	previous := record.Remaining(issued)
	for step := time.Minute; step <= 90*time.Minute; step += time.Minute {
		current := record.Remaining(issued.Add(step))
		require.LessOrEqual(t, current, previous)
		previous = current
	}
	require.Equal(t, time.Duration(0), previous)
}

func TestTokenRecordActive(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := domain.TokenRecord{Token: "tok", IssuedAt: issued, TTL: time.Hour}

	require.True(t, record.Active(issued))
	require.True(t, record.Active(issued.Add(59*time.Minute)))
	require.False(t, record.Active(issued.Add(time.Hour)))
}
