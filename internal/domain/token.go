package domain

import "time"

// TokenRecord is the cached Sankhya bearer credential plus issuance metadata.
// Records are replaced wholesale on refresh, never mutated in place.
type TokenRecord struct {
	Token    string        `json:"token"`
	IssuedAt time.Time     `json:"issuedAt"`
	TTL      time.Duration `json:"ttl"`
}

// Remaining reports how much of the validity window is left at now, clamped
// at zero. Expiry is advisory: the ERP is the authority on token validity.
func (r TokenRecord) Remaining(now time.Time) time.Duration {
	remaining := r.IssuedAt.Add(r.TTL).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Active reports whether the record is still inside its validity window.
func (r TokenRecord) Active(now time.Time) bool {
	return r.Remaining(now) > 0
}

// LoginResult is what the Sankhya login endpoint hands back: the bearer
// credential and, when the response carries one, its validity window.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
}
