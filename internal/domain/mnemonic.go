package domain

import "time"

// PendingMnemonic is a single-use BIP39 credential (spec §3, §4.5).
type PendingMnemonic struct {
	ID         string    `json:"id"`
	Phrase     string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt"`
	IsConsumed bool      `json:"isConsumed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsExpired reports whether the mnemonic's TTL has elapsed as of now.
func (m *PendingMnemonic) IsExpired(now time.Time) bool {
	return now.After(m.ExpiresAt)
}

// Usable reports whether the mnemonic may still be validated and consumed.
func (m *PendingMnemonic) Usable(now time.Time) bool {
	return !m.IsConsumed && !m.IsExpired(now)
}
