package session

import "time"

// Provider identifies how the current session was established.
type Provider string

const (
	// ProviderGoogle marks a session created through Google sign-in.
	ProviderGoogle Provider = "google"

	// ProviderApple marks a session created through Apple sign-in.
	ProviderApple Provider = "apple"

	// ProviderManual marks a session created from an operator-supplied
	// token. Manual sessions live in memory only and are never written to
	// disk or refreshed.
	ProviderManual Provider = "manual"
)

// ParseProvider maps a provider string to a known Provider. Unknown or
// empty values default to Google, which is what the sign-in page offers
// first.
func ParseProvider(s string) Provider {
	switch Provider(s) {
	case ProviderGoogle, ProviderApple, ProviderManual:
		return Provider(s)
	default:
		return ProviderGoogle
	}
}

// Session is the record of the current authenticated identity and its
// bearer credential.
type Session struct {
	// Token is the opaque bearer credential attached to upstream requests.
	Token string `json:"token"`

	// PublicKey is the wallet address. May be empty if the upstream could
	// not resolve it.
	PublicKey string `json:"publicKey,omitempty"`

	// UserID identifies the upstream user. May be empty.
	UserID string `json:"userId,omitempty"`

	// AuthProvider records how the session was established.
	AuthProvider Provider `json:"authProvider"`

	// CreatedAt is when the session was created or last refreshed.
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is CreatedAt plus the configured session lifetime.
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session has passed its expiry at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TimeUntilExpiry returns how long the session remains valid from the
// given instant. Negative for expired sessions.
func (s *Session) TimeUntilExpiry(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}
