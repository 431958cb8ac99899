package ports

import "context"

// SessionStore holds the current session token per user, consulted by the
// access gate to reject revoked tokens. Entries expire; the user document's
// token field remains the persistent fallback.
type SessionStore interface {
	Save(ctx context.Context, userID, token string) error
	// Get returns the stored token or domain.ErrSessionNotFound.
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}
