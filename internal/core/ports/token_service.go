package ports

// TokenService issues and verifies stateless identity tokens bound to a
// user identifier.
type TokenService interface {
	Issue(userID string) (string, error)
	// Verify returns the embedded user identifier, or domain.ErrInvalidToken
	// when the token is malformed, wrongly signed, or expired.
	Verify(token string) (string, error)
}
