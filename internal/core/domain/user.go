package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User models a registered account. Sessions are single-token: the stored
// Token is the only one the access gate accepts, and logout clears it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Token        string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash. This is
// the single verification path; callers never invoke bcrypt directly.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// LoggedIn reports whether the user currently holds a session token.
func (u *User) LoggedIn() bool {
	return u.Token != ""
}
