package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "socialapi/internal/errors"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest secret bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and compares secrets with bcrypt. The zero value is
// not usable; build it with NewPasswordHasher.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs outside
// bcrypt's accepted range fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted one-way hash of plain. A secret longer than
// MaxPasswordBytes is reported as a validation error.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("password length must not exceed %d bytes", MaxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrHashing, err)
	}
	return string(hashed), nil
}

// Compare reports whether plain matches hashed. A wrong secret yields false
// with a nil error; only a malformed hash is reported as an error.
func (h *PasswordHasher) Compare(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare hash: %w", err)
}
