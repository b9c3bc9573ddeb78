package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/lifepost/lifepost/internal/common/constants"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher derives a salted one-way digest. bcrypt generates a fresh
// random salt per hash and embeds it in the output, and its comparison
// routine is the only valid way to verify a candidate password.
type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.PasswordBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
