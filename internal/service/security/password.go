package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the account base was hashed with.
const bcryptCost = 10

// BcryptHasher implements domain.PasswordHasher with bcrypt.
type BcryptHasher struct{}

// NewBcryptHasher creates a BcryptHasher.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash returns the bcrypt hash of the plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
