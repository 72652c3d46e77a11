package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost. Passwords
// of any length are accepted.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), prehash(plain))
}

// prehash condenses the password to 44 bytes so bcrypt never sees more than
// its 72-byte limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// PasswordVerifier checks login attempts. A lookup miss is verified against a
// throwaway hash of the same cost, so both failure paths do one bcrypt
// comparison.
type PasswordVerifier struct {
	dummy string
}

// NewPasswordVerifier prepares the throwaway hash.
func NewPasswordVerifier(cost int) (*PasswordVerifier, error) {
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	dummy, err := HashPassword(hex.EncodeToString(secret), cost)
	if err != nil {
		return nil, err
	}
	return &PasswordVerifier{dummy: dummy}, nil
}

// Verify reports whether plain matches hashed. An empty hashed value means
// the account does not exist; it always fails after the same amount of work.
func (v *PasswordVerifier) Verify(hashed, plain string) bool {
	if hashed == "" {
		_ = ComparePassword(v.dummy, plain)
		return false
	}
	return ComparePassword(hashed, plain) == nil
}
