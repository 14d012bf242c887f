package core

import "golang.org/x/crypto/bcrypt"

// bcryptCost mirrors the work factor the service has always used for stored
// credentials. Raising it invalidates nothing (bcrypt embeds the cost), but
// keep sign-in latency in mind.
const bcryptCost = 10

// HashPassword produces a salted bcrypt digest of the plaintext. Two calls
// with the same input yield different digests.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches a stored digest.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
