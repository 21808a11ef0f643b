package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed at the library default (10 rounds). Raising it
// invalidates nothing; existing hashes keep their original cost.
const bcryptCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt digest. Two calls with the same
// plaintext yield different digests; equality must go through VerifyPassword.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the stored digest.
// bcrypt's comparison does not short-circuit on mismatch position.
func VerifyPassword(plaintext, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
