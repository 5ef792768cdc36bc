package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of the shared admin password. The
// plaintext from the environment is hashed once at startup so login
// attempts are always compared against a hash, never the raw secret.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
