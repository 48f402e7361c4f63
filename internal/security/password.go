// Package security holds the credential and session token helpers used
// by the auth service.
package security

import "golang.org/x/crypto/bcrypt"

// HashPIN returns a bcrypt hash of the login PIN.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPIN safely compares a bcrypt hash against a candidate PIN.
func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
