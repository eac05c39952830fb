// Package password hashes and verifies account passwords with bcrypt.
package password

import (
	"ewaste_pickup_backend/platform/apperr"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is bcrypt's input limit. It counts bytes, not characters.
const MaxBytes = 72

func Hash(plain string) (string, error) {
	if len(plain) > MaxBytes {
		return "", apperr.Validation("password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
