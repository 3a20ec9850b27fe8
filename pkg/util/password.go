package util

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost 12 keeps hashing under ~300ms on the school server hardware.
const bcryptCost = 12

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// PasswordNeedsRehash reports whether a stored hash was produced with a
// cost different from the current one, so logins can upgrade old hashes.
func PasswordNeedsRehash(hashedPassword string) bool {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	if err != nil {
		return false
	}
	return cost != bcryptCost
}
