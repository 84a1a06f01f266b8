package utils

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPin hashes an operator PIN for storage.
func HashPin(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcryptCost)
	return string(bytes), err
}

// CheckPin compares a raw PIN against its stored hash.
func CheckPin(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
