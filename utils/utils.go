package utils

import (
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = bcrypt.DefaultCost

// HashPIN hashes the household access PIN.
func HashPIN(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), BcryptCost)
	return string(bytes), err
}

func CheckPIN(pin, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	return err == nil
}
