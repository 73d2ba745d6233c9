package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost matches the work factor of the hashes already stored in production.
const PasswordCost = 10

// MaxPasswordBytes is the bcrypt input limit, counted in bytes rather than runes.
const MaxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
