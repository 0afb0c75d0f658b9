package service

import "golang.org/x/crypto/bcrypt"

// bcryptCost keeps verification in the tens of milliseconds.
const bcryptCost = 10

// dummyPasswordHash is a valid bcrypt hash compared against when login hits
// an unknown email, so that path costs the same as a wrong password and the
// two failures are indistinguishable by timing.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func compareDummyPassword(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(plaintext))
}
