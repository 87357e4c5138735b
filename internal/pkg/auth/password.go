package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes
const BcryptCost = 12

// HashPassword hashes a plaintext password
func HashPassword(password string) (string, error) {
	return hashPasswordWithCost(password, BcryptCost)
}

func hashPasswordWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// DummyHash returns a fixed hash with the production cost. Comparing against it
// lets a lookup miss spend the same time as a wrong password.
func DummyHash() string {
	dummyHashOnce.Do(func() {
		hash, err := HashPassword("campus-connect-dummy-password")
		if err != nil {
			// GenerateFromPassword only fails for out-of-range costs or overlong input
			panic(err)
		}
		dummyHash = hash
	})
	return dummyHash
}
