package security

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/modern-pedagogues/platform-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt digest of the provided password.
// The cost factor comes from config and defaults to 12.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), costFromConfig(cfg))
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether the password matches the stored digest.
// A mismatch is not an error; only malformed digests produce one.
func VerifyPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("comparing password: %w", err)
}

func costFromConfig(cfg config.PasswordConfig) int {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 12
	}
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

var studentNumberCharset = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

const studentNumberLength = 10

// GenerateStudentNumber produces a collision-resistant student identifier of
// the form STU-XXXXXXXXXX. The alphabet omits easily confused characters.
func GenerateStudentNumber() (string, error) {
	result := make([]rune, studentNumberLength)
	for i := range result {
		idx, err := randInt(len(studentNumberCharset))
		if err != nil {
			return "", err
		}
		result[i] = studentNumberCharset[idx]
	}
	return "STU-" + string(result), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	var buff = make([]byte, 1)
	for {
		if _, err := rand.Read(buff); err != nil {
			return 0, err
		}
		// reject values that would bias the modulo
		if int(buff[0]) < 256-(256%max) {
			return int(buff[0]) % max, nil
		}
	}
}
