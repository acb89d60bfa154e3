package utils

import (
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

// PasswordHasher produces argon2id hashes with a configurable cost. Encoded
// hashes carry their own parameters, so raising the cost never breaks
// existing logins.
type PasswordHasher struct {
	cfg argon2.Config
}

// NewPasswordHasher starts from the library defaults and overrides every
// non-zero parameter.
func NewPasswordHasher(timeCost, memoryKiB uint32, threads uint8) *PasswordHasher {
	cfg := argon2.DefaultConfig()
	if timeCost > 0 {
		cfg.TimeCost = timeCost
	}
	if memoryKiB > 0 {
		cfg.MemoryCost = memoryKiB
	}
	if threads > 0 {
		cfg.Parallelism = threads
	}
	return &PasswordHasher{cfg: cfg}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	cfg := h.cfg
	encoded, err := cfg.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

// Verify reports whether password matches encoded. Only a malformed hash is
// an error.
func (h *PasswordHasher) Verify(encoded, password string) (bool, error) {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encoded))
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return ok, nil
}
