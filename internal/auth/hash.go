package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"personal-ledger/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns passwords into stored digests and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// NewHasher returns the hasher for a configured scheme.
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case config.HashSHA256, "":
		return SHA256Hasher{}, nil
	case config.HashBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	}
	return nil, fmt.Errorf("unsupported password hash: %s", scheme)
}

// SHA256Hasher stores the unsalted hex SHA-256 of the password. It is
// deterministic and reads account files written by earlier versions, but
// offers no protection against offline guessing.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(password, hash string) bool {
	want, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(hash))) == 1
}

// BcryptHasher stores salted bcrypt digests. Verify still accepts legacy
// SHA-256 digests so existing accounts can log in after switching.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (BcryptHasher) Verify(password, hash string) bool {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return SHA256Hasher{}.Verify(password, hash)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
