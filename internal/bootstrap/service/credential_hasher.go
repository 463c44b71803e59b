package service

import (
	"encoding/hex"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/sha3"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

// Credential hash algorithm names, stored in the record next to the digest.
const (
	HashSHA3256  = "sha3-256"
	HashArgon2id = "argon2id"
)

var errEmptyPassword = apperrors.Wrap(apperrors.ErrInvalidInput, "operator password cannot be empty")

// sha3Hasher produces the unsalted hex SHA3-256 digest the downstream auth
// servers compare against.
type sha3Hasher struct{}

func (h *sha3Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	sum := sha3.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h *sha3Hasher) Algorithm() string {
	return HashSHA3256
}

// argon2idHasher produces a salted PHC string using Argon2id.
type argon2idHasher struct {
	hasher *pwdhash.PasswordHasher
}

func (h *argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	hashed, err := h.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash operator password")
	}
	return hashed, nil
}

func (h *argon2idHasher) Algorithm() string {
	return HashArgon2id
}

// NewCredentialHasher returns the hasher for algorithm ("sha3-256" or "argon2id").
func NewCredentialHasher(algorithm string) (CredentialHasher, error) {
	switch algorithm {
	case HashSHA3256:
		return &sha3Hasher{}, nil
	case HashArgon2id:
		hasher, err := pwdhash.New(
			pwdhash.WithPolicy(pwdhash.PolicyModerate),
		)
		if err != nil {
			return nil, apperrors.Join(domain.ErrMissingDependency, err)
		}
		return &argon2idHasher{hasher: hasher}, nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown credential hash algorithm %q", algorithm)
	}
}
