package service

import (
	"crypto/rand"
	"io"
	"strings"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

// SecretAlphabet is the 62-symbol alphabet secrets are drawn from.
const SecretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MaxSecretLength bounds a single generated secret.
const MaxSecretLength = 255

// rejectionThreshold is 4*62; bytes below it map evenly onto the alphabet.
const rejectionThreshold = 248

// maxReadRounds caps refills; a healthy source accepts 97% of bytes.
const maxReadRounds = 64

var (
	errLengthTooSmall = apperrors.Wrap(apperrors.ErrInvalidInput, "length must be at least 1")
	errLengthTooLarge = apperrors.Wrap(apperrors.ErrInvalidInput, "length must not exceed 255")
)

type secretGenerator struct {
	entropy io.Reader
}

// NewSecretGenerator creates a generator drawing from entropy. A nil entropy
// reader means crypto/rand.Reader.
func NewSecretGenerator(entropy io.Reader) SecretGenerator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &secretGenerator{entropy: entropy}
}

// Generate draws length characters uniformly, with replacement, from
// SecretAlphabet. Bytes at or above the largest multiple of the alphabet size
// are rejected so every symbol has the same probability.
func (g *secretGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", errLengthTooSmall
	}
	if length > MaxSecretLength {
		return "", errLengthTooLarge
	}

	secret := make([]byte, 0, length)
	buf := make([]byte, length)

	for round := 0; len(secret) < length; round++ {
		if round == maxReadRounds {
			return "", apperrors.Wrap(domain.ErrInsufficientEntropy, "entropy source keeps yielding rejected bytes")
		}
		if _, err := io.ReadFull(g.entropy, buf); err != nil {
			return "", apperrors.Join(domain.ErrInsufficientEntropy, err)
		}
		for _, b := range buf {
			if b >= rejectionThreshold {
				continue
			}
			secret = append(secret, SecretAlphabet[int(b)%len(SecretAlphabet)])
			if len(secret) == length {
				break
			}
		}
	}

	return string(secret), nil
}

// Validate reports whether secret could have come from Generate: non-empty,
// at most MaxSecretLength long and drawn only from SecretAlphabet.
func (g *secretGenerator) Validate(secret string) error {
	switch {
	case secret == "":
		return apperrors.Wrap(apperrors.ErrInvalidInput, "secret is empty")
	case len(secret) > MaxSecretLength:
		return errLengthTooLarge
	}

	if i := strings.IndexFunc(secret, outsideAlphabet); i >= 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "secret has a character outside the alphabet at offset %d", i)
	}
	return nil
}

func outsideAlphabet(r rune) bool {
	return !strings.ContainsRune(SecretAlphabet, r)
}
