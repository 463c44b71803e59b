// Package service provides the cryptographic and rendering services of a
// bootstrap run: secret generation, role token minting, operator credential
// hashing and artifact projection.
package service

import (
	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
)

// SecretGenerator produces random secrets over a fixed alphabet.
type SecretGenerator interface {
	// Generate returns a secret of exactly length characters.
	Generate(length int) (string, error)

	// Validate checks that secret is a value Generate could have returned. Loaded
	// records are checked with it before anything is derived from them.
	Validate(secret string) error
}

// TokenMinter issues and checks role tokens bound to a signing secret.
type TokenMinter interface {
	// Mint signs a token carrying role.
	Mint(signingSecret string, role domain.Role) (string, error)

	// MintAll signs one token per role.
	MintAll(signingSecret string, roles []domain.Role) (map[domain.Role]string, error)

	// Verify checks the token signature against signingSecret and returns its role claim.
	Verify(signingSecret, token string) (domain.Role, error)
}

// CredentialHasher turns an operator password into a one-way digest.
type CredentialHasher interface {
	// Hash returns the digest of password. The password itself is never retained.
	Hash(password string) (string, error)

	// Algorithm names the digest, stored next to it in the record.
	Algorithm() string
}
