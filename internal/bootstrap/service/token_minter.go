package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

// TokenAlgorithm is the JWS algorithm of every minted token. PostgREST reads
// the role claim and checks it against the configured jwt-secret.
const TokenAlgorithm = "HS256"

const roleClaim = "role"

type tokenMinter struct {
	algorithm string
}

// NewTokenMinter creates a minter producing HMAC-SHA-256 signed JWTs.
func NewTokenMinter() TokenMinter {
	return &tokenMinter{algorithm: TokenAlgorithm}
}

// Mint signs a token whose only claim is the role. The result is deterministic
// for a given (secret, role) pair.
func (m *tokenMinter) Mint(signingSecret string, role domain.Role) (string, error) {
	if signingSecret == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret cannot be empty")
	}
	if role == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "role cannot be empty")
	}

	method := jwt.GetSigningMethod(m.algorithm)
	if method == nil {
		return "", apperrors.Wrapf(domain.ErrMissingDependency, "signing method %s not registered", m.algorithm)
	}

	token := jwt.NewWithClaims(method, jwt.MapClaims{roleClaim: role.String()})
	signed, err := token.SignedString([]byte(signingSecret))
	if err != nil {
		if errors.Is(err, jwt.ErrHashUnavailable) {
			return "", apperrors.Join(domain.ErrMissingDependency, err)
		}
		return "", apperrors.Join(domain.ErrSigning, err)
	}

	return signed, nil
}

// MintAll signs one token per role. Duplicate roles collapse onto one entry.
func (m *tokenMinter) MintAll(signingSecret string, roles []domain.Role) (map[domain.Role]string, error) {
	if len(roles) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "at least one role is required")
	}

	tokens := make(map[domain.Role]string, len(roles))
	for _, role := range roles {
		if _, done := tokens[role]; done {
			continue
		}
		token, err := m.Mint(signingSecret, role)
		if err != nil {
			return nil, apperrors.Wrapf(err, "mint token for role %s", role)
		}
		tokens[role] = token
	}

	return tokens, nil
}

// Verify parses token with strict base64 decoding, so flipping any bit of the
// encoded form fails, and returns its role claim.
func (m *tokenMinter) Verify(signingSecret, token string) (domain.Role, error) {
	if signingSecret == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret cannot be empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) {
			return []byte(signingSecret), nil
		},
		jwt.WithValidMethods([]string{m.algorithm}),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return "", apperrors.Join(domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return "", domain.ErrTokenInvalid
	}

	role, ok := claims[roleClaim].(string)
	if !ok || role == "" {
		return "", apperrors.Wrap(domain.ErrTokenInvalid, "token has no role claim")
	}

	return domain.Role(role), nil
}
