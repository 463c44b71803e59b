// Package domain defines the secrets record produced by a bootstrap run and the
// fixed role set and gateway constants every derived artifact relies on.
package domain

import (
	"github.com/google/uuid"
)

// Role is a named capability scope carried in a token's role claim.
type Role string

const (
	RoleOrderUser Role = "order_user"
	RoleAdminUser Role = "xxxx_user"
)

// Roles is the fixed role set minted on every run.
var Roles = []Role{RoleOrderUser, RoleAdminUser}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Mode selects who owns the database superuser password.
type Mode string

const (
	// ModeGenerated keeps a generated database superuser password in the record.
	ModeGenerated Mode = "generated"
	// ModeOperator stores only a digest of an operator-supplied password.
	ModeOperator Mode = "operator"
)

// Validate checks if the mode is known.
func (m Mode) Validate() error {
	switch m {
	case ModeGenerated, ModeOperator:
		return nil
	default:
		return ErrInvalidMode
	}
}

// Gateway constants shared by the schema and the PostgREST config.
const (
	GatewaySchema   = "strichliste"
	GatewayAnonRole = "web_anon"
	GatewayMaxRows  = 200
)

// DefaultSecretLength is the number of characters of every generated secret.
const DefaultSecretLength = 40

// Record is the persisted bundle of one bootstrap run and the only source for
// every derived artifact.
type Record struct {
	RunID                       uuid.UUID       `json:"run_id"`
	Mode                        Mode            `json:"mode"`
	SigningSecret               string          `json:"signing_secret"`
	DBPassword                  string          `json:"db_password,omitempty"`
	DBRestPassword              string          `json:"db_rest_password"`
	OperatorCredentialHash      string          `json:"operator_credential_hash,omitempty"`
	OperatorCredentialAlgorithm string          `json:"operator_credential_algorithm,omitempty"`
	Tokens                      map[Role]string `json:"tokens"`
}

// Token returns the token minted for role.
func (r *Record) Token(role Role) (string, bool) {
	token, ok := r.Tokens[role]
	return token, ok && token != ""
}

// Validate checks the structural invariants of a record. Token signatures are
// checked by the record builder, which owns a verifier.
func (r *Record) Validate() error {
	if r.SigningSecret == "" {
		return wrapInconsistent("signing secret is empty")
	}
	if r.DBRestPassword == "" {
		return wrapInconsistent("gateway database password is empty")
	}
	if err := r.Mode.Validate(); err != nil {
		return wrapInconsistent(err.Error())
	}
	if r.Mode == ModeOperator && r.OperatorCredentialHash == "" {
		return wrapInconsistent("operator mode requires an operator credential hash")
	}
	if r.OperatorCredentialHash != "" && r.OperatorCredentialAlgorithm == "" {
		return wrapInconsistent("operator credential hash has no algorithm")
	}
	if len(r.Tokens) == 0 {
		return wrapInconsistent("record has no tokens")
	}
	for _, role := range Roles {
		if _, ok := r.Token(role); !ok {
			return wrapInconsistent("missing token for role " + role.String())
		}
	}
	return nil
}
