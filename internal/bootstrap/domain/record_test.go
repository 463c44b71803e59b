package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validRecord() *Record {
	return &Record{
		RunID:          uuid.New(),
		Mode:           ModeGenerated,
		SigningSecret:  "signing",
		DBPassword:     "superuser",
		DBRestPassword: "rest",
		Tokens: map[Role]string{
			RoleOrderUser: "order-token",
			RoleAdminUser: "admin-token",
		},
	}
}

func TestMode_Validate(t *testing.T) {
	assert.NoError(t, ModeGenerated.Validate())
	assert.NoError(t, ModeOperator.Validate())
	assert.ErrorIs(t, Mode("remote").Validate(), ErrInvalidMode)
}

func TestRecord_Token(t *testing.T) {
	record := validRecord()

	token, ok := record.Token(RoleOrderUser)
	assert.True(t, ok)
	assert.Equal(t, "order-token", token)

	record.Tokens[RoleAdminUser] = ""
	_, ok = record.Token(RoleAdminUser)
	assert.False(t, ok)

	_, ok = record.Token(Role("guest"))
	assert.False(t, ok)
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *Record)
		shouldErr bool
	}{
		{name: "valid generated", mutate: func(r *Record) {}, shouldErr: false},
		{
			name: "valid operator",
			mutate: func(r *Record) {
				r.Mode = ModeOperator
				r.DBPassword = ""
				r.OperatorCredentialHash = "abcd"
				r.OperatorCredentialAlgorithm = "sha3-256"
			},
			shouldErr: false,
		},
		{name: "empty signing secret", mutate: func(r *Record) { r.SigningSecret = "" }, shouldErr: true},
		{name: "empty rest password", mutate: func(r *Record) { r.DBRestPassword = "" }, shouldErr: true},
		{name: "unknown mode", mutate: func(r *Record) { r.Mode = "remote" }, shouldErr: true},
		{name: "operator without hash", mutate: func(r *Record) { r.Mode = ModeOperator }, shouldErr: true},
		{
			name:      "hash without algorithm",
			mutate:    func(r *Record) { r.OperatorCredentialHash = "abcd" },
			shouldErr: true,
		},
		{name: "no tokens", mutate: func(r *Record) { r.Tokens = nil }, shouldErr: true},
		{
			name:      "missing admin token",
			mutate:    func(r *Record) { delete(r.Tokens, RoleAdminUser) },
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			err := record.Validate()
			if tt.shouldErr {
				assert.ErrorIs(t, err, ErrInconsistentRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
