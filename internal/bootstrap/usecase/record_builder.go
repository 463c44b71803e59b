package usecase

import (
	"context"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	bootstrapService "github.com/strichliste/bootstrap/internal/bootstrap/service"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
	customValidation "github.com/strichliste/bootstrap/internal/validation"
)

// DefaultOperatorPasswordPolicy is the minimum accepted operator password.
var DefaultOperatorPasswordPolicy = customValidation.PasswordStrength{MinLength: 8}

// maxDrawsPerSecret bounds redraws when a secret collides with one drawn
// earlier in the same run. Short secrets collide by chance; a source that
// collides this often is broken.
const maxDrawsPerSecret = 16

type recordBuilder struct {
	generator      bootstrapService.SecretGenerator
	minter         bootstrapService.TokenMinter
	hasher         bootstrapService.CredentialHasher
	secretLength   int
	passwordPolicy customValidation.PasswordStrength
	newRunID       func() uuid.UUID
}

// NewRecordBuilder creates a builder producing secrets of secretLength
// characters and accepting operator passwords that satisfy passwordPolicy.
func NewRecordBuilder(
	generator bootstrapService.SecretGenerator,
	minter bootstrapService.TokenMinter,
	hasher bootstrapService.CredentialHasher,
	secretLength int,
	passwordPolicy customValidation.PasswordStrength,
) RecordBuilder {
	return &recordBuilder{
		generator:      generator,
		minter:         minter,
		hasher:         hasher,
		secretLength:   secretLength,
		passwordPolicy: passwordPolicy,
		newRunID:       uuid.New,
	}
}

// Build generates every secret, hashes the operator password when given, mints
// the fixed role set and checks the result before handing it out.
func (b *recordBuilder) Build(ctx context.Context, input BuildInput) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.validateInput(input); err != nil {
		return nil, domain.NewStageError(domain.StageValidate, err)
	}

	record := &domain.Record{
		RunID: b.newRunID(),
		Mode:  input.Mode,
	}

	secrets, err := b.generateDistinct(b.secretCount(input.Mode))
	if err != nil {
		return nil, domain.NewStageError(domain.StageGenerate, err)
	}
	record.SigningSecret = secrets[0]
	record.DBRestPassword = secrets[1]
	if input.Mode == domain.ModeGenerated {
		record.DBPassword = secrets[2]
	}

	if input.OperatorPassword != "" {
		digest, err := b.hasher.Hash(input.OperatorPassword)
		if err != nil {
			return nil, domain.NewStageError(domain.StageHash, err)
		}
		record.OperatorCredentialHash = digest
		record.OperatorCredentialAlgorithm = b.hasher.Algorithm()
	}

	tokens, err := b.minter.MintAll(record.SigningSecret, domain.Roles)
	if err != nil {
		return nil, domain.NewStageError(domain.StageMint, err)
	}
	record.Tokens = tokens

	if err := b.Verify(record); err != nil {
		return nil, domain.NewStageError(domain.StageVerify, err)
	}

	return record, nil
}

// Verify checks the structure of record, that its secrets were drawn from the
// generator's alphabet and that each token carries its own role and verifies
// against the record's signing secret.
func (b *recordBuilder) Verify(record *domain.Record) error {
	if record == nil {
		return apperrors.Wrap(domain.ErrInconsistentRecord, "record is nil")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if err := b.verifySecrets(record); err != nil {
		return err
	}

	for role, token := range record.Tokens {
		got, err := b.minter.Verify(record.SigningSecret, token)
		if err != nil {
			return apperrors.Join(domain.ErrInconsistentRecord, apperrors.Wrapf(err, "token for role %s", role))
		}
		if got != role {
			return apperrors.Wrapf(domain.ErrInconsistentRecord, "token stored under %s carries role %s", role, got)
		}
	}

	return nil
}

func (b *recordBuilder) verifySecrets(record *domain.Record) error {
	secrets := []struct {
		name  string
		value string
	}{
		{name: "signing secret", value: record.SigningSecret},
		{name: "gateway database password", value: record.DBRestPassword},
		{name: "database password", value: record.DBPassword},
	}
	for _, secret := range secrets {
		if secret.value == "" {
			continue
		}
		if err := b.generator.Validate(secret.value); err != nil {
			return apperrors.Wrapf(domain.ErrInconsistentRecord, "%s: %v", secret.name, err)
		}
	}
	return nil
}

func (b *recordBuilder) validateInput(input BuildInput) error {
	if err := input.Mode.Validate(); err != nil {
		return err
	}
	if input.Mode == domain.ModeOperator && input.OperatorPassword == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "operator mode requires an operator password")
	}
	if input.OperatorPassword != "" {
		err := validation.Validate(input.OperatorPassword, b.passwordPolicy)
		if err != nil {
			return customValidation.WrapValidationError(err)
		}
	}
	return nil
}

// secretCount is the number of independent secrets a mode needs: signing
// secret and gateway password, plus the superuser password in generated mode.
func (b *recordBuilder) secretCount(mode domain.Mode) int {
	if mode == domain.ModeGenerated {
		return 3
	}
	return 2
}

// generateDistinct draws n pairwise distinct secrets. A secret equal to an
// earlier one is redrawn; the run fails only once maxDrawsPerSecret draws in a
// row collided.
func (b *recordBuilder) generateDistinct(n int) ([]string, error) {
	secrets := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(secrets) < n {
		secret, err := b.drawUnseen(seen)
		if err != nil {
			return nil, err
		}
		seen[secret] = struct{}{}
		secrets = append(secrets, secret)
	}
	return secrets, nil
}

func (b *recordBuilder) drawUnseen(seen map[string]struct{}) (string, error) {
	for draw := 0; draw < maxDrawsPerSecret; draw++ {
		secret, err := b.generator.Generate(b.secretLength)
		if err != nil {
			return "", err
		}
		if _, dup := seen[secret]; !dup {
			return secret, nil
		}
	}
	return "", apperrors.Wrapf(domain.ErrInsufficientEntropy, "generator repeated a secret %d times", maxDrawsPerSecret)
}
