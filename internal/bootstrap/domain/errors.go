package domain

import (
	"fmt"

	"github.com/strichliste/bootstrap/internal/errors"
)

// Bootstrap failure taxonomy. Every error returned by a bootstrap stage matches
// exactly one of these with errors.Is.
var (
	// ErrInsufficientEntropy indicates the random source could not supply bytes.
	ErrInsufficientEntropy = errors.Wrap(errors.ErrUnavailable, "insufficient entropy")

	// ErrSigning indicates a token could not be signed.
	ErrSigning = errors.Wrap(errors.ErrUnavailable, "signing failed")

	// ErrPersistence indicates the secrets record or an artifact could not be written.
	ErrPersistence = errors.Wrap(errors.ErrUnavailable, "persistence failed")

	// ErrMissingDependency indicates a required primitive (hash, signer) is not available.
	ErrMissingDependency = errors.Wrap(errors.ErrUnavailable, "missing dependency")

	// ErrInvalidLocation indicates a device location is not a safe identifier.
	ErrInvalidLocation = errors.Wrap(errors.ErrInvalidInput, "invalid location")

	// ErrInconsistentRecord indicates a record whose tokens do not verify against its own signing secret.
	ErrInconsistentRecord = errors.Wrap(errors.ErrInternal, "inconsistent secrets record")

	// ErrTokenInvalid indicates a token failed signature or claim verification.
	ErrTokenInvalid = errors.Wrap(errors.ErrInvalidInput, "invalid token")

	// ErrInvalidMode indicates an unknown bootstrap mode.
	ErrInvalidMode = errors.Wrap(errors.ErrInvalidInput, "invalid bootstrap mode")

	// ErrRecordNotFound indicates no secrets record exists at the configured location.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "secrets record not found")
)

func wrapInconsistent(reason string) error {
	return errors.Wrap(ErrInconsistentRecord, reason)
}

// Stage names a step of a bootstrap run.
type Stage string

const (
	StageValidate      Stage = "validate"
	StageGenerate      Stage = "generate"
	StageHash          Stage = "hash"
	StageMint          Stage = "mint"
	StageVerify        Stage = "verify"
	StagePersist       Stage = "persist"
	StageLoad          Stage = "load"
	StageProject       Stage = "project"
	StageWriteArtifact Stage = "write-artifact"
)

// StageError records which stage of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("bootstrap stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage it came from. A nil err stays nil.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
