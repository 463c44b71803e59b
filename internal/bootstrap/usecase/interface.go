// Package usecase assembles a bootstrap run: it builds the secrets record,
// persists it and projects the artifacts derived from it.
package usecase

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	bootstrapService "github.com/strichliste/bootstrap/internal/bootstrap/service"
)

// RecordRepository persists the secrets record.
type RecordRepository interface {
	// Save replaces the stored record. A failed save leaves the previous file intact.
	Save(ctx context.Context, record *domain.Record) error

	// Load returns the stored record or domain.ErrRecordNotFound.
	Load(ctx context.Context) (*domain.Record, error)
}

// ArtifactWriter writes a derived artifact to its destination.
type ArtifactWriter interface {
	Write(ctx context.Context, path string, content []byte, perm os.FileMode) error
}

// ArtifactProjector renders artifacts from a record.
type ArtifactProjector interface {
	ProjectGatewayConfig(record *domain.Record, target bootstrapService.DBTarget) (string, error)
	ProjectDeviceSetup(record *domain.Record, location string) (string, error)
	DeviceSetupFilename(location string) (string, error)
	ProjectSchemaSQL(record *domain.Record, schemaTemplate string) (string, error)
}

// BuildInput selects the mode of a run and carries the operator password, if any.
type BuildInput struct {
	Mode             domain.Mode
	OperatorPassword string
}

// RunInput describes one bootstrap run.
type RunInput struct {
	Mode             domain.Mode
	OperatorPassword string
	// Location, when set, also produces the setup page for that device.
	Location string
}

// RunOutput lists what a run produced. It never carries secret material.
type RunOutput struct {
	RunID             uuid.UUID
	Mode              domain.Mode
	Roles             []domain.Role
	SecretsFile       string
	GatewayConfigFile string
	DeviceSetupFile   string
}

// RecordBuilder produces a fresh, self-consistent secrets record.
type RecordBuilder interface {
	Build(ctx context.Context, input BuildInput) (*domain.Record, error)

	// Verify checks that every token of record verifies against its signing secret.
	Verify(record *domain.Record) error
}

// BootstrapUseCase runs the bootstrap pipeline and its follow-up projections.
type BootstrapUseCase interface {
	// Run generates, persists and projects a new record, replacing any previous one.
	Run(ctx context.Context, input RunInput) (*RunOutput, error)

	// SetupDevice writes the setup page for location from the stored record.
	SetupDevice(ctx context.Context, location string) (string, error)

	// RenderSchema substitutes the stored gateway password into a schema template.
	RenderSchema(ctx context.Context, templatePath, outputPath string) error
}
