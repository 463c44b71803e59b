package usecase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	bootstrapService "github.com/strichliste/bootstrap/internal/bootstrap/service"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

// File modes of the derived artifacts. The gateway config embeds the signing
// secret and the schema script embeds a database password.
const (
	gatewayConfigMode os.FileMode = 0o600
	schemaSQLMode     os.FileMode = 0o600
	deviceSetupMode   os.FileMode = 0o644
)

// Paths locates every file a run writes.
type Paths struct {
	SecretsFile       string
	GatewayConfigFile string
	StaticDir         string
}

type bootstrapUseCase struct {
	builder   RecordBuilder
	repo      RecordRepository
	projector ArtifactProjector
	writer    ArtifactWriter
	target    bootstrapService.DBTarget
	paths     Paths
	logger    *slog.Logger
}

// NewBootstrapUseCase creates the bootstrap pipeline.
func NewBootstrapUseCase(
	builder RecordBuilder,
	repo RecordRepository,
	projector ArtifactProjector,
	writer ArtifactWriter,
	target bootstrapService.DBTarget,
	paths Paths,
	logger *slog.Logger,
) BootstrapUseCase {
	return &bootstrapUseCase{
		builder:   builder,
		repo:      repo,
		projector: projector,
		writer:    writer,
		target:    target,
		paths:     paths,
		logger:    logger,
	}
}

// Run executes generate, mint, persist and project strictly in that order.
// Nothing is projected unless the record was saved.
func (u *bootstrapUseCase) Run(ctx context.Context, input RunInput) (*RunOutput, error) {
	var deviceFile string
	if input.Location != "" {
		name, err := u.projector.DeviceSetupFilename(input.Location)
		if err != nil {
			return nil, domain.NewStageError(domain.StageValidate, err)
		}
		deviceFile = filepath.Join(u.paths.StaticDir, name)
	}

	record, err := u.builder.Build(ctx, BuildInput{
		Mode:             input.Mode,
		OperatorPassword: input.OperatorPassword,
	})
	if err != nil {
		return nil, err
	}
	u.logger.Debug("secrets record built",
		slog.String("run_id", record.RunID.String()),
		slog.String("mode", string(record.Mode)),
		slog.Int("tokens", len(record.Tokens)),
	)

	if err := u.repo.Save(ctx, record); err != nil {
		return nil, domain.NewStageError(domain.StagePersist, err)
	}
	u.logger.Info("secrets record saved", slog.String("run_id", record.RunID.String()))

	config, err := u.projector.ProjectGatewayConfig(record, u.target)
	if err != nil {
		return nil, domain.NewStageError(domain.StageProject, err)
	}
	if err := u.writer.Write(ctx, u.paths.GatewayConfigFile, []byte(config), gatewayConfigMode); err != nil {
		return nil, domain.NewStageError(domain.StageWriteArtifact, err)
	}
	u.logger.Info("gateway config written", slog.String("path", u.paths.GatewayConfigFile))

	if deviceFile != "" {
		if err := u.writeDeviceSetup(ctx, record, input.Location, deviceFile); err != nil {
			return nil, err
		}
	}

	return &RunOutput{
		RunID:             record.RunID,
		Mode:              record.Mode,
		Roles:             domain.Roles,
		SecretsFile:       u.paths.SecretsFile,
		GatewayConfigFile: u.paths.GatewayConfigFile,
		DeviceSetupFile:   deviceFile,
	}, nil
}

// SetupDevice writes the setup page for location from the stored record and
// returns its path.
func (u *bootstrapUseCase) SetupDevice(ctx context.Context, location string) (string, error) {
	name, err := u.projector.DeviceSetupFilename(location)
	if err != nil {
		return "", domain.NewStageError(domain.StageValidate, err)
	}

	record, err := u.loadVerified(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(u.paths.StaticDir, name)
	if err := u.writeDeviceSetup(ctx, record, location, path); err != nil {
		return "", err
	}
	return path, nil
}

// RenderSchema reads the schema template, substitutes the gateway password of
// the stored record and writes the script to outputPath.
func (u *bootstrapUseCase) RenderSchema(ctx context.Context, templatePath, outputPath string) error {
	schemaTemplate, err := os.ReadFile(templatePath)
	if err != nil {
		return domain.NewStageError(domain.StageValidate, apperrors.Join(apperrors.ErrInvalidInput, err))
	}

	record, err := u.loadVerified(ctx)
	if err != nil {
		return err
	}

	sql, err := u.projector.ProjectSchemaSQL(record, string(schemaTemplate))
	if err != nil {
		return domain.NewStageError(domain.StageProject, err)
	}
	if err := u.writer.Write(ctx, outputPath, []byte(sql), schemaSQLMode); err != nil {
		return domain.NewStageError(domain.StageWriteArtifact, err)
	}

	u.logger.Info("schema script rendered",
		slog.String("run_id", record.RunID.String()),
		slog.String("path", outputPath),
	)
	return nil
}

func (u *bootstrapUseCase) loadVerified(ctx context.Context) (*domain.Record, error) {
	record, err := u.repo.Load(ctx)
	if err != nil {
		return nil, domain.NewStageError(domain.StageLoad, err)
	}
	if err := u.builder.Verify(record); err != nil {
		return nil, domain.NewStageError(domain.StageVerify, err)
	}
	return record, nil
}

func (u *bootstrapUseCase) writeDeviceSetup(
	ctx context.Context,
	record *domain.Record,
	location string,
	path string,
) error {
	page, err := u.projector.ProjectDeviceSetup(record, location)
	if err != nil {
		return domain.NewStageError(domain.StageProject, err)
	}
	if err := u.writer.Write(ctx, path, []byte(page), deviceSetupMode); err != nil {
		return domain.NewStageError(domain.StageWriteArtifact, err)
	}

	u.logger.Info("device setup page written",
		slog.String("run_id", record.RunID.String()),
		slog.String("location", location),
		slog.String("path", path),
	)
	return nil
}
