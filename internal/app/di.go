// Package app provides dependency injection container for assembling application components.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	bootstrapRepository "github.com/strichliste/bootstrap/internal/bootstrap/repository"
	bootstrapService "github.com/strichliste/bootstrap/internal/bootstrap/service"
	bootstrapUsecase "github.com/strichliste/bootstrap/internal/bootstrap/usecase"
	"github.com/strichliste/bootstrap/internal/config"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	logOutput io.Writer

	// Services
	secretGenerator   bootstrapService.SecretGenerator
	tokenMinter       bootstrapService.TokenMinter
	credentialHasher  bootstrapService.CredentialHasher
	artifactProjector *bootstrapService.ArtifactProjector

	// Repositories
	recordRepo     *bootstrapRepository.FileRecordRepository
	artifactWriter *bootstrapRepository.FileArtifactWriter

	// Use Cases
	recordBuilder    bootstrapUsecase.RecordBuilder
	bootstrapUseCase bootstrapUsecase.BootstrapUseCase

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	secretGeneratorInit  sync.Once
	tokenMinterInit      sync.Once
	credentialHasherInit sync.Once
	projectorInit        sync.Once
	recordRepoInit       sync.Once
	artifactWriterInit   sync.Once
	recordBuilderInit    sync.Once
	bootstrapUseCaseInit sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
// Logs go to stderr so command output on stdout stays machine readable.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		logOutput:  os.Stderr,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// SetLogOutput redirects the logger. It has no effect once the logger was created.
func (c *Container) SetLogOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logOutput = w
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// SecretGenerator returns the secret generator backed by the system CSPRNG.
func (c *Container) SecretGenerator() bootstrapService.SecretGenerator {
	c.secretGeneratorInit.Do(func() {
		c.secretGenerator = bootstrapService.NewSecretGenerator(nil)
	})
	return c.secretGenerator
}

// TokenMinter returns the role token minter.
func (c *Container) TokenMinter() bootstrapService.TokenMinter {
	c.tokenMinterInit.Do(func() {
		c.tokenMinter = bootstrapService.NewTokenMinter()
	})
	return c.tokenMinter
}

// CredentialHasher returns the operator credential hasher selected by configuration.
func (c *Container) CredentialHasher() (bootstrapService.CredentialHasher, error) {
	var err error
	c.credentialHasherInit.Do(func() {
		c.credentialHasher, err = c.initCredentialHasher()
		if err != nil {
			c.setInitError("credentialHasher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("credentialHasher"); storedErr != nil {
		return nil, storedErr
	}
	return c.credentialHasher, nil
}

// ArtifactProjector returns the artifact projector.
func (c *Container) ArtifactProjector() *bootstrapService.ArtifactProjector {
	c.projectorInit.Do(func() {
		c.artifactProjector = bootstrapService.NewArtifactProjector()
	})
	return c.artifactProjector
}

// RecordRepository returns the file-backed secrets record repository.
func (c *Container) RecordRepository() *bootstrapRepository.FileRecordRepository {
	c.recordRepoInit.Do(func() {
		c.recordRepo = bootstrapRepository.NewFileRecordRepository(c.config.SecretsFile)
	})
	return c.recordRepo
}

// ArtifactWriter returns the atomic file writer used for derived artifacts.
func (c *Container) ArtifactWriter() *bootstrapRepository.FileArtifactWriter {
	c.artifactWriterInit.Do(func() {
		c.artifactWriter = bootstrapRepository.NewFileArtifactWriter()
	})
	return c.artifactWriter
}

// RecordBuilder returns the record builder.
func (c *Container) RecordBuilder() (bootstrapUsecase.RecordBuilder, error) {
	var err error
	c.recordBuilderInit.Do(func() {
		c.recordBuilder, err = c.initRecordBuilder()
		if err != nil {
			c.setInitError("recordBuilder", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("recordBuilder"); storedErr != nil {
		return nil, storedErr
	}
	return c.recordBuilder, nil
}

// BootstrapUseCase returns the bootstrap use case.
func (c *Container) BootstrapUseCase() (bootstrapUsecase.BootstrapUseCase, error) {
	var err error
	c.bootstrapUseCaseInit.Do(func() {
		c.bootstrapUseCase, err = c.initBootstrapUseCase()
		if err != nil {
			c.setInitError("bootstrapUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("bootstrapUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.bootstrapUseCase, nil
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	c.mu.Lock()
	output := c.logOutput
	c.mu.Unlock()

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initCredentialHasher creates the hasher named by the configuration.
func (c *Container) initCredentialHasher() (bootstrapService.CredentialHasher, error) {
	hasher, err := bootstrapService.NewCredentialHasher(c.config.OperatorHashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential hasher: %w", err)
	}
	return hasher, nil
}

// initRecordBuilder creates the record builder with all its dependencies.
func (c *Container) initRecordBuilder() (bootstrapUsecase.RecordBuilder, error) {
	hasher, err := c.CredentialHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential hasher for record builder: %w", err)
	}

	return bootstrapUsecase.NewRecordBuilder(
		c.SecretGenerator(),
		c.TokenMinter(),
		hasher,
		c.config.SecretLength,
		c.config.OperatorPasswordPolicy(),
	), nil
}

// initBootstrapUseCase creates the bootstrap use case with all its dependencies.
func (c *Container) initBootstrapUseCase() (bootstrapUsecase.BootstrapUseCase, error) {
	if err := c.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	builder, err := c.RecordBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to get record builder for bootstrap use case: %w", err)
	}

	target := bootstrapService.DBTarget{
		Host:     c.config.DBHost,
		Port:     c.config.DBPort,
		Database: c.config.DBName,
		User:     c.config.DBRestUser,
	}
	paths := bootstrapUsecase.Paths{
		SecretsFile:       c.config.SecretsFile,
		GatewayConfigFile: c.config.GatewayConfigFile,
		StaticDir:         c.config.StaticDir,
	}

	return bootstrapUsecase.NewBootstrapUseCase(
		builder,
		c.RecordRepository(),
		c.ArtifactProjector(),
		c.ArtifactWriter(),
		target,
		paths,
		c.Logger(),
	), nil
}
