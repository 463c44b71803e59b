package commands

import (
	"context"
	"fmt"
	"log/slog"

	bootstrapUseCase "github.com/strichliste/bootstrap/internal/bootstrap/usecase"
)

// RunRenderSchema substitutes the gateway database password of the stored
// record into a schema template. The rendered script is meant to be piped to
// psql and then removed.
//
// Requirements: bootstrap must have run.
func RunRenderSchema(
	ctx context.Context,
	useCase bootstrapUseCase.BootstrapUseCase,
	logger *slog.Logger,
	templatePath string,
	outputPath string,
	io IOTuple,
) error {
	if templatePath == "" || outputPath == "" {
		return fmt.Errorf("both --template and --output are required")
	}
	if templatePath == outputPath {
		return fmt.Errorf("output must not overwrite the template")
	}

	if err := useCase.RenderSchema(ctx, templatePath, outputPath); err != nil {
		return fmt.Errorf("failed to render schema: %w", err)
	}

	logger.Info("schema rendered", slog.String("template", templatePath), slog.String("output", outputPath))
	_, _ = fmt.Fprintf(io.Writer, "Schema script written: %s\n", outputPath)
	return nil
}
