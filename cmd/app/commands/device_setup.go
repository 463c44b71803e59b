package commands

import (
	"context"
	"fmt"
	"log/slog"

	bootstrapUseCase "github.com/strichliste/bootstrap/internal/bootstrap/usecase"
)

// RunDeviceSetup writes the setup page for one ordering device from the stored
// secrets record. The page hands the device its order_user token.
//
// Requirements: bootstrap must have run.
func RunDeviceSetup(
	ctx context.Context,
	useCase bootstrapUseCase.BootstrapUseCase,
	logger *slog.Logger,
	location string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("writing device setup page", slog.String("location", location))

	path, err := useCase.SetupDevice(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to set up device: %w", err)
	}

	if format == "json" {
		return outputJSON(map[string]string{
			"location":          location,
			"device_setup_file": path,
		}, io.Writer)
	}

	_, _ = fmt.Fprintf(io.Writer, "Device setup page written: %s\n", path)
	_, _ = fmt.Fprintln(io.Writer, "Open it once on the device to store its token.")
	return nil
}
