package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	bootstrapUseCase "github.com/strichliste/bootstrap/internal/bootstrap/usecase"
)

// RunBootstrap generates a fresh secrets record, persists it and writes the
// gateway config and, when location is set, the device setup page. Re-running
// replaces every secret and invalidates tokens issued before.
//
// In operator mode the operator password is read from passwords; it is hashed
// and never stored or printed.
func RunBootstrap(
	ctx context.Context,
	useCase bootstrapUseCase.BootstrapUseCase,
	logger *slog.Logger,
	modeStr string,
	location string,
	passwords PasswordSource,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	mode := domain.Mode(modeStr)
	if err := mode.Validate(); err != nil {
		return fmt.Errorf("invalid mode: %s (valid options: generated, operator)", modeStr)
	}

	logger.Info("starting bootstrap", slog.String("mode", modeStr))

	input := bootstrapUseCase.RunInput{
		Mode:     mode,
		Location: location,
	}
	if mode == domain.ModeOperator {
		password, err := passwords.ReadPassword()
		if err != nil {
			return err
		}
		input.OperatorPassword = password
	}

	output, err := useCase.Run(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to bootstrap: %w", err)
	}

	if format == "json" {
		if err := outputBootstrapJSON(output, io.Writer); err != nil {
			return err
		}
	} else {
		outputBootstrapText(output, io.Writer)
	}

	logger.Info("bootstrap completed",
		slog.String("run_id", output.RunID.String()),
		slog.String("mode", string(output.Mode)),
	)

	return nil
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return names
}

// outputBootstrapText outputs the result in human-readable text format.
func outputBootstrapText(output *bootstrapUseCase.RunOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Bootstrap completed successfully!")
	_, _ = fmt.Fprintf(writer, "Run ID: %s\n", output.RunID.String())
	_, _ = fmt.Fprintf(writer, "Mode: %s\n", output.Mode)
	_, _ = fmt.Fprintf(writer, "Roles: %s\n", strings.Join(roleNames(output.Roles), ", "))
	_, _ = fmt.Fprintf(writer, "Secrets record: %s\n", output.SecretsFile)
	_, _ = fmt.Fprintf(writer, "Gateway config: %s\n", output.GatewayConfigFile)
	if output.DeviceSetupFile != "" {
		_, _ = fmt.Fprintf(writer, "Device setup page: %s\n", output.DeviceSetupFile)
	}
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: Restart the gateway; tokens from earlier runs no longer verify.")
}

// outputBootstrapJSON outputs the result in JSON format for machine consumption.
func outputBootstrapJSON(output *bootstrapUseCase.RunOutput, writer io.Writer) error {
	result := map[string]any{
		"run_id":              output.RunID.String(),
		"mode":                string(output.Mode),
		"roles":               roleNames(output.Roles),
		"secrets_file":        output.SecretsFile,
		"gateway_config_file": output.GatewayConfigFile,
	}
	if output.DeviceSetupFile != "" {
		result["device_setup_file"] = output.DeviceSetupFile
	}
	return outputJSON(result, writer)
}
