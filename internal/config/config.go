// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	bootstrapService "github.com/strichliste/bootstrap/internal/bootstrap/service"
	customValidation "github.com/strichliste/bootstrap/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// Mode selects the bootstrap variant ("generated" or "operator").
	Mode string
	// SecretLength is the number of characters in every generated secret.
	SecretLength int

	// SecretsFile is the canonical location of the persisted secrets record.
	SecretsFile string
	// GatewayConfigFile is where the PostgREST configuration is written.
	GatewayConfigFile string
	// StaticDir is the directory device setup pages are written to.
	StaticDir string

	// DBHost is the host the gateway connects to.
	DBHost string
	// DBPort is the port the gateway connects to.
	DBPort int
	// DBName is the database the gateway connects to.
	DBName string
	// DBRestUser is the login role used by the gateway.
	DBRestUser string

	// OperatorHashAlgorithm is the digest used for the operator credential.
	OperatorHashAlgorithm string
	// OperatorPasswordMinLength is the minimum number of characters of an operator password.
	OperatorPasswordMinLength int
	// OperatorPasswordRequireUpper requires an uppercase letter in the operator password.
	OperatorPasswordRequireUpper bool
	// OperatorPasswordRequireLower requires a lowercase letter in the operator password.
	OperatorPasswordRequireLower bool
	// OperatorPasswordRequireNumber requires a digit in the operator password.
	OperatorPasswordRequireNumber bool
	// OperatorPasswordRequireSpecial requires punctuation or a symbol in the operator password.
	OperatorPasswordRequireSpecial bool

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		Mode:         env.GetString("BOOTSTRAP_MODE", string(domain.ModeGenerated)),
		SecretLength: env.GetInt("SECRET_LENGTH", domain.DefaultSecretLength),

		// Output locations
		SecretsFile:       env.GetString("SECRETS_FILE", "secrets.json"),
		GatewayConfigFile: env.GetString("GATEWAY_CONFIG_FILE", "postgREST.conf"),
		StaticDir:         env.GetString("STATIC_DIR", "static"),

		// Gateway database target
		DBHost:     env.GetString("DB_HOST", "localhost"),
		DBPort:     env.GetInt("DB_PORT", 5433),
		DBName:     env.GetString("DB_NAME", "postgres"),
		DBRestUser: env.GetString("DB_REST_USER", "rest"),

		// Operator credential
		OperatorHashAlgorithm:          env.GetString("OPERATOR_HASH_ALGORITHM", bootstrapService.HashSHA3256),
		OperatorPasswordMinLength:      env.GetInt("OPERATOR_PASSWORD_MIN_LENGTH", 8),
		OperatorPasswordRequireUpper:   env.GetBool("OPERATOR_PASSWORD_REQUIRE_UPPER", false),
		OperatorPasswordRequireLower:   env.GetBool("OPERATOR_PASSWORD_REQUIRE_LOWER", false),
		OperatorPasswordRequireNumber:  env.GetBool("OPERATOR_PASSWORD_REQUIRE_NUMBER", false),
		OperatorPasswordRequireSpecial: env.GetBool("OPERATOR_PASSWORD_REQUIRE_SPECIAL", false),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),
	}
}

// Validate checks that the configuration describes a runnable bootstrap.
func (c *Config) Validate() error {
	return customValidation.WrapValidationError(validation.ValidateStruct(c,
		validation.Field(
			&c.Mode,
			validation.Required,
			validation.In(string(domain.ModeGenerated), string(domain.ModeOperator)),
		),
		validation.Field(
			&c.SecretLength,
			validation.Required,
			validation.Min(1),
			validation.Max(bootstrapService.MaxSecretLength),
		),
		validation.Field(&c.SecretsFile, validation.Required, customValidation.NotBlank),
		validation.Field(&c.GatewayConfigFile, validation.Required, customValidation.NotBlank),
		validation.Field(&c.StaticDir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.DBHost, validation.Required, customValidation.NoWhitespace),
		validation.Field(&c.DBPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBName, validation.Required, customValidation.NoWhitespace),
		validation.Field(&c.DBRestUser, validation.Required, customValidation.NoWhitespace),
		validation.Field(
			&c.OperatorHashAlgorithm,
			validation.Required,
			validation.In(bootstrapService.HashSHA3256, bootstrapService.HashArgon2id),
		),
		validation.Field(&c.OperatorPasswordMinLength, validation.Required, validation.Min(1)),
	))
}

// OperatorPasswordPolicy returns the rule operator passwords must satisfy.
func (c *Config) OperatorPasswordPolicy() customValidation.PasswordStrength {
	return customValidation.PasswordStrength{
		MinLength:      c.OperatorPasswordMinLength,
		RequireUpper:   c.OperatorPasswordRequireUpper,
		RequireLower:   c.OperatorPasswordRequireLower,
		RequireNumber:  c.OperatorPasswordRequireNumber,
		RequireSpecial: c.OperatorPasswordRequireSpecial,
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
