package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"
	"github.com/lib/pq"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
	customValidation "github.com/strichliste/bootstrap/internal/validation"
)

// SchemaPasswordPlaceholder is replaced by the gateway database password when
// rendering the schema script.
const SchemaPasswordPlaceholder = "$PASSWORD"

// deviceStorageKey is the localStorage key the ordering frontend reads on start.
const deviceStorageKey = "persistance"

var deviceSetupTemplate = template.Must(template.New("device-setup").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Setup</title>
</head>
<body>
<h1>Passwort wurde gesetzt.</h1>
<script>
localStorage.setItem({{.StorageKey}}, {{.Payload}});
</script>
</body>
</html>
`))

var gatewayValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// DBTarget is where the gateway connects to.
type DBTarget struct {
	Host     string
	Port     int
	Database string
	User     string
}

// Validate checks the target fields.
func (t DBTarget) Validate() error {
	return customValidation.WrapValidationError(validation.ValidateStruct(&t,
		validation.Field(&t.Host, validation.Required, customValidation.NoWhitespace),
		validation.Field(&t.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&t.Database, validation.Required, customValidation.NoWhitespace),
		validation.Field(&t.User, validation.Required, customValidation.NoWhitespace),
	))
}

// devicePayload is the object the device stores client-side.
type devicePayload struct {
	Location string `json:"location"`
	Orders   []any  `json:"orders"`
	JWTToken string `json:"jwtToken"`
}

// ArtifactProjector renders a secrets record into the files its consumers read.
// Every method is a pure function of its arguments.
type ArtifactProjector struct{}

// NewArtifactProjector creates a projector.
func NewArtifactProjector() *ArtifactProjector {
	return &ArtifactProjector{}
}

// ProjectGatewayConfig renders the PostgREST configuration for record.
func (p *ArtifactProjector) ProjectGatewayConfig(record *domain.Record, target DBTarget) (string, error) {
	if record == nil || record.SigningSecret == "" || record.DBRestPassword == "" {
		return "", apperrors.Wrap(domain.ErrInconsistentRecord, "record lacks gateway secrets")
	}
	if err := target.Validate(); err != nil {
		return "", err
	}

	uri := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(target.User, record.DBRestPassword),
		Host:   net.JoinHostPort(target.Host, strconv.Itoa(target.Port)),
		Path:   "/" + target.Database,
	}
	var b strings.Builder
	writeGatewayLine(&b, "db-uri", uri.String())
	writeGatewayLine(&b, "db-schema", domain.GatewaySchema)
	writeGatewayLine(&b, "db-anon-role", domain.GatewayAnonRole)
	writeGatewayLine(&b, "jwt-secret", record.SigningSecret)
	fmt.Fprintf(&b, "max-rows = %d\n", domain.GatewayMaxRows)

	return b.String(), nil
}

func writeGatewayLine(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s = \"%s\"\n", key, gatewayValueEscaper.Replace(value))
}

// ProjectDeviceSetup renders the setup page for one device. The payload is
// JSON-encoded and then handed to html/template, which emits it as an
// HTML-safe JavaScript string literal inside the script element.
func (p *ArtifactProjector) ProjectDeviceSetup(record *domain.Record, location string) (string, error) {
	if err := validateLocationValue(location); err != nil {
		return "", err
	}
	if record == nil {
		return "", apperrors.Wrap(domain.ErrInconsistentRecord, "record is nil")
	}
	token, ok := record.Token(domain.RoleOrderUser)
	if !ok {
		return "", apperrors.Wrap(domain.ErrInconsistentRecord, "record has no order_user token")
	}

	payload, err := json.Marshal(devicePayload{
		Location: location,
		Orders:   []any{},
		JWTToken: token,
	})
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode device payload")
	}

	var buf bytes.Buffer
	err = deviceSetupTemplate.Execute(&buf, struct {
		StorageKey string
		Payload    string
	}{
		StorageKey: deviceStorageKey,
		Payload:    string(payload),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "failed to render device setup page")
	}

	return buf.String(), nil
}

// DeviceSetupFilename returns the page name for location. The location must
// be a plain identifier so the name cannot leave the static directory.
func (p *ArtifactProjector) DeviceSetupFilename(location string) (string, error) {
	if err := validation.Validate(location, validation.Required, customValidation.Identifier); err != nil {
		return "", apperrors.Wrap(domain.ErrInvalidLocation, err.Error())
	}
	return "setup_" + location + ".html", nil
}

// ProjectSchemaSQL substitutes the gateway database password into a schema
// script. The placeholder may appear bare or single-quoted; both become one
// properly quoted SQL literal.
func (p *ArtifactProjector) ProjectSchemaSQL(record *domain.Record, schemaTemplate string) (string, error) {
	if record == nil || record.DBRestPassword == "" {
		return "", apperrors.Wrap(domain.ErrInconsistentRecord, "record lacks the gateway database password")
	}
	if !strings.Contains(schemaTemplate, SchemaPasswordPlaceholder) {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "schema template has no "+SchemaPasswordPlaceholder+" placeholder")
	}

	literal := pq.QuoteLiteral(record.DBRestPassword)
	rendered := strings.ReplaceAll(schemaTemplate, "'"+SchemaPasswordPlaceholder+"'", literal)
	rendered = strings.ReplaceAll(rendered, SchemaPasswordPlaceholder, literal)

	return rendered, nil
}

// validateLocationValue accepts any printable UTF-8 text; escaping is left to
// the encoder.
func validateLocationValue(location string) error {
	if strings.TrimSpace(location) == "" {
		return apperrors.Wrap(domain.ErrInvalidLocation, "location cannot be blank")
	}
	if !utf8.ValidString(location) {
		return apperrors.Wrap(domain.ErrInvalidLocation, "location must be valid UTF-8")
	}
	for _, r := range location {
		if unicode.IsControl(r) {
			return apperrors.Wrap(domain.ErrInvalidLocation, "location must not contain control characters")
		}
	}
	return nil
}
