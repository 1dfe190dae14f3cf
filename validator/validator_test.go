package validator_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andyle182810/jiraclient/validator"
	gvalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type instanceSettings struct {
	URL      string        `json:"url"      validate:"required,http_url"`
	Username string        `json:"username" validate:"required"`
	Timeout  time.Duration `json:"timeout"  validate:"gte=0"`
	Backend  string        `json:"backend"  validate:"oneof=memory redis"`
	Internal string        `json:"-"        validate:"max=3"`
	Port     int           `validate:"min=1,max=65535"`
}

func validSettings() instanceSettings {
	return instanceSettings{
		URL:      "https://jira.example.com",
		Username: "alice",
		Timeout:  5 * time.Second,
		Backend:  "memory",
		Internal: "",
		Port:     443,
	}
}

func requireValidationErrors(t *testing.T, err error) validator.ValidationErrors {
	t.Helper()

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	return validationErrors
}

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	require.NoError(t, validator.New().Validate(validSettings()))
	require.NoError(t, validator.Validate(validSettings()))
}

func TestValidate_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*instanceSettings)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing username",
			mutate:    func(s *instanceSettings) { s.Username = "" },
			wantField: "username",
			wantTag:   "required",
			wantMsg:   "username is required",
		},
		{
			name:      "relative url",
			mutate:    func(s *instanceSettings) { s.URL = "jira.example.com" },
			wantField: "url",
			wantTag:   "http_url",
			wantMsg:   "url must be a valid URL",
		},
		{
			name:      "negative timeout",
			mutate:    func(s *instanceSettings) { s.Timeout = -time.Second },
			wantField: "timeout",
			wantTag:   "gte",
			wantMsg:   "timeout must be greater than or equal to 0",
		},
		{
			name:      "unknown backend",
			mutate:    func(s *instanceSettings) { s.Backend = "disk" },
			wantField: "backend",
			wantTag:   "oneof",
			wantMsg:   "backend must be one of [memory redis]",
		},
		{
			name:      "untagged field uses go name",
			mutate:    func(s *instanceSettings) { s.Port = 0 },
			wantField: "Port",
			wantTag:   "min",
			wantMsg:   "Port must be at least 1",
		},
		{
			name:      "ignored json name uses go name",
			mutate:    func(s *instanceSettings) { s.Internal = "toolong" },
			wantField: "Internal",
			wantTag:   "max",
			wantMsg:   "Internal must be at most 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := validSettings()
			tt.mutate(&settings)

			validationErrors := requireValidationErrors(t, validator.New().Validate(settings))
			require.Len(t, validationErrors, 1)
			require.Equal(t, tt.wantField, validationErrors[0].Field)
			require.Equal(t, tt.wantTag, validationErrors[0].Tag)
			require.Equal(t, tt.wantMsg, validationErrors[0].Message)
		})
	}
}

func TestValidationErrors_ErrorJoinsMessages(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.URL = ""
	settings.Username = ""

	err := validator.New().Validate(settings)

	validationErrors := requireValidationErrors(t, err)
	require.Equal(t, []string{"url", "username"}, validationErrors.Fields())
	require.Equal(t, "url is required; username is required", err.Error())
}

func TestValidate_NonStructInput(t *testing.T) {
	t.Parallel()

	err := validator.New().Validate("not a struct")
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.False(t, errors.As(err, &validationErrors))
}

func TestRegisterCustomValidation(t *testing.T) {
	t.Parallel()

	type projectRef struct {
		Key string `json:"key" validate:"projectkey"`
	}

	v := validator.New()
	require.NoError(t, v.RegisterCustomValidation("projectkey", func(fl gvalidator.FieldLevel) bool {
		key := fl.Field().String()

		return key != "" && key == strings.ToUpper(key)
	}))

	require.NoError(t, v.Validate(projectRef{Key: "ABC"}))

	validationErrors := requireValidationErrors(t, v.Validate(projectRef{Key: "abc"}))
	require.Equal(t, "key failed validation on 'projectkey'", validationErrors[0].Message)
}
