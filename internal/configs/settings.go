package configs

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	kerrors "github.com/PolarWolf314/gmprime/internal/errors"
)

// MaxVerbosity is the highest accepted debug threshold.
const MaxVerbosity = 20

// DefaultFileName is the settings file name used by `gmprime config init`.
const DefaultFileName = "gmprime.toml"

// Settings holds the values a settings file may set.
type Settings struct {
	Verbosity int  `toml:"verbosity" validate:"gte=0,lte=20"`
	Calc      bool `toml:"calc"`
	Progress  bool `toml:"progress"`
	Color     bool `toml:"color"`
}

var validate = validator.New()

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{}
}

// Validate checks the settings against their struct tags.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", kerrors.ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// LoadSettings reads and validates the settings file at path.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if err := LoadTOML(path, &s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
