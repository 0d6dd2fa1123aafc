package logging

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg *Config) error {
	const op errors.Op = "logging.validateConfig"
	if cfg == nil {
		return errors.New(op).Msg(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("severity", isSeverity)
		_ = validate.RegisterValidation("relpath", isRelPath)
	})

	if err := validate.Struct(cfg); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	return nil
}

func isSeverity(fl validator.FieldLevel) bool {
	_, err := ParseSeverity(fl.Field().String())
	return err == nil
}

// isRelPath accepts empty strings and relative paths that stay below their base.
func isRelPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == emptyString {
		return true
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return false
	}
	clean := filepath.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
