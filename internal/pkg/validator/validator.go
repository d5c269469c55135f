package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/entity"
	playground "github.com/go-playground/validator/v10"
)

// Validator checks request bodies and uploaded files.
type Validator struct {
	cfg      config.FileUploadConfig
	validate *playground.Validate
}

func New(cfg config.FileUploadConfig) *Validator {
	validate := playground.New(playground.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		cfg:      cfg,
		validate: validate,
	}
}

// Struct validates s by its `validate` tags. The first failing field is
// reported as entity.ErrMissingField or entity.ErrInvalidParameter.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", entity.ErrInvalidParameter, err)
	}

	fe := fieldErrs[0]
	field := fieldPath(fe.Namespace())
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, field)
	}
	if fe.Param() != "" {
		return fmt.Errorf("%w: %s must satisfy %s=%s", entity.ErrInvalidParameter, field, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %s must satisfy %s", entity.ErrInvalidParameter, field, fe.Tag())
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
