package dto

import (
	"strings"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
)

// fieldSet collects the non-nil fields of a patch under their stored names.
type fieldSet map[string]any

func (f fieldSet) str(key string, v *string) {
	if v != nil {
		f[key] = strings.TrimSpace(*v)
	}
}

func (f fieldSet) amount(key string, v *Amount) {
	if v != nil {
		f[key] = v.Float()
	}
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValidationError(name + " is required")
	}
	return nil
}

func nonNegative(name string, v Amount) error {
	if v < 0 {
		return errs.NewValidationError(name + " must not be negative")
	}
	return nil
}

func nonNegativePtr(name string, v *Amount) error {
	if v == nil {
		return nil
	}
	return nonNegative(name, *v)
}
