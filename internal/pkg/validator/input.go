package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/futig/permitcheck/internal/entity"
	playground "github.com/go-playground/validator/v10"
)

// ValidateProject checks a normalized ProjectInput.
func (v *Validator) ValidateProject(p *entity.ProjectInput) error {
	if p == nil {
		return fmt.Errorf("%w: project_data", entity.ErrMissingField)
	}

	err := v.structs.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	fe := fieldErrs[0]
	field := toSnakeCase(fe.Field())
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: %s", entity.ErrMissingField, field)
	}
	return fmt.Errorf("%w: %s must be one of [%s], got %q", entity.ErrInvalidParameter, field, fe.Param(), fe.Value())
}

func (v *Validator) ValidateVisual(req *entity.GenerateVisualRequest) error {
	if !req.VisualType.IsValid() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidVisualType, req.VisualType)
	}
	return nil
}

func (v *Validator) ValidateExportKind(kind entity.ExportKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q (allowed: pdf, docx, checklist)", entity.ErrInvalidExportKind, kind)
	}
	return nil
}

func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
