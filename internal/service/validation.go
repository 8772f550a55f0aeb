package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

// unitOfWork runs fn inside a single transaction; see database.Store.
type unitOfWork interface {
	WithinTx(ctx context.Context, op string, fn func(ctx context.Context) error) error
}

// NewValidator returns a validator that reports fields by their JSON name and understands
// the nullable model types.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if n, ok := field.Interface().(models.NullInt); ok && n.Valid {
			return n.Int64
		}
		return nil
	}, models.NullInt{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if n, ok := field.Interface().(models.NullText); ok && n.Valid {
			return n.String
		}
		return nil
	}, models.NullText{})
	return v
}

// validationError turns a validator failure into a 400 listing the offending fields.
// Absent required fields take precedence over malformed ones.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"Campos obrigatórios ausentes: "+strings.Join(missing, ", "))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
		"Valores inválidos: "+strings.Join(invalid, ", "))
}
