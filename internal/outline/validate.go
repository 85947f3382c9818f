package outline

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cursolab/authoring-api/internal/models"
)

// RegisterTagNames makes the validator report field paths using json tag
// names, so per-field errors match the wire shape the presentation layer
// renders against.
func RegisterTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
}

// Validate applies the submission validation policy. Draft submissions bypass
// validation entirely so incomplete work can be saved; published submissions
// require the full field set. Returned errors are per-field so the author can
// fix exactly the offending input.
func (e *Editor) Validate(v *validator.Validate, status models.CourseStatus) []models.FieldError {
	if status != models.StatusPublished {
		return nil
	}
	payload := e.Serialize(status)
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.FieldError{{Field: "", Message: err.Error()}}
	}
	fieldErrs := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return fieldErrs
}

// fieldPath strips the root struct name from a validator namespace, turning
// "CreateCourseRequest.modules[0].lessons[1].title" into
// "modules[0].lessons[1].title".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return "must be non-negative"
	case "numeric":
		return "must be a decimal number"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
