package api

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// newValidator builds the validator used for pre-flight request checks.
// Violation paths come from json tags so they match the wire shape the
// server validates against.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		return nil
	}
	return v
}

// validateSlug accepts lowercase URL slugs: letters, digits, hyphens.
func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// validateRequest runs pre-flight validation on a request body. Nil and
// non-struct bodies pass untouched; the server stays the authority for
// anything the tags do not cover.
func (c *Client) validateRequest(op string, body any) *Error {
	if body == nil || c.validate == nil {
		return nil
	}

	err := c.validate.Struct(body)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return newValidationError(op, violationsFrom(verrs))
	}

	// Not a struct, nothing to check client-side.
	return nil
}

// violationsFrom converts validator errors into wire-shaped violations.
func violationsFrom(verrs validator.ValidationErrors) []Violation {
	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{
			Path:    fieldPath(fe),
			Message: violationMessage(fe),
		})
	}
	return out
}

// fieldPath strips the enclosing struct name from the namespace, leaving a
// JSON path like "price.currency".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "gte":
		return "must be " + fe.Param() + " or more"
	case "lte":
		return "must be " + fe.Param() + " or less"
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "datetime":
		return "must be a valid date"
	case "slug":
		return "must contain only lowercase letters, digits, and hyphens"
	default:
		return "failed validation"
	}
}
