// Package validation turns gin binding failures into field-level errors.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"promptpilot/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError names one violated field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of violations found in one request.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Is lets callers match with errors.Is(err, models.ErrValidation).
func (e *Errors) Is(target error) bool { return target == models.ErrValidation }

// Field returns the message for name, if that field failed.
func (e *Errors) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

// New builds an Errors value for a single field.
func New(field, message string) *Errors {
	return &Errors{Fields: []FieldError{{Field: field, Message: message}}}
}

// messages holds the human-readable text per "field.tag"; the generic text per
// tag is used when a field has no entry.
var messages = map[string]string{
	"model.required":  "Model ID is required",
	"model.min":       "Model ID is required",
	"prompt.required": "Prompt must be at least 5 characters long",
	"prompt.min":      "Prompt must be at least 5 characters long",
	"goal.required":   "Goal must be at least 5 characters long",
	"goal.min":        "Goal must be at least 5 characters long",
	"max_tokens.gt":   "max_tokens must be a positive integer",
	"temperature.gte": "temperature must be between 0 and 2",
	"temperature.lte": "temperature must be between 0 and 2",
	"top_p.gte":       "top_p must be between 0 and 1",
	"top_p.lte":       "top_p must be between 0 and 1",
	"category.oneof":  "category must be one of chat, code, reasoning, writing, multimodal",
	"email.required":  "Valid email is required",
	"email.email":     "Valid email is required",
	"id.required":     "Missing prompt ID",
	"limit.gt":        "limit must be a positive integer",
	"offset.gte":      "offset must not be negative",
}

func init() {
	// Report JSON (or form) names instead of Go field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// BindJSON decodes and validates the request body into dst. Any failure is
// returned as *Errors.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return FromBindingError(err)
	}
	return nil
}

// BindQuery decodes and validates query parameters into dst.
func BindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return FromBindingError(err)
	}
	return nil
}

// FromBindingError converts decoder and validator errors into *Errors.
func FromBindingError(err error) *Errors {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &Errors{}
		seen := map[string]bool{}
		for _, fe := range verrs {
			field := fe.Field()
			if seen[field] {
				continue
			}
			seen[field] = true
			out.Fields = append(out.Fields, FieldError{Field: field, Message: messageFor(field, fe)})
		}
		sort.SliceStable(out.Fields, func(i, j int) bool { return out.Fields[i].Field < out.Fields[j].Field })
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return New(field, fmt.Sprintf("expected %s", typeErr.Type.String()))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return New("body", "Request body must be valid JSON")
	}

	return New("body", err.Error())
}

func messageFor(field string, fe validator.FieldError) string {
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
