package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps how much of a request body is read
const maxBodyBytes = 1 << 20

// ErrInvalidBody is returned when the request body is not a JSON object
var ErrInvalidBody = errors.New("invalid request body")

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldKind is the JSON kind a request field must have
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindInteger
	KindStringArray
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindStringArray:
		return "array of strings"
	default:
		return "unknown"
	}
}

// Schema maps JSON field names to the kind each must have when present
type Schema map[string]FieldKind

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failing field of one request
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failing field paths in order
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, e := range v {
		fields = append(fields, e.Field)
	}
	return fields
}

// Messages returns the messages parallel to Fields
func (v ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, e.Message)
	}
	return messages
}

// ValidateRequest validates a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes the JSON body into v and validates it.
// Every failing field is collected; the result is ErrInvalidBody or a ValidationErrors.
func DecodeAndValidate(r *http.Request, schema Schema, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return ErrInvalidBody
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ErrInvalidBody
	}

	errs := checkKinds(raw, schema)
	reported := make(map[string]bool, len(errs))
	for _, e := range errs {
		reported[e.Field] = true
	}

	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return ErrInvalidBody
		}
		// Fields outside the schema can still carry the wrong type.
		if field := typeErr.Field; field != "" && !reported[rootField(field)] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%s has an invalid type", field)})
			reported[rootField(field)] = true
		}
	}

	if err := ValidateRequest(v); err != nil {
		for _, e := range FormatValidationErrors(err) {
			if reported[rootField(e.Field)] {
				continue
			}
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// checkKinds reports every present field whose JSON kind does not match the schema
func checkKinds(raw map[string]json.RawMessage, schema Schema) ValidationErrors {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs ValidationErrors
	for _, name := range names {
		value, ok := raw[name]
		if !ok || string(value) == "null" {
			continue
		}

		kind := schema[name]
		if !hasKind(value, kind) {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: fmt.Sprintf("%s must be a `%s` type", name, kind),
			})
		}
	}

	return errs
}

func hasKind(value json.RawMessage, kind FieldKind) bool {
	switch kind {
	case KindString:
		var s string
		return json.Unmarshal(value, &s) == nil
	case KindNumber:
		var f float64
		return json.Unmarshal(value, &f) == nil
	case KindInteger:
		var i int64
		return json.Unmarshal(value, &i) == nil
	case KindStringArray:
		var s []string
		return json.Unmarshal(value, &s) == nil
	default:
		return false
	}
}

// rootField strips index and nested parts from a field path, "images[0]" becomes "images"
func rootField(field string) string {
	if i := strings.IndexAny(field, "[."); i >= 0 {
		return field[:i]
	}
	return field
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return field + " is a required field"
	case "min":
		return field + " must have at least " + e.Param() + " " + unit(e.Kind())
	case "max":
		return field + " must have at most " + e.Param() + " " + unit(e.Kind())
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "lt":
		return field + " must be less than " + e.Param()
	default:
		return field + " is invalid"
	}
}

func unit(kind reflect.Kind) string {
	if kind == reflect.Slice || kind == reflect.Array {
		return "items"
	}
	return "characters"
}
