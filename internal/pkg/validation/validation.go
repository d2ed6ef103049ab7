// Package validation binds JSON bodies strictly and reports every failing
// field at once.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ministry-site/core/internal/pkg/response"
)

const bodyField = "body"

var setupOnce sync.Once

// Error carries the complete list of field failures.
type Error struct {
	Fields []response.FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Normalizer is implemented by DTOs that clean their input before validation.
type Normalizer interface {
	Normalize()
}

// New builds a single-field validation error.
func New(field, message string) *Error {
	return &Error{Fields: []response.FieldError{{Field: field, Message: message}}}
}

// BindJSON decodes the request body into dst rejecting unknown keys, then
// runs the binding tags of dst.
func BindJSON(c *gin.Context, dst interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return New(bodyField, "request body is required")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	return Struct(dst)
}

// Struct normalizes dst when supported and validates its binding tags.
func Struct(dst interface{}) error {
	setupOnce.Do(registerJSONNames)
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	err := binding.Validator.ValidateStruct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, response.FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return &Error{Fields: fields}
	}
	return New(bodyField, err.Error())
}

// Fields extracts field errors from err, wrapping foreign errors as a body error.
func Fields(err error) []response.FieldError {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return []response.FieldError{{Field: bodyField, Message: err.Error()}}
}

func registerJSONNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

func decodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return New(bodyField, "request body is required")
	case errors.As(err, &maxBytesErr):
		return New(bodyField, "request body too large")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return New(bodyField, "malformed JSON")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = bodyField
		}
		return New(field, "must be a "+typeErr.Type.String())
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return New(field, "is not an allowed field")
	default:
		return New(bodyField, err.Error())
	}
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
