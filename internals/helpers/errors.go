package helper

import (
	stdErrors "errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = stdErrors.New("not found")
	ErrConflict     = stdErrors.New("conflict")
	ErrForbidden    = stdErrors.New("forbidden")
	ErrUnauthorized = stdErrors.New("unauthorized")
	ErrBadRequest   = stdErrors.New("bad request")
)

// FieldError names one offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Field + ": " + e.Fields[0].Message
}

func (e *ValidationError) Map() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

// NewFieldError builds a single-field validation error.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// NotFound and Conflict wrap the sentinels with a user-facing message.
func NotFound(msg string) error { return errors.WithMessage(ErrNotFound, msg) }
func Conflict(msg string) error { return errors.WithMessage(ErrConflict, msg) }
func Forbidden(msg string) error {
	return errors.WithMessage(ErrForbidden, msg)
}
func BadRequest(msg string) error { return errors.WithMessage(ErrBadRequest, msg) }
func Unauthorized(msg string) error { return errors.WithMessage(ErrUnauthorized, msg) }

// userMessage strips the trailing sentinel text from a WithMessage chain.
func userMessage(err error, sentinel error) string {
	msg := err.Error()
	msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	if msg == sentinel.Error() || msg == "" {
		return ""
	}
	return msg
}

// IsUniqueViolation detects duplicate keys on Postgres (23505) and SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if stdErrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "duplicate key value")
}

// IsCheckViolation detects CHECK constraint failures (23514 / SQLite).
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint failed")
}

// FromError maps a service error to the JSON envelope. Internals of unexpected errors never leak.
func FromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return JsonValidationError(c, ve.Map())
	}
	var fe *fiber.Error
	if stdErrors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	switch {
	case stdErrors.Is(err, ErrNotFound), stdErrors.Is(err, gorm.ErrRecordNotFound):
		msg := userMessage(err, ErrNotFound)
		if msg == "" {
			msg = "Data not found"
		}
		return JsonError(c, fiber.StatusNotFound, msg)
	case stdErrors.Is(err, ErrConflict):
		return JsonError(c, fiber.StatusConflict, userMessage(err, ErrConflict))
	case IsUniqueViolation(err):
		return JsonError(c, fiber.StatusConflict, "Duplicate data: a record with the same unique value already exists")
	case stdErrors.Is(err, ErrForbidden):
		return JsonError(c, fiber.StatusForbidden, userMessage(err, ErrForbidden))
	case stdErrors.Is(err, ErrUnauthorized):
		return JsonError(c, fiber.StatusUnauthorized, userMessage(err, ErrUnauthorized))
	case stdErrors.Is(err, ErrBadRequest):
		return JsonError(c, fiber.StatusBadRequest, userMessage(err, ErrBadRequest))
	}
	return JsonError(c, fiber.StatusInternalServerError, "Internal server error")
}
