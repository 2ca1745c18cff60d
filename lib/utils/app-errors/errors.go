package apperrors

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeBadRequest   Code = "bad_request"
	CodeForbidden    Code = "forbidden"
	CodeUnauthorized Code = "unauthorized"
	CodeValidation   Code = "validation_error"
	CodeIntegrity    Code = "integrity_error"
	CodeInternal     Code = "internal_error"
)

var httpStatusMap = map[Code]int{
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeBadRequest:   http.StatusBadRequest,
	CodeForbidden:    http.StatusForbidden,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeValidation:   http.StatusUnprocessableEntity,
	CodeIntegrity:    http.StatusBadRequest,
	CodeInternal:     http.StatusInternalServerError,
}

func (c Code) HTTPStatus() int {
	status, ok := httpStatusMap[c]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// Error ошибка прикладного уровня, отдается клиенту как есть
type Error struct {
	Code    Code
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func NotFound(message string) error {
	return New(CodeNotFound, message)
}

func Conflict(message string) error {
	return New(CodeConflict, message)
}

func BadRequest(message string) error {
	return New(CodeBadRequest, message)
}

func Forbidden(message string) error {
	return New(CodeForbidden, message)
}

func Unauthorized(message string) error {
	return New(CodeUnauthorized, message)
}

func Validation(message string, details any) error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// Classify приводит любую ошибку к прикладной; ok=false для внутренних ошибок
func Classify(err error) (appErr *Error, ok bool) {
	if err == nil {
		return nil, false
	}
	if errors.As(err, &appErr) {
		return appErr, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Code: CodeIntegrity, Message: "Integrity error"}, true
	}
	return &Error{Code: CodeInternal, Message: "Internal server error"}, false
}

func IsCode(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
