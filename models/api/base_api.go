package apimodels

import (
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	apperrors "noblelift-backend/lib/utils/app-errors"
)

type ErrorBody struct {
	Code    string `json:"code"`              // код ошибки (not_found/conflict/...)
	Message string `json:"message"`           // сообщение ошибки
	Details any    `json:"details,omitempty"` // подробности (ошибки полей)
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func NewError(code apperrors.Code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    string(code),
			Message: message,
			Details: details,
		},
	}
}

type ListResponse struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"` // общее кол-во записей с учетом фильтра
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func NewListResponse(items any, total int64, page Pagination) ListResponse {
	return ListResponse{
		Items:  items,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

const (
	DefaultLimit      = 20
	MaxLimit          = 200
	AuditDefaultLimit = 50
	AuditMaxLimit     = 500
)

type Pagination struct {
	Limit  int // записей на странице
	Offset int // смещение
}

// Normalize приводит limit к [1..maxLimit], offset к >= 0
func (r Pagination) Normalize(defLimit, maxLimit int) Pagination {
	if r.Limit <= 0 {
		r.Limit = defLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	return r
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateStruct проверка тегов validate, ошибки полей уходят в details
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "ошибка валидации")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return apperrors.Validation("Validation failed", details)
}

// UploadFile загружаемый файл из multipart формы
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}
