package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeNetwork       ErrorCode = "NETWORK_ERROR"
	ErrCodeUpstream      ErrorCode = "UPSTREAM_ERROR"
)

// Сообщения, которые видит пользователь в уведомлении.
const (
	MsgConnection   = "error de conexión con el servidor, inténtalo de nuevo"
	MsgMissingToken = "no se encontró el token de autenticación, inicia sesión nuevamente"
	MsgGeneric      = "la operación no se pudo completar"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
	// Details дополнительные данные для клиента (например, доступные действия).
	Details map[string]any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails возвращает копию ошибки с дополнительными данными.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Network оборачивает ошибку транспорта (сервер недоступен, обрыв соединения).
func Network(err error) *AppError {
	return Wrap(err, ErrCodeNetwork, MsgConnection)
}

// FromUpstream переводит non-2xx ответ бэкенда в AppError.
// Сообщение бэкенда передаётся пользователю без изменений.
func FromUpstream(status int, message string) *AppError {
	message = strings.TrimSpace(message)

	var code ErrorCode
	switch {
	case status == http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = ErrCodeForbidden
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status == http.StatusConflict:
		code = ErrCodeConflict
	case status >= 400 && status < 500:
		code = ErrCodeValidation
	default:
		code = ErrCodeUpstream
	}

	if message == "" {
		message = MsgGeneric
	}

	httpStatus := status
	if status >= 500 || status < 400 {
		httpStatus = http.StatusBadGateway
	}

	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeNetwork, ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage возвращает текст для уведомления пользователю.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case ErrCodeInternal, ErrCodeDatabaseError:
			return MsgGeneric
		}
		return appErr.Message
	}
	return MsgConnection
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

func IsNetwork(err error) bool {
	return CodeOf(err) == ErrCodeNetwork
}

var (
	ErrOrderNotFound       = New(ErrCodeNotFound, "pedido no encontrado")
	ErrServiceNotFound     = New(ErrCodeNotFound, "servicio no encontrado")
	ErrRequirementNotFound = New(ErrCodeNotFound, "requerimiento no encontrado")
	ErrApplicationNotFound = New(ErrCodeNotFound, "postulación no encontrada")
	ErrUnauthorized        = New(ErrCodeUnauthorized, MsgMissingToken)
	ErrSessionExpired      = New(ErrCodeUnauthorized, "la sesión expiró, inicia sesión nuevamente")
	ErrForbidden           = New(ErrCodeForbidden, "no tienes permisos para esta acción")
	ErrActionInFlight      = New(ErrCodeConflict, "la acción ya está en curso")
)
