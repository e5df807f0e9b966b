package common

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/http/middleware"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// CurrentSession извлекает сессию, установленную middleware.SessionAuth.
func CurrentSession(c *gin.Context) (*session.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return sess, nil
}

// ParseIDParam читает целочисленный идентификатор из пути.
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.ErrCodeBadRequest, "el parámetro "+name+" debe ser un identificador válido")
	}
	return id, nil
}

// BindJSON разбирает тело запроса.
func BindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "datos de la solicitud inválidos")
	}
	return nil
}

// ParseBoolQuery возвращает значение и признак того, что параметр передан.
func ParseBoolQuery(c *gin.Context, key string) (value, present bool) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// ParseIntQuery читает целочисленный параметр с запасным значением.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// RespondError отправляет ошибку в едином формате.
func RespondError(c *gin.Context, err error) {
	status, body := middleware.Render(err)
	c.JSON(status, body)
}

func RespondJSON(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// SuccessResponse - ответ на изменяющее действие.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
