package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

// IDValidator проверяет, что параметры пути - положительные целые идентификаторы.
// Использование: router.GET("/orders/:id", IDValidator("id"), handler.GetOrder)
func IDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				abortWithError(c, apperror.New(apperror.ErrCodeBadRequest, "el parámetro "+name+" es obligatorio"))
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				abortWithError(c, apperror.New(apperror.ErrCodeBadRequest, "el parámetro "+name+" debe ser un identificador válido"))
				return
			}
		}
		c.Next()
	}
}
