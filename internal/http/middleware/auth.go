package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// ContextSessionKey - ключ сессии в gin.Context.
const ContextSessionKey = "session"

// SessionAuth проверяет идентификатор сессии шлюза.
// Для WebSocket, где заголовок недоступен браузеру, используется параметр ?token=.
func SessionAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			raw = strings.TrimSpace(c.Query("token"))
		}
		if raw == "" {
			abortWithError(c, apperror.ErrUnauthorized)
			return
		}

		sess, err := sessions.Get(raw)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

// SessionFrom возвращает сессию, установленную SessionAuth.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

func bearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
