package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims данные из токена бэкенда маркетплейса.
type Claims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

var errNoSubject = errors.New("claims: sub отсутствует")

// ParseClaims читает клеймы токена. Если secret задан, подпись HS256 проверяется,
// иначе токен разбирается без проверки (авторитетом остаётся бэкенд).
func ParseClaims(token, secret string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}

	if secret != "" {
		parsed, err := jwt.ParseWithClaims(token, mapClaims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return nil, fmt.Errorf("claims: parse: %w", err)
		}
		if !parsed.Valid {
			return nil, jwt.ErrTokenInvalidClaims
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
			return nil, fmt.Errorf("claims: parse unverified: %w", err)
		}
	}

	userID, err := subjectID(mapClaims)
	if err != nil {
		return nil, err
	}

	claims := &Claims{UserID: userID}
	for _, key := range []string{"rol", "role"} {
		if role, ok := mapClaims[key].(string); ok && role != "" {
			claims.Role = role
			break
		}
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("claims: exp: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// subjectID: бэкенд кладёт id пользователя в sub (строкой или числом) либо в id.
func subjectID(claims jwt.MapClaims) (int64, error) {
	for _, key := range []string{"sub", "id"} {
		switch v := claims[key].(type) {
		case float64:
			return int64(v), nil
		case string:
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("claims: %s: %w", key, err)
			}
			return id, nil
		}
	}
	return 0, errNoSubject
}
