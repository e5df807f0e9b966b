package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

type loginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

type registerRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
	Role     string `json:"rol"`
	Career   string `json:"carrera,omitempty"`
}

type verifyRequest struct {
	Email string `json:"correo"`
	Code  string `json:"codigo"`
}

type profileRequest struct {
	Name   string `json:"nombre"`
	Career string `json:"carrera"`
}

type authResponse struct {
	Requires2FA bool         `json:"requiere_2fa"`
	Message     string       `json:"mensaje"`
	Token       string       `json:"token"`
	User        *entity.User `json:"usuario"`
}

func (c *Client) Auth() *AuthAPI {
	return &AuthAPI{c: c}
}

type AuthAPI struct {
	c *Client
}

var _ repository.AuthRepository = (*AuthAPI)(nil)

// Login POST /api/auth/login. Бэкенд может запросить код подтверждения.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*repository.AuthResult, error) {
	return a.call(ctx, "auth_login", "/api/auth/login", loginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
}

// Register POST /api/auth/registro.
func (a *AuthAPI) Register(ctx context.Context, input repository.RegisterInput) (*repository.AuthResult, error) {
	return a.call(ctx, "auth_register", "/api/auth/registro", registerRequest{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
		Role:     input.Role,
		Career:   input.Career,
	})
}

// VerifyCode POST /api/auth/verificar-2fa.
func (a *AuthAPI) VerifyCode(ctx context.Context, email, code string) (*repository.AuthResult, error) {
	return a.call(ctx, "auth_verify", "/api/auth/verificar-2fa", verifyRequest{
		Email: strings.TrimSpace(email),
		Code:  strings.TrimSpace(code),
	})
}

// UpdateProfile PUT /api/usuarios/perfil. Возвращает обновлённого пользователя.
func (a *AuthAPI) UpdateProfile(ctx context.Context, token string, input repository.ProfileInput) (*entity.User, error) {
	var out *entity.User
	err := a.c.do(ctx, request{
		operation:    "profile_update",
		method:       http.MethodPut,
		path:         "/api/usuarios/perfil",
		token:        token,
		authRequired: true,
		body: profileRequest{
			Name:   strings.TrimSpace(input.Name),
			Career: strings.TrimSpace(input.Career),
		},
		out: &out,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperror.New(apperror.ErrCodeUpstream, "respuesta del perfil vacía")
	}
	return out, nil
}

func (a *AuthAPI) call(ctx context.Context, operation, path string, body any) (*repository.AuthResult, error) {
	var out authResponse
	err := a.c.do(ctx, request{
		operation: operation,
		method:    http.MethodPost,
		path:      path,
		body:      body,
		out:       &out,
	})
	if err != nil {
		return nil, err
	}
	if !out.Requires2FA && out.Token == "" {
		return nil, apperror.New(apperror.ErrCodeUpstream, "respuesta de autenticación sin token")
	}
	return &repository.AuthResult{
		Requires2FA: out.Requires2FA,
		Message:     out.Message,
		Token:       out.Token,
		User:        out.User,
	}, nil
}
