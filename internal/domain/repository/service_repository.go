package repository

import (
	"context"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
)

type ServiceRepository interface {
	List(ctx context.Context, token string, filter ServiceFilter) ([]*entity.Service, error)
	GetByID(ctx context.Context, token string, id int64) (*entity.Service, error)
	SetArchived(ctx context.Context, token string, id int64, archived bool) error
}

type ServiceFilter struct {
	Mine         bool
	ShowArchived bool
}

// AuthRepository - вход и регистрация на бэкенде (с подтверждением кодом).
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	VerifyCode(ctx context.Context, email, code string) (*AuthResult, error)
	UpdateProfile(ctx context.Context, token string, input ProfileInput) (*entity.User, error)
}

type ProfileInput struct {
	Name   string
	Career string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Career   string
}

// AuthResult: либо Requires2FA, либо Token с пользователем.
type AuthResult struct {
	Requires2FA bool
	Message     string
	Token       string
	User        *entity.User
}
