package auth

import (
	"context"
	"strings"
	"time"

	"github.com/ignatzorin/campus-gateway/internal/action"
	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
	"github.com/ignatzorin/campus-gateway/internal/validation"
)

// Result итог шага входа: либо запрос кода, либо открытая сессия.
type Result struct {
	Requires2FA bool         `json:"requiere_2fa"`
	Message     string       `json:"mensaje,omitempty"`
	SessionID   string       `json:"session_id,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	User        *entity.User `json:"usuario,omitempty"`
}

type UseCase struct {
	repo     repository.AuthRepository
	sessions *session.Manager
}

func NewUseCase(repo repository.AuthRepository, sessions *session.Manager) *UseCase {
	return &UseCase{repo: repo, sessions: sessions}
}

func validationError(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
}

// Login отправляет учётные данные. Если бэкенд требует код, сессия не открывается.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Result, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidateNonEmpty("la contraseña", password); err != nil {
		return nil, validationError(err)
	}

	res, err := uc.repo.Login(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, err
	}
	return uc.complete(res)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Career   string
}

func (uc *UseCase) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if err := validation.ValidateLength("el nombre", strings.TrimSpace(input.Name), validation.MinNameLength, validation.MaxNameLength); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, validationError(err)
	}
	switch valueobject.Role(input.Role) {
	case valueobject.RoleStudent, valueobject.RoleClient:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "rol inválido")
	}

	res, err := uc.repo.Register(ctx, repository.RegisterInput{
		Name:     input.Name,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: input.Password,
		Role:     input.Role,
		Career:   strings.TrimSpace(input.Career),
	})
	if err != nil {
		return nil, err
	}
	return uc.complete(res)
}

// VerifyCode завершает вход кодом из письма.
func (uc *UseCase) VerifyCode(ctx context.Context, email, code string) (*Result, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidateVerificationCode(code); err != nil {
		return nil, validationError(err)
	}

	res, err := uc.repo.VerifyCode(ctx, strings.ToLower(strings.TrimSpace(email)), code)
	if err != nil {
		return nil, err
	}
	if res.Requires2FA {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "código de verificación inválido")
	}
	return uc.complete(res)
}

func (uc *UseCase) complete(res *repository.AuthResult) (*Result, error) {
	if res.Requires2FA {
		return &Result{Requires2FA: true, Message: res.Message}, nil
	}

	s, err := uc.sessions.Init(res.Token, res.User)
	if err != nil {
		return nil, err
	}
	user := s.User()
	expires := s.ExpiresAt

	logger.Component("auth").WithField("user_id", user.ID).Info("auth: вход выполнен")
	return &Result{
		SessionID: s.ID.String(),
		ExpiresAt: &expires,
		User:      &user,
	}, nil
}

type ProfileInput struct {
	Name   string
	Career string
}

// UpdateProfile сохраняет профиль на бэкенде и обновляет пользователя сессии.
// Роль и почта берутся из сессии: профиль их не меняет.
func (uc *UseCase) UpdateProfile(ctx context.Context, s *session.Session, input ProfileInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	if err := validation.ValidateLength("el nombre", name, validation.MinNameLength, validation.MaxNameLength); err != nil {
		return nil, validationError(err)
	}

	var updated *entity.User
	key := action.Key("user", s.UserID(), "profile")
	err := s.Actions.Run(ctx, key, func(ctx context.Context) error {
		u, err := uc.repo.UpdateProfile(ctx, s.Token, repository.ProfileInput{
			Name:   name,
			Career: strings.TrimSpace(input.Career),
		})
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	current := s.User()
	user := *updated
	user.ID = current.ID
	user.Role = current.Role
	if user.Email == "" {
		user.Email = current.Email
	}
	if err := uc.sessions.UpdateUser(s.ID, user); err != nil {
		return nil, err
	}

	logger.Component("auth").WithField("user_id", user.ID).Info("auth: профиль обновлён")
	return &user, nil
}

// Logout закрывает сессию: останавливаются наблюдатели и очищается состояние экранов.
func (uc *UseCase) Logout(s *session.Session) {
	uc.sessions.Teardown(s.ID)
}
