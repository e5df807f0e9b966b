package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/repository"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/campus-gateway/internal/session"
	"github.com/ignatzorin/campus-gateway/internal/usecase/auth"
)

type mockAuthRepository struct {
	mock.Mock
}

func (m *mockAuthRepository) Login(ctx context.Context, email, password string) (*repository.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AuthResult), args.Error(1)
}

func (m *mockAuthRepository) Register(ctx context.Context, input repository.RegisterInput) (*repository.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AuthResult), args.Error(1)
}

func (m *mockAuthRepository) VerifyCode(ctx context.Context, email, code string) (*repository.AuthResult, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AuthResult), args.Error(1)
}

func (m *mockAuthRepository) UpdateProfile(ctx context.Context, token string, input repository.ProfileInput) (*entity.User, error) {
	args := m.Called(ctx, token, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func upstreamToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"rol": "cliente",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("x"))
	require.NoError(t, err)
	return token
}

func TestLogin_TwoFactorFlow(t *testing.T) {
	repo := new(mockAuthRepository)
	sessions := session.NewManager(context.Background(), time.Hour, "")
	uc := auth.NewUseCase(repo, sessions)

	repo.On("Login", mock.Anything, "ana@uni.edu", "secret").
		Return(&repository.AuthResult{Requires2FA: true, Message: "Código enviado"}, nil)
	repo.On("VerifyCode", mock.Anything, "ana@uni.edu", "123456").
		Return(&repository.AuthResult{Token: upstreamToken(t, 5), User: &entity.User{ID: 5, Name: "Ana"}}, nil)

	res, err := uc.Login(context.Background(), "Ana@Uni.edu", "secret")
	require.NoError(t, err)
	assert.True(t, res.Requires2FA)
	assert.Empty(t, res.SessionID)
	assert.Equal(t, 0, sessions.Count())

	res, err = uc.VerifyCode(context.Background(), "ana@uni.edu", "123456")
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.Equal(t, "cliente", res.User.Role)

	s, err := sessions.Get(res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), s.UserID())

	uc.Logout(s)
	_, err = sessions.Get(res.SessionID)
	assert.Error(t, err)
}

func TestLogin_Validation(t *testing.T) {
	repo := new(mockAuthRepository)
	uc := auth.NewUseCase(repo, session.NewManager(context.Background(), time.Hour, ""))

	_, err := uc.Login(context.Background(), "not-an-email", "x")
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.VerifyCode(context.Background(), "ana@uni.edu", "12")
	assert.True(t, apperror.IsValidation(err))

	repo.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_BackendRejects(t *testing.T) {
	repo := new(mockAuthRepository)
	uc := auth.NewUseCase(repo, session.NewManager(context.Background(), time.Hour, ""))

	repo.On("Login", mock.Anything, "ana@uni.edu", "wrong").
		Return(nil, apperror.FromUpstream(401, "Credenciales inválidas"))

	_, err := uc.Login(context.Background(), "ana@uni.edu", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", apperror.UserMessage(err))
}

func TestRegister(t *testing.T) {
	repo := new(mockAuthRepository)
	uc := auth.NewUseCase(repo, session.NewManager(context.Background(), time.Hour, ""))

	repo.On("Register", mock.Anything, repository.RegisterInput{
		Name:     "Luis",
		Email:    "luis@uni.edu",
		Password: "secret1",
		Role:     "estudiante",
		Career:   "Sistemas",
	}).Return(&repository.AuthResult{Requires2FA: true}, nil)

	res, err := uc.Register(context.Background(), auth.RegisterInput{
		Name:     "Luis",
		Email:    "luis@uni.edu",
		Password: "secret1",
		Role:     "estudiante",
		Career:   " Sistemas ",
	})
	require.NoError(t, err)
	assert.True(t, res.Requires2FA)

	_, err = uc.Register(context.Background(), auth.RegisterInput{Name: "Luis", Email: "luis@uni.edu", Password: "secret1", Role: "admin"})
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNumberOfCalls(t, "Register", 1)
}

func TestUpdateProfile_RefreshesSessionUser(t *testing.T) {
	repo := new(mockAuthRepository)
	sessions := session.NewManager(context.Background(), time.Hour, "")
	uc := auth.NewUseCase(repo, sessions)

	token := upstreamToken(t, 5)
	s, err := sessions.Init(token, &entity.User{ID: 5, Name: "Ana", Email: "ana@uni.edu"})
	require.NoError(t, err)

	repo.On("UpdateProfile", mock.Anything, token, repository.ProfileInput{Name: "Ana María", Career: "Diseño"}).
		Return(&entity.User{Name: "Ana María", Career: "Diseño", Role: "admin"}, nil).Once()

	user, err := uc.UpdateProfile(context.Background(), s, auth.ProfileInput{Name: " Ana María ", Career: "Diseño "})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", user.Name)

	got, err := sessions.Get(s.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.User().Name)
	assert.Equal(t, "Diseño", got.User().Career)
	assert.Equal(t, "ana@uni.edu", got.User().Email)
	assert.Equal(t, "cliente", got.User().Role)
	assert.Equal(t, int64(5), got.UserID())
}

func TestUpdateProfile_FailureKeepsUser(t *testing.T) {
	repo := new(mockAuthRepository)
	sessions := session.NewManager(context.Background(), time.Hour, "")
	uc := auth.NewUseCase(repo, sessions)

	s, err := sessions.Init(upstreamToken(t, 5), &entity.User{ID: 5, Name: "Ana"})
	require.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), s, auth.ProfileInput{Name: "A"})
	assert.True(t, apperror.IsValidation(err))

	repo.On("UpdateProfile", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperror.FromUpstream(400, "nombre inválido"))
	_, err = uc.UpdateProfile(context.Background(), s, auth.ProfileInput{Name: "Ana María"})
	require.Error(t, err)
	assert.Equal(t, "Ana", s.User().Name)
	repo.AssertNumberOfCalls(t, "UpdateProfile", 1)
}
