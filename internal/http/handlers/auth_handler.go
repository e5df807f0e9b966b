package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-gateway/internal/http/handlers/common"
	authuc "github.com/ignatzorin/campus-gateway/internal/usecase/auth"
)

// AuthHandler обслуживает вход, регистрацию и подтверждение кодом.
type AuthHandler struct {
	actionResponder
	auth *authuc.UseCase
}

func NewAuthHandler(toasts Toaster, auth *authuc.UseCase) *AuthHandler {
	return &AuthHandler{
		actionResponder: actionResponder{toasts: toasts},
		auth:            auth,
	}
}

type loginRequest struct {
	Email    string `json:"correo" binding:"required"`
	Password string `json:"contrasena" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"nombre" binding:"required"`
	Email    string `json:"correo" binding:"required"`
	Password string `json:"contrasena" binding:"required"`
	Role     string `json:"rol" binding:"required"`
	Career   string `json:"carrera"`
}

type verifyRequest struct {
	Email string `json:"correo" binding:"required"`
	Code  string `json:"codigo" binding:"required"`
}

type profileRequest struct {
	Name   string `json:"nombre" binding:"required"`
	Career string `json:"carrera"`
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, res)
}

// Register обрабатывает POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), authuc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Career:   req.Career,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, res)
}

// VerifyCode обрабатывает POST /api/auth/verify-2fa.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req verifyRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	res, err := h.auth.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, res)
}

// Logout обрабатывает POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	h.auth.Logout(sess)
	common.RespondNoContent(c)
}

// Me обрабатывает GET /api/me.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{
		"usuario":    sess.User(),
		"expires_at": sess.ExpiresAt,
	})
}

// UpdateProfile обрабатывает PUT /api/me.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	sess, err := common.CurrentSession(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	var req profileRequest
	if err := common.BindJSON(c, &req); err != nil {
		h.fail(c, sess, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), sess, authuc.ProfileInput{
		Name:   req.Name,
		Career: req.Career,
	})
	if err != nil {
		h.fail(c, sess, err)
		return
	}
	h.succeed(c, sess, http.StatusOK, "Perfil actualizado", user)
}
