package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dpalamar/contacts-api/internal/application"
	"github.com/dpalamar/contacts-api/internal/interface/middleware"
	"github.com/dpalamar/contacts-api/pkg/response"
	"github.com/dpalamar/contacts-api/pkg/validation"
)

// AuthHandler translates auth HTTP requests into AuthService calls.
type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing required name field", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailInUse) {
			response.Error[any](c, http.StatusConflict, "Email in use", nil)
			return
		}
		h.Logger.WithError(err).WithField("email", req.Email).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to register", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"email":        u.Email,
		"avatarURL":    u.AvatarURL,
		"subscription": u.Subscription,
	}, "user registered", nil)
}

// Verify GET /api/auth/verify/:token
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Param("token")
	if err := h.Svc.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "Not found", nil)
			return
		}
		h.Logger.WithError(err).Error("email verification failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to verify", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Verification successful", nil)
}

// ResendVerification POST /api/auth/verify
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing required field email", validation.ToDetails(err))
		return
	}

	err := h.Svc.ResendVerification(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		response.Success[any](c, http.StatusOK, nil, "Verification email sent", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, application.ErrAlreadyVerified):
		response.Error[any](c, http.StatusBadRequest, "Verification has already been passed", nil)
	default:
		h.Logger.WithError(err).WithField("email", req.Email).Error("resend verification failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to resend verification", nil)
	}
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing required name field", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password answer identically so the
		// response does not reveal which one was wrong.
		if errors.Is(err, application.ErrEmailNotVerified) {
			response.Error[any](c, http.StatusUnauthorized, "Email not verify", nil)
			return
		}
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "Email or password is wrong", nil)
			return
		}
		h.Logger.WithError(err).WithField("email", req.Email).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to login", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"email":        u.Email,
			"subscription": u.Subscription,
		},
	}, "login successful", nil)
}

// Current GET /api/auth/current
func (h *AuthHandler) Current(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Error[any](c, http.StatusUnauthorized, "Not authorized", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":        u.Email,
		"subscription": u.Subscription,
	}, "current user", nil)
}

// Logout GET /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("logout failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to logout", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Logout success", nil)
}

// UpdateAvatar PATCH /api/auth/avatars (multipart field "avatar")
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file avatar", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file avatar", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UpdateAvatar(c.Request.Context(), uid, f, fh.Filename)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("avatar update failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update avatar", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"avatarURL": url}, "avatar updated", nil)
}
