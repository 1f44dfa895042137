package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpalamar/contacts-api/internal/container"
	"github.com/dpalamar/contacts-api/internal/domain/repository"
	handlers "github.com/dpalamar/contacts-api/internal/interface/http"
	"github.com/dpalamar/contacts-api/internal/interface/middleware"
	"github.com/dpalamar/contacts-api/pkg/helpers"
)

// AuthModule wires auth HTTP handlers into routes.
// Public: register, login, verify-by-token, resend verification.
// Protected: current, logout, avatar update.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with per-IP rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	resendLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.GET("/auth/verify/:token", m.Handler.Verify)
	rg.POST("/auth/verify", resendLimiter, m.Handler.ResendVerification)

	// Protected
	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/current", m.Handler.Current)
		auth.GET("/logout", m.Handler.Logout)
		auth.PATCH("/avatars", m.Handler.UpdateAvatar)
	}
}
