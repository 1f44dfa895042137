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

// ContactModule wires the owner-scoped contact CRUD routes. Everything
// here requires a valid session.
type ContactModule struct {
	Handler *handlers.ContactHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewContactModule(h *handlers.ContactHandler, users repository.UserRepository, jwt *helpers.JWTManager) *ContactModule {
	return &ContactModule{Handler: h, Users: users, JWT: jwt}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	contacts.Use(middleware.Auth(m.Users, m.JWT))
	contacts.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		contacts.GET("", m.Handler.List)
		contacts.GET("/search", m.Handler.Search)
		contacts.GET("/:contactId", m.Handler.Get)
		contacts.POST("", m.Handler.Create)
		contacts.DELETE("/:contactId", m.Handler.Delete)
		contacts.PATCH("/:contactId", m.Handler.Update)
		contacts.PATCH("/:contactId/favorite", m.Handler.UpdateFavorite)
	}
}
