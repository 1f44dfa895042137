package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dpalamar/contacts-api/internal/domain/entity"
	"github.com/dpalamar/contacts-api/internal/domain/repository"
	"github.com/dpalamar/contacts-api/pkg/helpers"
	"github.com/dpalamar/contacts-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "currentUser"
)

// Auth validates the bearer token on protected routes. The token must
// parse, the referenced user must exist, and the presented token must
// equal the user's stored session token, so logout revokes access
// immediately rather than at expiry. The resolved user is attached to
// the Gin context on success.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		u, err := users.GetByID(claims.UserID)
		if err != nil || u == nil {
			abortUnauthorized(c)
			return
		}
		if u.Token != token {
			abortUnauthorized(c)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth, or nil outside a
// protected route.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context) {
	response.Error[any](c, http.StatusUnauthorized, "Not authorized", nil)
	c.Abort()
}
