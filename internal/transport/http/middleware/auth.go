package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/model"
	"postboard/internal/transport/http/response"
)

const ContextUserKey = "current_user"

type IdentityResolver interface {
	ResolveFromToken(ctx context.Context, token string) (*model.User, error)
}

// RequireUser resolves "Authorization: Bearer <token>" to an active user and stores it on the context.
func RequireUser(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "not authenticated")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "invalid authorization scheme")
			return
		}

		user, err := resolver.ResolveFromToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, app.ErrInactiveUser):
				response.Unauthorized(c, response.CodeInactiveUser, err.Error())
			case errors.Is(err, app.ErrInvalidCredential):
				response.Unauthorized(c, response.CodeInvalidCredentials, "could not validate credentials")
			default:
				response.Error(c, 500, response.CodeInternalServer, "resolve user failed")
				c.Abort()
			}
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}
