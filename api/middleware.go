package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/service/auth"
)

const userContextKey = "ticketdesk.user"

// RequireAuth resolves the Authorization bearer token to a user and aborts
// with 401 when it cannot.
func RequireAuth(authSvc auth.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			respondError(c, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized))
			c.Abort()
			return
		}
		user, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole gates a route group on the caller's role. Runs after
// RequireAuth.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, fmt.Errorf("not authenticated: %w", domain.ErrUnauthorized))
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, fmt.Errorf("role %s may not perform this action: %w", user.Role, domain.ErrForbidden))
		c.Abort()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
