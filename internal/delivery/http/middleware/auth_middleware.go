package middleware

import (
	"errors"
	"strings"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

var userIDKey = string(domain.KeyUserID)

// AuthMiddleware verifies the bearer token and stores the caller identity.
// Downstream handlers read the id with c.GetInt64(string(domain.KeyUserID)).
func AuthMiddleware(tokens auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		scheme, tokenString, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			abort(c, apperror.Unauthorized("Authorization header required"))
			return
		}

		// 2. Verify
		identity, err := tokens.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abort(c, apperror.Unauthorized("Token expired"))
				return
			}
			abort(c, apperror.Unauthorized("Invalid token"))
			return
		}

		// 3. Store identity
		c.Set(userIDKey, identity.UserID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserType), identity.UserType)

		c.Next()
	}
}
