package v1

import (
	"strconv"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the id stored by the auth middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(string(domain.KeyUserID))
	if id <= 0 {
		_ = c.Error(apperror.Unauthorized("User not authenticated"))
		return 0, false
	}
	return id, true
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperror.BadRequest("Invalid " + name))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}
