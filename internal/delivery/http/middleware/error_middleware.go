package middleware

import (
	"errors"

	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the error member of a failed response.
type ErrorBody struct {
	Kind apperror.Kind `json:"kind"`
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		// Internal details stay in the logs
		if appErr.Kind == apperror.KindInternal {
			logger.Log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDKey)),
			)
		}

		response.Error(c, appErr.Code, appErr.Message, ErrorBody{Kind: appErr.Kind})
	}
}

// abort records err for ErrorHandler and stops the chain.
func abort(c *gin.Context, err *apperror.AppError) {
	_ = c.Error(err)
	c.Abort()
}

// Recovery renders panics as internal errors in the standard envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
		)
		internal := apperror.Internal(nil)
		response.Error(c, internal.Code, internal.Message, ErrorBody{Kind: internal.Kind})
		c.Abort()
	})
}
