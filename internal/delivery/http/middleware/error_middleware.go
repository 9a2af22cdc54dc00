package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// SECURITY: Never expose internal error details to clients.
			appErr = apperror.Internal(err)
		}

		if appErr.Code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request.Context(), "Request failed",
				"request_id", c.GetString("RequestID"),
				"path", c.FullPath(),
				"status", appErr.Code,
				"error", appErr.Err,
			)
		}
		response.Error(c, appErr.Code, appErr.Message, appErr.Fields)
	}
}
