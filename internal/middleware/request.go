package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/logger"
)

const (
	ContextRequestID = "requestID"
	HeaderRequestID  = "X-Request-ID"
)

// RequestID keeps an incoming X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}

func RequestLogging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"request_id", RequestIDFrom(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if actor := ActorFrom(c); actor.Authenticated() {
			args = append(args, "user_id", actor.UserID)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
			log.Error("HTTP request failed", args...)
			return
		}

		log.Info("HTTP request completed", args...)
	}
}

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					"request_id", RequestIDFrom(c),
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.HTTPError{
					Code:    "internal_error",
					Message: "Erro interno.",
				})
			}
		}()

		c.Next()
	}
}
