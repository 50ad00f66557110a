package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/logger"
)

const HeaderWebhookSecret = "X-Webhook-Secret"

// WebhookSecret guards collaborator callbacks with a shared secret. An empty
// secret disables the route entirely.
func WebhookSecret(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(HeaderWebhookSecret)

		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			log.Warn("webhook verification failed",
				"request_id", RequestIDFrom(c),
				"path", c.Request.URL.Path,
				"remote_addr", c.ClientIP(),
			)
			c.Abort()
			httperr.Unauthorized(c, "invalid_webhook_secret", "Credencial do webhook inválida.")
			return
		}

		c.Next()
	}
}
