package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SecretTokenHeader carries the shared secret set on the transport gateway's webhook
const SecretTokenHeader = "X-Bot-Api-Secret-Token"

// WebhookSecret returns an Echo middleware that rejects requests without the shared secret.
// An empty secret disables the check.
func WebhookSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(c echo.Context) error {
			token := c.Request().Header.Get(SecretTokenHeader)
			if token == "" {
				return unauthorizedError(c, "Missing secret token header")
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Warn().
					Str("remote_ip", c.RealIP()).
					Msg("Rejected event with invalid secret token")
				return unauthorizedError(c, "Invalid secret token")
			}
			return next(c)
		}
	}
}
