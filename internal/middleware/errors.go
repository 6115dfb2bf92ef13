package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const errorTypeUnauthorized = "https://cinelist.app/errors/unauthorized"

// eventRejection is the RFC 7807 body returned to a gateway whose event failed the secret check.
// Header names the header the gateway has to send, so a misconfigured webhook shows up in its own logs.
type eventRejection struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Header   string `json:"header"`
}

func unauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, eventRejection{
		Type:     errorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Header:   SecretTokenHeader,
	})
}
