package server

import (
	"context"
	"crypto/subtle"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/carbonroom/carbonroom/internal/config"
)

var (
	AppEnv  = os.Getenv(config.ENV_KEY_APP_ENV)
	isLocal = AppEnv == "local"
)

// APIKeyMiddleware guards the ingestion endpoints. Local runs skip the
// check so the API can be exercised without configuration.
func (s *Server) APIKeyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		apiKey := os.Getenv(config.ENV_KEY_API_KEY)
		if isLocal && apiKey == "" {
			return next(c)
		}

		provided := c.Request().Header.Get(config.HEADER_KEY_X_API_KEY)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return c.JSON(401, Res{Error: "invalid or missing api key"})
		}

		if userID := c.Request().Header.Get(config.HEADER_KEY_X_USER_ID); userID != "" {
			oc := c.Request().Context()
			nc := context.WithValue(oc, config.CTX_KEY_USER_ID, userID)
			c.SetRequest(c.Request().WithContext(nc))
		}

		return next(c)
	}
}
