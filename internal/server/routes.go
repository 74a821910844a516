package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(otelecho.Middleware("carbonroom-api"))
	e.Use(NewEchoLogger(slog.Default()))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Api-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/api/health", s.healthHandler)

	var protocolGroup = e.Group("/api/v1/protocols")
	protocolGroup.GET("", s.ListProtocols)
	protocolGroup.POST("", s.RegisterProtocol, s.APIKeyMiddleware)
	protocolGroup.GET("/:id", s.GetProtocolByID)
	protocolGroup.POST("/invoke", s.InvokeProtocol, s.APIKeyMiddleware)
	protocolGroup.GET("/:id/attribution", s.GetAttributionChain)
	protocolGroup.GET("/:id/certificate", s.GetCertificate)
	protocolGroup.GET("/:id/document", s.GetDocument)
	protocolGroup.GET("/:id/download", s.GetDownloadURL, s.APIKeyMiddleware)
	protocolGroup.POST("/:id/stamp", s.StampContent, s.APIKeyMiddleware)

	// Public endpoint; throttled since it takes arbitrary pasted content.
	e.POST("/api/v1/verify", s.VerifyWatermark,
		middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(10)))

	var creatorGroup = e.Group("/api/v1/creators")
	creatorGroup.GET("", s.ListCreators)
	creatorGroup.GET("/:id", s.GetCreatorByID)

	e.GET("/api/v1/stats", s.GetStats)

	return e
}
