package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/carbonroom/carbonroom/internal/config"
	"github.com/carbonroom/carbonroom/internal/database"
	"github.com/carbonroom/carbonroom/internal/email"
	"github.com/carbonroom/carbonroom/internal/filestorage"
	"github.com/carbonroom/carbonroom/internal/queue"
	"github.com/carbonroom/carbonroom/internal/registry"
	"github.com/carbonroom/carbonroom/internal/usecase"
)

// Service is what the handlers need from the application core.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	RegisterProtocol(context.Context, usecase.RegisterProtocolInput) (usecase.Protocol, error)
	ListProtocols(context.Context, usecase.ListProtocolsOption) ([]usecase.Protocol, int, error)
	GetProtocolByShortID(context.Context, string) (usecase.Protocol, error)
	InvokeProtocol(context.Context, usecase.InvokeProtocolInput) (usecase.Protocol, error)
	GetVaultDownloadURL(context.Context, string) (string, error)

	GetAttributionChain(context.Context, string) (usecase.AttributionChain, error)
	GetCertificate(context.Context, string) (usecase.Certificate, error)

	VerifyWatermark(context.Context, string) (usecase.VerifyResult, error)
	StampContent(ctx context.Context, shortID, content, fileExt string) (string, error)

	ListCreators(context.Context, usecase.ListCreatorsOption) ([]usecase.Creator, int, error)
	GetCreatorByID(context.Context, uuid.UUID) (usecase.Creator, error)

	GetStats(context.Context) (usecase.Stats, error)
}

type Server struct {
	port int

	server    Service
	validator *validator.Validate
}

func NewServer() *http.Server {
	repo := database.New()

	var fsp usecase.FileStorageProvider
	switch os.Getenv(config.ENV_KEY_STORAGE_PROVIDER) {
	case "s3":
		fsp = filestorage.NewS3Storage(
			os.Getenv(config.ENV_KEY_STORAGE_BUCKET),
			os.Getenv(config.ENV_KEY_STORAGE_VAULT_PATH),
		)
	default:
		fsp = filestorage.NewMinIOStorage(
			os.Getenv(config.ENV_KEY_STORAGE_BUCKET),
			os.Getenv(config.ENV_KEY_STORAGE_VAULT_PATH),
			os.Getenv(config.ENV_KEY_MINIO_ENDPOINT),
			os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY),
			os.Getenv(config.ENV_KEY_MINIO_SECRET_KEY),
		)
	}

	mp := email.NewEmailProvider(
		os.Getenv(config.ENV_KEY_SMTP_HOST),
		os.Getenv(config.ENV_KEY_SMTP_USER),
		os.Getenv(config.ENV_KEY_SMTP_PASSWORD),
		os.Getenv(config.ENV_KEY_SMTP_PORT),
	)

	tasks := queue.NewClient(
		os.Getenv(config.ENV_KEY_REDIS_ADDR),
		os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	)

	wm := registry.NewWatermarker(os.Getenv(config.ENV_KEY_WATERMARK_PREFIX))

	sv := usecase.New(repo, fsp, mp, tasks, wm, os.Getenv(config.ENV_KEY_VERIFY_BASE_URL))
	v := validator.New()

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	NewServer := &Server{
		port:      port,
		server:    sv,
		validator: v,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
