package queue

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/carbonroom/carbonroom/internal/config"
	"github.com/carbonroom/carbonroom/internal/database"
	"github.com/carbonroom/carbonroom/internal/email"
	"github.com/carbonroom/carbonroom/internal/filestorage"
	"github.com/carbonroom/carbonroom/internal/githubsync"
	"github.com/carbonroom/carbonroom/internal/queue/handlers"
	"github.com/carbonroom/carbonroom/internal/registry"
	"github.com/carbonroom/carbonroom/internal/renderdeploy"
	"github.com/carbonroom/carbonroom/internal/usecase"
)

// Worker processes the background tasks the API enqueues.
type Worker struct {
	asynqServer *asynq.Server
	asynqClient *asynq.Client
	mux         *asynq.ServeMux
	repo        usecase.Repository
	logger      *slog.Logger
}

// NewWorker creates a fully configured worker with all dependencies
func NewWorker(logger *slog.Logger) (*Worker, error) {
	logger.Info("Initializing worker dependencies...")

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

	wm := registry.NewWatermarker(os.Getenv(config.ENV_KEY_WATERMARK_PREFIX))

	// Workers never enqueue registration follow-ups themselves.
	uc := usecase.New(repo, fsp, mp, nil, wm, os.Getenv(config.ENV_KEY_VERIFY_BASE_URL))

	branch := os.Getenv(config.ENV_KEY_GITHUB_BRANCH)
	if branch == "" {
		branch = config.DEFAULT_GITHUB_BRANCH
	}
	gh := githubsync.NewClient(
		os.Getenv(config.ENV_KEY_GITHUB_TOKEN),
		os.Getenv(config.ENV_KEY_GITHUB_REPO),
		branch,
	)
	rd := renderdeploy.NewClient(os.Getenv(config.ENV_KEY_RENDER_DEPLOY_HOOK))

	redisOpt := asynq.RedisClientOpt{
		Addr:     os.Getenv(config.ENV_KEY_REDIS_ADDR),
		Password: os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	}

	concurrency := 10
	if wc := os.Getenv(config.ENV_KEY_WORKER_CONCURRENCY); wc != "" {
		if n, err := strconv.Atoi(wc); err == nil && n > 0 {
			concurrency = n
		}
	}

	asynqServer := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	asynqClient := asynq.NewClient(redisOpt)

	mux := asynq.NewServeMux()

	h := handlers.NewHandlers(uc, gh, rd, asynqClient)

	mux.HandleFunc(TaskGitHubBackup, h.HandleGitHubBackup)
	mux.HandleFunc(TaskRenderDeploy, h.HandleRenderDeploy)
	mux.HandleFunc(TaskCertificateEmail, h.HandleCertificateEmail)

	logger.Info("Worker registered handlers",
		slog.String("tasks", fmt.Sprintf("%s, %s, %s",
			TaskGitHubBackup, TaskRenderDeploy, TaskCertificateEmail)))

	return &Worker{
		asynqServer: asynqServer,
		asynqClient: asynqClient,
		mux:         mux,
		repo:        repo,
		logger:      logger,
	}, nil
}

// Start starts the worker server
func (w *Worker) Start() error {
	w.logger.Info("Worker started successfully")
	return w.asynqServer.Start(w.mux)
}

// Stop stops the worker server gracefully
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.asynqServer.Shutdown()

	if err := w.asynqClient.Close(); err != nil {
		w.logger.Error("Error closing queue client", slog.String("err", err.Error()))
	}
	if err := w.repo.Close(); err != nil {
		w.logger.Error("Error closing database", slog.String("err", err.Error()))
	}
}
