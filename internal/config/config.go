package config

// Header constants.
const (
	HEADER_KEY_X_API_KEY   = "X-Api-Key"
	HEADER_KEY_X_CLIENT_ID = "X-Client-Id"
	HEADER_KEY_X_USER_ID   = "X-User-Id"
)

// Environment variable keys.
const (
	ENV_KEY_APP_ENV   = "APP_ENV"
	ENV_KEY_PORT      = "PORT"
	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_REDIS_ADDR         = "REDIS_ADDR"
	ENV_KEY_REDIS_PASSWORD     = "REDIS_PASSWORD"
	ENV_KEY_WORKER_CONCURRENCY = "WORKER_CONCURRENCY"

	ENV_KEY_API_KEY = "API_KEY"

	ENV_KEY_WATERMARK_PREFIX = "WATERMARK_PREFIX"
	ENV_KEY_VERIFY_BASE_URL  = "VERIFY_BASE_URL"

	ENV_KEY_STORAGE_PROVIDER   = "STORAGE_PROVIDER"
	ENV_KEY_STORAGE_BUCKET     = "STORAGE_BUCKET"
	ENV_KEY_STORAGE_VAULT_PATH = "STORAGE_VAULT_PATH"
	ENV_KEY_MINIO_ENDPOINT     = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY   = "MINIO_ACCESS_KEY"
	ENV_KEY_MINIO_SECRET_KEY   = "MINIO_SECRET_KEY"

	ENV_KEY_SMTP_HOST     = "SMTP_HOST"
	ENV_KEY_SMTP_PORT     = "SMTP_PORT"
	ENV_KEY_SMTP_USER     = "SMTP_USER"
	ENV_KEY_SMTP_PASSWORD = "SMTP_PASSWORD"

	ENV_KEY_GITHUB_TOKEN       = "GITHUB_TOKEN"
	ENV_KEY_GITHUB_REPO        = "GITHUB_REPO"
	ENV_KEY_GITHUB_BRANCH      = "GITHUB_BRANCH"
	ENV_KEY_GITHUB_BACKUP_PATH = "GITHUB_BACKUP_PATH"

	ENV_KEY_RENDER_DEPLOY_HOOK = "RENDER_DEPLOY_HOOK"
)

// Defaults.
const (
	DEFAULT_WATERMARK_PREFIX = "C6"
	DEFAULT_GITHUB_BRANCH    = "main"
	DEFAULT_BACKUP_PATH      = "backups"

	PRESIGN_URL_EXPIRE_MINUTES = 15
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_ID
	CTX_KEY_CLIENT_ID
)
