package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path"

	"github.com/hibiken/asynq"

	"github.com/carbonroom/carbonroom/internal/config"
)

// HandleGitHubBackup pushes a protocol's registration record and
// certificate to the backup repository, then queues a site redeploy.
func (h *Handlers) HandleGitHubBackup(ctx context.Context, task *asynq.Task) error {
	var payload ProtocolTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse backup payload", slog.String("err", err.Error()))
		return err
	}

	slog.InfoContext(ctx, "processing github backup", slog.String("protocol_id", payload.ProtocolID))

	bundle, err := h.usecase.ExportProtocolBackup(ctx, payload.ProtocolID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to export backup",
			slog.String("protocol_id", payload.ProtocolID),
			slog.String("err", err.Error()))
		return err
	}

	backupPath := os.Getenv(config.ENV_KEY_GITHUB_BACKUP_PATH)
	if backupPath == "" {
		backupPath = config.DEFAULT_BACKUP_PATH
	}

	message := "Register protocol " + bundle.ShortID
	if err := h.github.PutFile(ctx,
		path.Join(backupPath, bundle.ShortID, "record.json"),
		message, bundle.ManifestJSON); err != nil {
		return err
	}
	if bundle.CertificateHTML != "" {
		if err := h.github.PutFile(ctx,
			path.Join(backupPath, bundle.ShortID, "certificate.html"),
			message, []byte(bundle.CertificateHTML)); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "github backup completed", slog.String("protocol_id", payload.ProtocolID))

	// Refresh the public site so the new registration is verifiable.
	if h.render.Configured() && h.queue != nil {
		deployTask := asynq.NewTask("deploy:render", nil)
		if _, err := h.queue.EnqueueContext(ctx, deployTask, asynq.Queue("low")); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue deploy", slog.String("err", err.Error()))
		}
	}

	return nil
}
