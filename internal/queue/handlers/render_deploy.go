package handlers

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandleRenderDeploy triggers the configured Render deploy hook.
func (h *Handlers) HandleRenderDeploy(ctx context.Context, _ *asynq.Task) error {
	if !h.render.Configured() {
		slog.InfoContext(ctx, "render deploy hook not configured, skipping")
		return nil
	}

	if err := h.render.Trigger(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to trigger deploy", slog.String("err", err.Error()))
		return err
	}

	slog.InfoContext(ctx, "render deploy triggered")
	return nil
}
