package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandleCertificateEmail delivers the registration certificate to the
// protocol owner. All business logic lives in the usecase.
func (h *Handlers) HandleCertificateEmail(ctx context.Context, task *asynq.Task) error {
	var payload ProtocolTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse certificate email payload", slog.String("err", err.Error()))
		return err
	}

	slog.InfoContext(ctx, "processing certificate email", slog.String("protocol_id", payload.ProtocolID))

	if err := h.usecase.SendCertificateEmail(ctx, payload.ProtocolID); err != nil {
		slog.ErrorContext(ctx, "failed to send certificate email",
			slog.String("protocol_id", payload.ProtocolID),
			slog.String("err", err.Error()))
		return err
	}

	slog.InfoContext(ctx, "certificate email completed", slog.String("protocol_id", payload.ProtocolID))
	return nil
}
