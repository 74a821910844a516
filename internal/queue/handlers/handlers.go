package handlers

import (
	"github.com/hibiken/asynq"

	"github.com/carbonroom/carbonroom/internal/githubsync"
	"github.com/carbonroom/carbonroom/internal/renderdeploy"
	"github.com/carbonroom/carbonroom/internal/usecase"
)

// Handlers contains all queue task handlers
type Handlers struct {
	usecase usecase.Usecase
	github  *githubsync.Client
	render  *renderdeploy.Client
	queue   *asynq.Client
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	uc usecase.Usecase,
	gh *githubsync.Client,
	rd *renderdeploy.Client,
	q *asynq.Client,
) *Handlers {
	return &Handlers{
		usecase: uc,
		github:  gh,
		render:  rd,
		queue:   q,
	}
}

// ProtocolTaskPayload mirrors the payload the API enqueues for
// protocol-scoped tasks.
type ProtocolTaskPayload struct {
	ProtocolID string `json:"protocol_id"`
}
