package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker.
const (
	TaskGitHubBackup     = "backup:github"
	TaskRenderDeploy     = "deploy:render"
	TaskCertificateEmail = "email:certificate"
)

// ProtocolTaskPayload is the payload for protocol-scoped tasks.
type ProtocolTaskPayload struct {
	ProtocolID string `json:"protocol_id"`
}

// Client wraps asynq.Client for enqueuing tasks
type Client struct {
	client *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string, redisPassword string) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	return &Client{
		client: client,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueGitHubBackup(ctx context.Context, protocolShortID string) error {
	return c.enqueue(ctx, TaskGitHubBackup, protocolShortID, "default")
}

func (c *Client) EnqueueCertificateEmail(ctx context.Context, protocolShortID string) error {
	return c.enqueue(ctx, TaskCertificateEmail, protocolShortID, "critical")
}

func (c *Client) enqueue(ctx context.Context, taskType, protocolShortID, queueName string) error {
	payload, err := json.Marshal(ProtocolTaskPayload{ProtocolID: protocolShortID})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(taskType, payload)

	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(queueName))
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	slog.InfoContext(ctx, "enqueued task",
		slog.String("task_id", info.ID),
		slog.String("type", taskType),
		slog.String("queue", info.Queue),
		slog.String("protocol_id", protocolShortID))
	return nil
}
