package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Invocation records one use of a protocol, with whatever telemetry the
// transport layer captured about the caller.
type Invocation struct {
	ID         uuid.UUID
	ProtocolID uuid.UUID
	UserID     string
	UserEmail  string
	UserIP     string
	UserAgent  string
	Telemetry  map[string]any
	CreatedAt  time.Time
}

type InvokeProtocolInput struct {
	Keyword   string
	UserID    string
	UserEmail string
	UserIP    string
	UserAgent string
}

// InvokeProtocol resolves a protocol by keyword (name or tag match,
// case-insensitive) and records the invocation.
func (u Usecase) InvokeProtocol(ctx context.Context, in InvokeProtocolInput) (Protocol, error) {
	matches, err := u.repo.SearchProtocols(ctx, in.Keyword)
	if err != nil {
		return Protocol{}, err
	}

	keyword := strings.ToLower(in.Keyword)
	var found *Protocol
	for i, p := range matches {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			found = &matches[i]
			break
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), keyword) {
				found = &matches[i]
				break
			}
		}
		if found != nil {
			break
		}
	}
	if found == nil {
		return Protocol{}, ErrProtocolNotFound
	}

	_, err = u.repo.CreateInvocation(ctx, Invocation{
		ProtocolID: found.ID,
		UserID:     in.UserID,
		UserEmail:  in.UserEmail,
		UserIP:     in.UserIP,
		UserAgent:  in.UserAgent,
		Telemetry: map[string]any{
			"keyword":    in.Keyword,
			"invoked_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return Protocol{}, err
	}

	found.InvocationCount++
	return *found, nil
}
