// Package push delivers notifications to connected dashboards over a
// Redis channel, one channel per tenant.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferrepos/backend/internal/domain/alert"
)

// channelPrefix namespaces the per-tenant alert channels.
const channelPrefix = "ferrepos:alerts:"

// RedisPublisher broadcasts notifications on the tenant's alert channel.
// Dashboard gateways subscribe to the channel and fan out to their
// connected clients.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

type notificationPayload struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Target      string  `json:"target"`
	Message     string  `json:"message"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// PublishNotification pushes one notification to the tenant's channel.
func (p *RedisPublisher) PublishNotification(ctx context.Context, n *alert.Notification) error {
	payload := notificationPayload{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		Target:    string(n.Target),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.ReferenceID != nil {
		ref := n.ReferenceID.String()
		payload.ReferenceID = &ref
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	return p.client.Publish(ctx, channelPrefix+n.TenantID.String(), data).Err()
}
