package notify

import (
	"context"
	"encoding/json"

	redisInfra "github.com/algoprep/pulse/internal/infra/redis"
	"github.com/algoprep/pulse/internal/models"
	"github.com/algoprep/pulse/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Notifier records a notification document and publishes a compact
// event for downstream delivery. Both writes are best-effort: failures
// are logged and dropped, never surfaced to the caller.
type Notifier struct {
	repo      *repository.NotificationsRepository
	client    *redisInfra.Client
	streamKey string
}

func NewNotifier(repo *repository.NotificationsRepository, client *redisInfra.Client, streamKey string) *Notifier {
	return &Notifier{
		repo:      repo,
		client:    client,
		streamKey: streamKey,
	}
}

func (n *Notifier) Notify(ctx context.Context, userID, notifType, title, message string, metadata map[string]interface{}) {
	notification := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}

	if err := n.repo.InsertNotification(ctx, notification); err != nil {
		log.Error().Err(err).
			Str("userId", userID).
			Str("type", notifType).
			Msg("Failed to store notification")
	}

	payload := map[string]interface{}{
		"userId":  userID,
		"type":    notifType,
		"title":   title,
		"message": message,
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			payload["metadata"] = string(raw)
		}
	}

	err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.streamKey,
		Values: payload,
	}).Err()
	if err != nil {
		log.Error().Err(err).
			Str("userId", userID).
			Str("stream", n.streamKey).
			Msg("Failed to publish notification event")
	}
}
