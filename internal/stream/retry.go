package stream

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	maxRetries = 3
	baseDelay  = 1 * time.Second
)

// RetryHandler retries a message handler with exponential backoff and
// parks exhausted messages on a dead-letter stream for manual replay.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
}

func NewRetryHandler(client *redis.Client, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
	}
}

func (h *RetryHandler) RetryWithBackoff(ctx context.Context, fn func() error, messageID string, fields map[string]interface{}) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Str("message_id", messageID).
			Int("attempt", attempt+1).
			Msg("Message processing failed, will retry")
	}

	h.sendToDeadLetter(ctx, messageID, fields, lastErr)
	return lastErr
}

func (h *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) {
	values := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		values[k] = v
	}
	values["original_message_id"] = messageID
	values["error"] = cause.Error()

	err := h.client.XAdd(ctx, &redis.XAddArgs{
		Stream: h.deadLetterKey,
		Values: values,
	}).Err()
	if err != nil {
		log.Error().Err(err).
			Str("message_id", messageID).
			Str("dead_letter_key", h.deadLetterKey).
			Msg("Failed to park message on dead-letter stream")
		return
	}

	log.Error().
		Err(cause).
		Str("message_id", messageID).
		Str("dead_letter_key", h.deadLetterKey).
		Msg("Message exhausted retries, parked on dead-letter stream")
}
