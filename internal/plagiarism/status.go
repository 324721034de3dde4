package plagiarism

import (
	"context"
	"fmt"
	"time"

	redisInfra "github.com/algoprep/pulse/internal/infra/redis"
	"github.com/algoprep/pulse/internal/models"
	"github.com/rs/zerolog/log"
)

const statusTTL = 12 * time.Hour

// RedisStatusTracker keeps the per-submission integrity-check state in
// Redis so the API can answer status queries without touching Mongo.
type RedisStatusTracker struct {
	client *redisInfra.Client
}

func NewStatusTracker(client *redisInfra.Client) *RedisStatusTracker {
	return &RedisStatusTracker{client: client}
}

func (t *RedisStatusTracker) UpdateStatus(ctx context.Context, submissionID string, step models.IntegrityStep) error {
	validSteps := map[models.IntegrityStep]bool{
		models.StepQueued:    true,
		models.StepRunning:   true,
		models.StepCompleted: true,
		models.StepFailed:    true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := "integrity_status:" + submissionID

	err := t.client.Set(ctx, rkey, string(step), statusTTL).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("submissionId", submissionID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("submissionId", submissionID).
		Msg("Integrity status updated")

	return nil
}

func (t *RedisStatusTracker) GetStatus(ctx context.Context, submissionID string) (models.IntegrityStep, error) {
	rkey := "integrity_status:" + submissionID

	value, err := t.client.Get(ctx, rkey).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read status from Redis: %w", err)
	}

	return models.IntegrityStep(value), nil
}
