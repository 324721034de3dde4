package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/algoprep/pulse/internal/metrics"
	"github.com/algoprep/pulse/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	velocityWindow = 7 * 24 * time.Hour
	velocityDays   = 7.0
)

// PerformanceStore is the slice of the performance repository the
// updater needs.
type PerformanceStore interface {
	GetByUser(ctx context.Context, userID string) (*models.UserPerformance, error)
	Upsert(ctx context.Context, record *models.UserPerformance) error
}

// Updater folds graded submissions into per-user performance records.
// Each call represents one real event and increments counters exactly
// once; callers must invoke it at most once per graded submission.
type Updater struct {
	store PerformanceStore
	locks *userLocks
	now   func() time.Time
}

func NewUpdater(store PerformanceStore) *Updater {
	return &Updater{
		store: store,
		locks: newUserLocks(),
		now:   time.Now,
	}
}

// Update applies one graded submission to the user's record and
// persists the whole record as one atomic write. Storage errors
// surface to the caller; this is a synchronous, user-facing path.
func (u *Updater) Update(ctx context.Context, submission *models.Submission) (*models.UserPerformance, error) {
	started := u.now()

	lock := u.locks.get(submission.UserID)
	lock.Lock()
	defer lock.Unlock()

	record, err := u.store.GetByUser(ctx, submission.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load performance record: %w", err)
	}
	if record == nil {
		record = models.NewUserPerformance(submission.UserID)
	}

	now := u.now()
	difficulty := strings.ToLower(submission.Difficulty)
	accepted := submission.Accepted()

	record.TotalSubmissions++
	if accepted {
		record.CorrectSubmissions++
		record.SolvedByDifficulty[difficulty]++
		record.RecentSolves = append(record.RecentSolves, now)
	}

	record.Accuracy = accuracyOf(record.CorrectSubmissions, record.TotalSubmissions)

	if submission.ExecutionTimeMs > 0 {
		record.AvgSolveTimeMs = SmoothTime(record.AvgSolveTimeMs, float64(submission.ExecutionTimeMs))
	}

	u.updateTopics(record, submission, accepted, now)

	record.RecentSolves = pruneWindow(record.RecentSolves, now)
	record.SolveVelocity = round2(float64(len(record.RecentSolves)) / velocityDays)

	record.PerformanceScore = Score(record)

	if next, reason, changed := NextDifficulty(record.CurrentDifficulty, record.PerformanceScore, record.SolvedByDifficulty); changed {
		record.CurrentDifficulty = next
		record.DifficultyHistory = append(record.DifficultyHistory, models.DifficultyChange{
			Difficulty: next,
			Score:      record.PerformanceScore,
			ChangedAt:  now,
			Reason:     reason,
		})
		log.Info().
			Str("userId", submission.UserID).
			Str("difficulty", next).
			Float64("score", record.PerformanceScore).
			Msg("Recommended difficulty changed")
	}

	if err := u.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist performance record: %w", err)
	}

	metrics.MetricsUpdateDuration.Observe(u.now().Sub(started).Seconds())

	return record, nil
}

func (u *Updater) updateTopics(record *models.UserPerformance, submission *models.Submission, accepted bool, now time.Time) {
	for _, topic := range submission.Topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			continue
		}

		strength, exists := record.TopicStrengths[topic]
		if !exists {
			strength = &models.TopicStrength{}
			record.TopicStrengths[topic] = strength
		}

		strength.TotalAttempts++
		if accepted {
			strength.CorrectAttempts++
		}
		strength.Accuracy = accuracyOf(strength.CorrectAttempts, strength.TotalAttempts)
		if submission.ExecutionTimeMs > 0 {
			strength.AvgSolveTimeMs = SmoothTime(strength.AvgSolveTimeMs, float64(submission.ExecutionTimeMs))
		}
		strength.LastAttempted = now
	}
}

func accuracyOf(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(correct) / float64(total) * 100)
}

func pruneWindow(solves []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-velocityWindow)
	kept := solves[:0]
	for _, ts := range solves {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
