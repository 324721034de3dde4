package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/algoprep/pulse/internal/models"
	"github.com/algoprep/pulse/internal/scoring"
)

const (
	// DefaultLimit applies when the caller does not specify one.
	DefaultLimit = 10

	weakTopicAccuracy    = 50.0
	weakTopicMinAttempts = 3

	weakTopicShare  = 0.6
	generalFillRate = 0.75
)

type PerformanceReader interface {
	GetByUser(ctx context.Context, userID string) (*models.UserPerformance, error)
}

type ProblemCatalog interface {
	FindUnsolved(ctx context.Context, difficulty string, topics []string, excludeIDs []string, limit int) ([]*models.Problem, error)
}

type SolvedLister interface {
	SolvedProblemIDs(ctx context.Context, userID string) ([]string, error)
}

// Summary condenses the user's record for the recommendation response.
// Nil for users with no record yet.
type Summary struct {
	PerformanceScore  float64  `json:"performanceScore"`
	Accuracy          float64  `json:"accuracy"`
	CurrentDifficulty string   `json:"currentDifficulty"`
	WeakTopics        []string `json:"weakTopics"`
	SolveVelocity     float64  `json:"solveVelocity"`
}

type Recommendations struct {
	Problems []*models.Problem `json:"problems"`
	Summary  *Summary          `json:"summary"`
}

// Selector assembles a ranked problem list from weak topics, the
// general pool at the user's tier, and one-level stretch problems.
type Selector struct {
	performance PerformanceReader
	catalog     ProblemCatalog
	solved      SolvedLister
}

func NewSelector(performance PerformanceReader, catalog ProblemCatalog, solved SolvedLister) *Selector {
	return &Selector{
		performance: performance,
		catalog:     catalog,
		solved:      solved,
	}
}

// Recommend builds the list in three ordered passes, never exceeding
// limit, never repeating a problem and never returning one the user
// has already solved.
func (s *Selector) Recommend(ctx context.Context, userID string, limit int) (*Recommendations, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	record, err := s.performance.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load performance record: %w", err)
	}

	difficulty := models.DifficultyEasy
	var summary *Summary
	var weakTopics []string
	if record != nil {
		difficulty = record.CurrentDifficulty
		weakTopics = WeakTopics(record)
		summary = &Summary{
			PerformanceScore:  record.PerformanceScore,
			Accuracy:          record.Accuracy,
			CurrentDifficulty: record.CurrentDifficulty,
			WeakTopics:        weakTopics,
			SolveVelocity:     record.SolveVelocity,
		}
	}

	solved, err := s.solved.SolvedProblemIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load solved problems: %w", err)
	}

	exclude := append([]string{}, solved...)
	picked := make([]*models.Problem, 0, limit)

	add := func(problems []*models.Problem) {
		for _, p := range problems {
			if len(picked) >= limit {
				return
			}
			picked = append(picked, p)
			exclude = append(exclude, p.ID)
		}
	}

	// Pass 1: problems at the user's tier touching a weak topic.
	if len(weakTopics) > 0 {
		quota := ceilShare(limit, weakTopicShare)
		problems, err := s.catalog.FindUnsolved(ctx, difficulty, weakTopics, exclude, quota)
		if err != nil {
			return nil, fmt.Errorf("failed to query weak-topic problems: %w", err)
		}
		add(problems)
	}

	// Pass 2: general pool at the same tier.
	if remaining := limit - len(picked); remaining > 0 {
		quota := ceilShare(remaining, generalFillRate)
		problems, err := s.catalog.FindUnsolved(ctx, difficulty, nil, exclude, quota)
		if err != nil {
			return nil, fmt.Errorf("failed to query general problems: %w", err)
		}
		add(problems)
	}

	// Pass 3: stretch problems one tier up.
	if remaining := limit - len(picked); remaining > 0 {
		problems, err := s.catalog.FindUnsolved(ctx, scoring.StretchDifficulty(difficulty), nil, exclude, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to query stretch problems: %w", err)
		}
		add(problems)
	}

	return &Recommendations{
		Problems: picked,
		Summary:  summary,
	}, nil
}

// WeakTopics lists topics with accuracy below 50% over at least 3
// attempts, sorted by name for stable output.
func WeakTopics(record *models.UserPerformance) []string {
	topics := make([]string, 0)
	for name, strength := range record.TopicStrengths {
		if strength.TotalAttempts >= weakTopicMinAttempts && strength.Accuracy < weakTopicAccuracy {
			topics = append(topics, name)
		}
	}
	sort.Strings(topics)
	return topics
}

func ceilShare(n int, share float64) int {
	return int(math.Ceil(float64(n) * share))
}
