package models

import (
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// TopicStrength tracks a user's track record on a single topic tag.
// Entries are created lazily the first time a topic is seen.
type TopicStrength struct {
	TotalAttempts   int       `bson:"totalAttempts" json:"totalAttempts"`
	CorrectAttempts int       `bson:"correctAttempts" json:"correctAttempts"`
	Accuracy        float64   `bson:"accuracy" json:"accuracy"`
	AvgSolveTimeMs  float64   `bson:"avgSolveTimeMs" json:"avgSolveTimeMs"`
	LastAttempted   time.Time `bson:"lastAttempted" json:"lastAttempted"`
}

// DifficultyChange is one append-only entry in a user's difficulty history.
type DifficultyChange struct {
	Difficulty string    `bson:"difficulty" json:"difficulty"`
	Score      float64   `bson:"score" json:"score"`
	ChangedAt  time.Time `bson:"changedAt" json:"changedAt"`
	Reason     string    `bson:"reason" json:"reason"`
}

// UserPerformance is the rolling performance record, one per user.
// Accuracy and PerformanceScore are always recomputed from the counters
// after each mutation, never set independently.
type UserPerformance struct {
	UserID             string                    `bson:"userId" json:"userId"`
	TotalSubmissions   int                       `bson:"totalSubmissions" json:"totalSubmissions"`
	CorrectSubmissions int                       `bson:"correctSubmissions" json:"correctSubmissions"`
	Accuracy           float64                   `bson:"accuracy" json:"accuracy"`
	AvgSolveTimeMs     float64                   `bson:"avgSolveTimeMs" json:"avgSolveTimeMs"`
	SolvedByDifficulty map[string]int            `bson:"solvedByDifficulty" json:"solvedByDifficulty"`
	TopicStrengths     map[string]*TopicStrength `bson:"topicStrengths" json:"topicStrengths"`
	PerformanceScore   float64                   `bson:"performanceScore" json:"performanceScore"`
	CurrentDifficulty  string                    `bson:"currentDifficulty" json:"currentDifficulty"`
	DifficultyHistory  []DifficultyChange        `bson:"difficultyHistory" json:"difficultyHistory"`
	SolveVelocity      float64                   `bson:"solveVelocity" json:"solveVelocity"`
	// RecentSolves holds the accepted-submission timestamps inside the
	// trailing velocity window. Pruned on every update.
	RecentSolves []time.Time `bson:"recentSolves" json:"-"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// NewUserPerformance returns the zeroed record created on a user's
// first submission, or served as the default for unknown users.
func NewUserPerformance(userID string) *UserPerformance {
	return &UserPerformance{
		UserID:             userID,
		SolvedByDifficulty: map[string]int{},
		TopicStrengths:     map[string]*TopicStrength{},
		CurrentDifficulty:  DifficultyEasy,
		DifficultyHistory:  []DifficultyChange{},
	}
}
