package models

import (
	"time"
)

// Problem is a catalog entry. The catalog itself is owned by the main
// platform; this service only reads it for recommendations.
type Problem struct {
	ID          string    `bson:"problemId" json:"problemId"`
	Title       string    `bson:"title" json:"title"`
	Difficulty  string    `bson:"difficulty" json:"difficulty"`
	Topics      []string  `bson:"topics" json:"topics"`
	SolveCount  int       `bson:"solveCount" json:"solveCount"`
	AttemptRate float64   `bson:"attemptRate" json:"attemptRate"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
