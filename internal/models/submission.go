package models

import (
	"time"
)

const (
	VerdictAccepted = "accepted"
	VerdictRejected = "rejected"
)

// Submission represents one graded attempt at a problem. It is produced
// once by the grading service and is read-only here except for the
// integrity flag.
type Submission struct {
	ID              string    `bson:"submissionId" json:"submissionId"`
	UserID          string    `bson:"userId" json:"userId"`
	ProblemID       string    `bson:"problemId" json:"problemId"`
	SourceCode      string    `bson:"sourceCode" json:"sourceCode"`
	Language        string    `bson:"language" json:"language"`
	Verdict         string    `bson:"verdict" json:"verdict"`
	ExecutionTimeMs int64     `bson:"executionTimeMs" json:"executionTimeMs"`
	Difficulty      string    `bson:"difficulty" json:"difficulty"`
	Topics          []string  `bson:"topics" json:"topics"`
	IsFlagged       bool      `bson:"isFlagged" json:"isFlagged"`
	FlagReason      string    `bson:"flagReason,omitempty" json:"flagReason,omitempty"`
	SubmittedAt     time.Time `bson:"submittedAt" json:"submittedAt"`
}

// Accepted reports whether the submission passed grading.
func (s *Submission) Accepted() bool {
	return s.Verdict == VerdictAccepted
}
