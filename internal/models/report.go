package models

import (
	"time"
)

// ReportDetail carries the comparison parameters for one report so the
// numbers can be audited later.
type ReportDetail struct {
	NGramSize       int `bson:"ngramSize" json:"ngramSize"`
	SubjectTokens   int `bson:"subjectTokens" json:"subjectTokens"`
	CandidateTokens int `bson:"candidateTokens" json:"candidateTokens"`
	FlagThreshold   int `bson:"flagThreshold" json:"flagThreshold"`
}

// PlagiarismReport records one compared pair whose similarity crossed
// the reporting floor. Immutable once created.
type PlagiarismReport struct {
	ID                string       `bson:"reportId" json:"reportId"`
	SubmissionID      string       `bson:"submissionId" json:"submissionId"`
	ComparedWithID    string       `bson:"comparedWithId" json:"comparedWithId"`
	SimilarityPercent int          `bson:"similarityPercent" json:"similarityPercent"`
	IsFlagged         bool         `bson:"isFlagged" json:"isFlagged"`
	Algorithm         string       `bson:"algorithm" json:"algorithm"`
	Detail            ReportDetail `bson:"detail" json:"detail"`
	CreatedAt         time.Time    `bson:"createdAt" json:"createdAt"`
}

// IntegrityStep tracks where a submission's integrity check is in its
// lifecycle. Stored in Redis with a TTL, mirrored in API responses.
type IntegrityStep string

const (
	StepQueued    IntegrityStep = "queued"
	StepRunning   IntegrityStep = "running"
	StepCompleted IntegrityStep = "completed"
	StepFailed    IntegrityStep = "failed"
)
