package ingest

import (
	"context"
	"fmt"

	"github.com/algoprep/pulse/internal/metrics"
	"github.com/algoprep/pulse/internal/models"
	"github.com/algoprep/pulse/internal/plagiarism"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SubmissionStore is the slice of the submissions repository the
// pipeline needs. The write must be idempotent per submission ID: the
// stream consumer replays the whole pipeline call on transient
// failures.
type SubmissionStore interface {
	UpsertSubmission(ctx context.Context, submission *models.Submission) error
}

type PerformanceUpdater interface {
	Update(ctx context.Context, submission *models.Submission) (*models.UserPerformance, error)
}

// JobQueue accepts detached work, typically the worker pool.
type JobQueue interface {
	Submit(job plagiarism.Job) error
}

// Pipeline drives both halves of the graded-submission flow: the
// synchronous performance update, and the detached integrity check
// handed to the worker pool. The check's outcome never affects the
// response already produced for the submission.
type Pipeline struct {
	submissions SubmissionStore
	updater     PerformanceUpdater
	detector    *plagiarism.Detector
	pool        JobQueue
	status      plagiarism.StatusWriter
}

func NewPipeline(
	submissions SubmissionStore,
	updater PerformanceUpdater,
	detector *plagiarism.Detector,
	pool JobQueue,
	status plagiarism.StatusWriter,
) *Pipeline {
	return &Pipeline{
		submissions: submissions,
		updater:     updater,
		detector:    detector,
		pool:        pool,
		status:      status,
	}
}

// ProcessSubmission records the submission, updates the user's
// performance record and queues the integrity check. Storage errors on
// the synchronous path surface to the caller; queueing failures do not.
func (p *Pipeline) ProcessSubmission(ctx context.Context, submission *models.Submission, source string) (*models.UserPerformance, error) {
	if submission.ID == "" {
		submission.ID = uuid.New().String()
	}

	if err := p.submissions.UpsertSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	record, err := p.updater.Update(ctx, submission)
	if err != nil {
		return nil, err
	}

	metrics.SubmissionsIngested.WithLabelValues(submission.Verdict, source).Inc()

	p.QueueCheck(ctx, submission.ID)

	return record, nil
}

// QueueCheck submits a detached integrity check for the submission.
// Failures are logged and swallowed.
func (p *Pipeline) QueueCheck(ctx context.Context, submissionID string) {
	if p.status != nil {
		if err := p.status.UpdateStatus(ctx, submissionID, models.StepQueued); err != nil {
			log.Warn().Err(err).Str("submissionId", submissionID).Msg("Failed to mark integrity check as queued")
		}
	}

	job := &plagiarism.CheckJob{
		Detector:     p.detector,
		SubmissionID: submissionID,
	}
	if err := p.pool.Submit(job); err != nil {
		log.Error().Err(err).Str("submissionId", submissionID).Msg("Failed to queue integrity check")
	}
}
