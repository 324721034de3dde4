package plagiarism

import (
	"context"
	"fmt"
	"time"

	"github.com/algoprep/pulse/internal/metrics"
	"github.com/algoprep/pulse/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AlgorithmID identifies the comparison pipeline on persisted reports.
const AlgorithmID = "token-ngram-jaccard"

const (
	DefaultNGramSize      = 4
	DefaultReportFloor    = 30
	DefaultFlagThreshold  = 80
	DefaultMaxComparisons = 20
)

// SubmissionStore is the slice of the submissions repository the
// detector needs.
type SubmissionStore interface {
	GetSubmission(ctx context.Context, submissionID string) (*models.Submission, error)
	RecentAcceptedByProblem(ctx context.Context, problemID, excludeUserID string, limit int) ([]*models.Submission, error)
	FlagSubmission(ctx context.Context, submissionID, reason string) error
}

type ReportStore interface {
	InsertReport(ctx context.Context, report *models.PlagiarismReport) error
}

// Notifier dispatches a fire-and-forget message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID, notifType, title, message string, metadata map[string]interface{})
}

type StatusWriter interface {
	UpdateStatus(ctx context.Context, submissionID string, step models.IntegrityStep) error
}

// Options tunes the comparison pipeline. Zero values fall back to the
// defaults above.
type Options struct {
	NGramSize      int
	ReportFloor    int
	FlagThreshold  int
	MaxComparisons int
}

func (o Options) withDefaults() Options {
	if o.NGramSize <= 0 {
		o.NGramSize = DefaultNGramSize
	}
	if o.ReportFloor <= 0 {
		o.ReportFloor = DefaultReportFloor
	}
	if o.FlagThreshold <= 0 {
		o.FlagThreshold = DefaultFlagThreshold
	}
	if o.MaxComparisons <= 0 {
		o.MaxComparisons = DefaultMaxComparisons
	}
	return o
}

// Detector compares a submission against prior accepted solutions for
// the same problem. Every error in the pipeline is caught, logged and
// resolved to an empty (or partial) result; nothing propagates to the
// submission that triggered the check.
type Detector struct {
	submissions SubmissionStore
	reports     ReportStore
	notifier    Notifier
	status      StatusWriter
	opts        Options
}

func NewDetector(submissions SubmissionStore, reports ReportStore, notifier Notifier, status StatusWriter, opts Options) *Detector {
	return &Detector{
		submissions: submissions,
		reports:     reports,
		notifier:    notifier,
		status:      status,
		opts:        opts.withDefaults(),
	}
}

// Check runs the full comparison pipeline for one submission and
// returns the reports it created, possibly none.
func (d *Detector) Check(ctx context.Context, submissionID string) []*models.PlagiarismReport {
	started := time.Now()
	d.setStatus(ctx, submissionID, models.StepRunning)

	subject, err := d.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		log.Error().Err(err).Str("submissionId", submissionID).Msg("Failed to load submission for integrity check")
		d.finish(ctx, submissionID, started, models.StepFailed)
		return nil
	}
	if subject == nil {
		log.Warn().Str("submissionId", submissionID).Msg("Submission not found, skipping integrity check")
		d.finish(ctx, submissionID, started, models.StepCompleted)
		return nil
	}

	candidates, err := d.submissions.RecentAcceptedByProblem(ctx, subject.ProblemID, subject.UserID, d.opts.MaxComparisons)
	if err != nil {
		log.Error().Err(err).Str("submissionId", submissionID).Msg("Failed to load candidate submissions")
		d.finish(ctx, submissionID, started, models.StepFailed)
		return nil
	}
	if len(candidates) == 0 {
		d.finish(ctx, submissionID, started, models.StepCompleted)
		return nil
	}

	subjectTokens := Tokenize(Normalize(subject.SourceCode))
	subjectGrams := NGrams(subjectTokens, d.opts.NGramSize)

	reports := make([]*models.PlagiarismReport, 0)
	bestSimilarity := 0
	bestMatch := ""

	for _, candidate := range candidates {
		if candidate.SourceCode == "" {
			// Data-integrity anomaly: skip this candidate.
			log.Warn().Str("candidateId", candidate.ID).Msg("Candidate has no source code, skipping")
			continue
		}

		candidateTokens := Tokenize(Normalize(candidate.SourceCode))
		candidateGrams := NGrams(candidateTokens, d.opts.NGramSize)
		similarity := Jaccard(subjectGrams, candidateGrams)

		if similarity <= d.opts.ReportFloor {
			continue
		}

		report := &models.PlagiarismReport{
			ID:                uuid.New().String(),
			SubmissionID:      subject.ID,
			ComparedWithID:    candidate.ID,
			SimilarityPercent: similarity,
			IsFlagged:         similarity >= d.opts.FlagThreshold,
			Algorithm:         AlgorithmID,
			Detail: models.ReportDetail{
				NGramSize:       d.opts.NGramSize,
				SubjectTokens:   len(subjectTokens),
				CandidateTokens: len(candidateTokens),
				FlagThreshold:   d.opts.FlagThreshold,
			},
		}

		if err := d.reports.InsertReport(ctx, report); err != nil {
			log.Error().Err(err).
				Str("submissionId", subject.ID).
				Str("comparedWithId", candidate.ID).
				Msg("Failed to persist plagiarism report")
			continue
		}

		reports = append(reports, report)

		if report.IsFlagged && similarity > bestSimilarity {
			bestSimilarity = similarity
			bestMatch = candidate.ID
		}
	}

	if bestMatch != "" {
		d.flagAndNotify(ctx, subject, bestSimilarity, bestMatch)
	}

	d.finish(ctx, submissionID, started, models.StepCompleted)

	log.Info().
		Str("submissionId", submissionID).
		Int("candidates", len(candidates)).
		Int("reports", len(reports)).
		Bool("flagged", bestMatch != "").
		Msg("Integrity check completed")

	return reports
}

func (d *Detector) flagAndNotify(ctx context.Context, subject *models.Submission, similarity int, matchedID string) {
	reason := fmt.Sprintf("solution is %d%% similar to an earlier accepted solution (submission %s)", similarity, matchedID)

	if err := d.submissions.FlagSubmission(ctx, subject.ID, reason); err != nil {
		log.Error().Err(err).Str("submissionId", subject.ID).Msg("Failed to flag submission")
		return
	}

	metrics.SubmissionsFlagged.Inc()

	d.notifier.Notify(ctx,
		subject.UserID,
		models.NotificationTypePlagiarismFlag,
		"Submission flagged for review",
		fmt.Sprintf("Your solution for problem %s has been flagged for manual review: %s", subject.ProblemID, reason),
		map[string]interface{}{
			"submissionId": subject.ID,
			"problemId":    subject.ProblemID,
			"similarity":   similarity,
		},
	)
}

func (d *Detector) setStatus(ctx context.Context, submissionID string, step models.IntegrityStep) {
	if d.status == nil {
		return
	}
	if err := d.status.UpdateStatus(ctx, submissionID, step); err != nil {
		log.Warn().Err(err).Str("submissionId", submissionID).Msg("Failed to update integrity status")
	}
}

func (d *Detector) finish(ctx context.Context, submissionID string, started time.Time, step models.IntegrityStep) {
	d.setStatus(ctx, submissionID, step)
	metrics.IntegrityCheckDuration.Observe(time.Since(started).Seconds())
	metrics.IntegrityChecks.WithLabelValues(string(step)).Inc()
}

// CheckJob adapts a detector run to the worker pool's Job interface.
type CheckJob struct {
	Detector     *Detector
	SubmissionID string
}

func (j *CheckJob) Execute(ctx context.Context) error {
	j.Detector.Check(ctx, j.SubmissionID)
	return nil
}
