package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/algoprep/pulse/internal/config"
	"github.com/algoprep/pulse/internal/ingest"
	"github.com/algoprep/pulse/internal/models"
	"github.com/algoprep/pulse/internal/plagiarism"
	"github.com/algoprep/pulse/internal/recommend"
	"github.com/algoprep/pulse/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxRecommendationLimit = 50

// SubmissionRequest is the graded-submission event as posted by the
// grading service.
type SubmissionRequest struct {
	SubmissionID    string   `json:"submissionId"`
	UserID          string   `json:"userId" binding:"required"`
	ProblemID       string   `json:"problemId" binding:"required"`
	SourceCode      string   `json:"sourceCode" binding:"required"`
	Language        string   `json:"language"`
	Verdict         string   `json:"verdict" binding:"required,oneof=accepted rejected"`
	ExecutionTimeMs int64    `json:"executionTimeMs"`
	Difficulty      string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Topics          []string `json:"topics"`
}

type SubmissionResponse struct {
	SubmissionID string                  `json:"submissionId"`
	Performance  *models.UserPerformance `json:"performance"`
}

type CheckResponse struct {
	SubmissionID string               `json:"submissionId"`
	Step         models.IntegrityStep `json:"step"`
}

type ReportsResponse struct {
	SubmissionID string                     `json:"submissionId"`
	Status       models.IntegrityStep       `json:"status,omitempty"`
	Reports      []*models.PlagiarismReport `json:"reports"`
}

// Handler holds dependencies for handlers
type Handler struct {
	cfg         *config.Config
	pipeline    *ingest.Pipeline
	performance *repository.PerformanceRepository
	submissions *repository.SubmissionsRepository
	reports     *repository.ReportsRepository
	selector    *recommend.Selector
	status      *plagiarism.RedisStatusTracker
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	pipeline *ingest.Pipeline,
	performance *repository.PerformanceRepository,
	submissions *repository.SubmissionsRepository,
	reports *repository.ReportsRepository,
	selector *recommend.Selector,
	status *plagiarism.RedisStatusTracker,
) *Handler {
	return &Handler{
		cfg:         cfg,
		pipeline:    pipeline,
		performance: performance,
		submissions: submissions,
		reports:     reports,
		selector:    selector,
		status:      status,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// IngestSubmission runs the synchronous performance update and queues
// the integrity check, then returns 202 with the updated record.
func (h *Handler) IngestSubmission(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	submission := &models.Submission{
		ID:              req.SubmissionID,
		UserID:          req.UserID,
		ProblemID:       req.ProblemID,
		SourceCode:      req.SourceCode,
		Language:        req.Language,
		Verdict:         req.Verdict,
		ExecutionTimeMs: req.ExecutionTimeMs,
		Difficulty:      strings.ToLower(req.Difficulty),
		Topics:          req.Topics,
		SubmittedAt:     time.Now(),
	}

	record, err := h.pipeline.ProcessSubmission(c.Request.Context(), submission, "api")
	if err != nil {
		log.Error().Err(err).Str("userId", req.UserID).Msg("Failed to process submission")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to process submission",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusAccepted, SubmissionResponse{
		SubmissionID: submission.ID,
		Performance:  record,
	})
}

// GetPerformanceStats returns the full record, or a zeroed default for
// users with no submissions yet.
func (h *Handler) GetPerformanceStats(c *gin.Context) {
	userID := c.Param("userId")

	record, err := h.performance.GetByUser(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("Failed to load performance record")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load performance stats",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if record == nil {
		record = models.NewUserPerformance(userID)
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) GetRecommendations(c *gin.Context) {
	userID := c.Param("userId")

	limit := recommend.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  "INVALID_REQUEST",
			})
			return
		}
		limit = min(parsed, maxRecommendationLimit)
	}

	recommendations, err := h.selector.Recommend(c.Request.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("Failed to build recommendations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to build recommendations",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, recommendations)
}

func (h *Handler) GetPlagiarismReports(c *gin.Context) {
	submissionID := c.Param("submissionId")
	ctx := c.Request.Context()

	reports, err := h.reports.ListBySubmission(ctx, submissionID)
	if err != nil {
		log.Error().Err(err).Str("submissionId", submissionID).Msg("Failed to load plagiarism reports")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load reports",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if reports == nil {
		reports = []*models.PlagiarismReport{}
	}

	resp := ReportsResponse{
		SubmissionID: submissionID,
		Reports:      reports,
	}
	// Status is best-effort; an expired key just leaves it empty.
	if step, err := h.status.GetStatus(ctx, submissionID); err == nil {
		resp.Status = step
	}

	c.JSON(http.StatusOK, resp)
}

// TriggerCheck re-queues an integrity check for an existing submission.
func (h *Handler) TriggerCheck(c *gin.Context) {
	submissionID := c.Param("submissionId")
	ctx := c.Request.Context()

	submission, err := h.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		log.Error().Err(err).Str("submissionId", submissionID).Msg("Failed to load submission")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load submission",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if submission == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Submission not found",
			Code:  "SUBMISSION_NOT_FOUND",
		})
		return
	}

	h.pipeline.QueueCheck(ctx, submissionID)

	c.JSON(http.StatusAccepted, CheckResponse{
		SubmissionID: submissionID,
		Step:         models.StepQueued,
	})
}
