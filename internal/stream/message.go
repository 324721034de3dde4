package stream

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/algoprep/pulse/internal/models"
)

// StreamMessage is one raw entry read from the graded-submission
// stream.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission validates and converts a stream entry into a graded
// submission. Topics arrive comma-separated; submittedAt is optional
// RFC3339 and defaults to now.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	required := []string{"submissionId", "userId", "problemId", "verdict", "difficulty"}
	for _, key := range required {
		if msg.Fields[key] == "" {
			return nil, fmt.Errorf("missing required field %q in message %s", key, msg.ID)
		}
	}

	submission := &models.Submission{
		ID:         msg.Fields["submissionId"],
		UserID:     msg.Fields["userId"],
		ProblemID:  msg.Fields["problemId"],
		SourceCode: msg.Fields["sourceCode"],
		Language:   msg.Fields["language"],
		Verdict:    msg.Fields["verdict"],
		Difficulty: strings.ToLower(msg.Fields["difficulty"]),
	}

	if raw := msg.Fields["executionTimeMs"]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid executionTimeMs %q in message %s", raw, msg.ID)
		}
		submission.ExecutionTimeMs = ms
	}

	if raw := msg.Fields["topics"]; raw != "" {
		for _, topic := range strings.Split(raw, ",") {
			topic = strings.TrimSpace(topic)
			if topic != "" {
				submission.Topics = append(submission.Topics, topic)
			}
		}
	}

	if raw := msg.Fields["submittedAt"]; raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid submittedAt %q in message %s", raw, msg.ID)
		}
		submission.SubmittedAt = ts
	} else {
		submission.SubmittedAt = time.Now()
	}

	return submission, nil
}
