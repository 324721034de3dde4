package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoprep/pulse/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const submissionsCollection = "submissions"

type SubmissionsRepository struct {
	mongoRepo *MongoRepository
}

func NewSubmissionsRepository(mongoRepo *MongoRepository) *SubmissionsRepository {
	return &SubmissionsRepository{
		mongoRepo: mongoRepo,
	}
}

// UpsertSubmission persists the submission keyed by its submissionId.
// Replaying the same event overwrites the existing document, so retried
// stream deliveries never produce duplicates.
func (r *SubmissionsRepository) UpsertSubmission(ctx context.Context, submission *models.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}

	filter := bson.M{"submissionId": submission.ID}
	opts := options.Replace().SetUpsert(true)

	if err := r.mongoRepo.ReplaceOne(ctx, submissionsCollection, filter, submission, opts); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}

	return nil
}

func (r *SubmissionsRepository) GetSubmission(ctx context.Context, submissionID string) (*models.Submission, error) {
	filter := bson.M{"submissionId": submissionID}

	var submission models.Submission
	err := r.mongoRepo.FindOne(ctx, submissionsCollection, filter).Decode(&submission)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return &submission, nil
}

// RecentAcceptedByProblem returns up to limit accepted submissions for
// the problem by authors other than excludeUserID, most recent first.
func (r *SubmissionsRepository) RecentAcceptedByProblem(ctx context.Context, problemID, excludeUserID string, limit int) ([]*models.Submission, error) {
	filter := bson.M{
		"problemId": problemID,
		"verdict":   models.VerdictAccepted,
		"userId":    bson.M{"$ne": excludeUserID},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.mongoRepo.FindMany(ctx, submissionsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var submissions []*models.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode candidate submissions: %w", err)
	}

	return submissions, nil
}

func (r *SubmissionsRepository) FlagSubmission(ctx context.Context, submissionID, reason string) error {
	filter := bson.M{"submissionId": submissionID}
	update := bson.M{"$set": bson.M{"isFlagged": true, "flagReason": reason}}

	if err := r.mongoRepo.UpdateOne(ctx, submissionsCollection, filter, update); err != nil {
		return fmt.Errorf("failed to flag submission: %w", err)
	}

	return nil
}

// SolvedProblemIDs returns the distinct problem IDs the user has an
// accepted submission for.
func (r *SubmissionsRepository) SolvedProblemIDs(ctx context.Context, userID string) ([]string, error) {
	filter := bson.M{"userId": userID, "verdict": models.VerdictAccepted}

	values, err := r.mongoRepo.Distinct(ctx, submissionsCollection, "problemId", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list solved problems: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}
