package repository

import (
	"context"
	"fmt"

	"github.com/algoprep/pulse/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const problemsCollection = "problems"

type ProblemsRepository struct {
	mongoRepo *MongoRepository
}

func NewProblemsRepository(mongoRepo *MongoRepository) *ProblemsRepository {
	return &ProblemsRepository{
		mongoRepo: mongoRepo,
	}
}

// FindUnsolved returns up to limit problems at the given difficulty
// whose IDs are not in excludeIDs. When topics is non-empty, only
// problems tagged with at least one of them match.
func (r *ProblemsRepository) FindUnsolved(ctx context.Context, difficulty string, topics []string, excludeIDs []string, limit int) ([]*models.Problem, error) {
	if limit <= 0 {
		return nil, nil
	}

	filter := bson.M{"difficulty": difficulty}
	if len(excludeIDs) > 0 {
		filter["problemId"] = bson.M{"$nin": excludeIDs}
	}
	if len(topics) > 0 {
		filter["topics"] = bson.M{"$in": topics}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "solveCount", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.mongoRepo.FindMany(ctx, problemsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find problems: %w", err)
	}
	defer cursor.Close(ctx)

	var problems []*models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, fmt.Errorf("failed to decode problems: %w", err)
	}

	return problems, nil
}
