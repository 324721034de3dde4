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

const performanceCollection = "user_performance"

type PerformanceRepository struct {
	mongoRepo *MongoRepository
}

func NewPerformanceRepository(mongoRepo *MongoRepository) *PerformanceRepository {
	return &PerformanceRepository{
		mongoRepo: mongoRepo,
	}
}

// GetByUser returns the user's performance record, or nil if the user
// has never submitted.
func (r *PerformanceRepository) GetByUser(ctx context.Context, userID string) (*models.UserPerformance, error) {
	filter := bson.M{"userId": userID}

	var record models.UserPerformance
	err := r.mongoRepo.FindOne(ctx, performanceCollection, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find performance record: %w", err)
	}

	return &record, nil
}

// Upsert persists the whole record as one atomic write.
func (r *PerformanceRepository) Upsert(ctx context.Context, record *models.UserPerformance) error {
	record.UpdatedAt = time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.UpdatedAt
	}

	filter := bson.M{"userId": record.UserID}
	opts := options.Replace().SetUpsert(true)

	if err := r.mongoRepo.ReplaceOne(ctx, performanceCollection, filter, record, opts); err != nil {
		return fmt.Errorf("failed to upsert performance record: %w", err)
	}

	return nil
}
