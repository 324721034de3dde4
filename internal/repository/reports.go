package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoprep/pulse/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportsCollection = "plagiarism_reports"

type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ReportsRepository) InsertReport(ctx context.Context, report *models.PlagiarismReport) error {
	report.CreatedAt = time.Now()

	err := r.mongoRepo.InsertOne(ctx, reportsCollection, report)
	if err != nil {
		return fmt.Errorf("failed to insert plagiarism report: %w", err)
	}

	return nil
}

func (r *ReportsRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*models.PlagiarismReport, error) {
	filter := bson.M{"submissionId": submissionID}
	opts := options.Find().SetSort(bson.D{{Key: "similarityPercent", Value: -1}})

	cursor, err := r.mongoRepo.FindMany(ctx, reportsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.PlagiarismReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}

	return reports, nil
}
