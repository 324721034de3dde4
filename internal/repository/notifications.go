package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoprep/pulse/internal/models"
)

const notificationsCollection = "notifications"

type NotificationsRepository struct {
	mongoRepo *MongoRepository
}

func NewNotificationsRepository(mongoRepo *MongoRepository) *NotificationsRepository {
	return &NotificationsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *NotificationsRepository) InsertNotification(ctx context.Context, notification *models.Notification) error {
	notification.CreatedAt = time.Now()

	err := r.mongoRepo.InsertOne(ctx, notificationsCollection, notification)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}
