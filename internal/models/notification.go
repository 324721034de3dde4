package models

import (
	"time"
)

const NotificationTypePlagiarismFlag = "PLAGIARISM_FLAG"

// Notification is a best-effort message to a user. Delivery (email,
// in-app rendering) happens downstream; this service only records and
// publishes it.
type Notification struct {
	UserID    string                 `bson:"userId" json:"userId"`
	Type      string                 `bson:"type" json:"type"`
	Title     string                 `bson:"title" json:"title"`
	Message   string                 `bson:"message" json:"message"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
