package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Badge struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Criteria    string             `json:"criteria" bson:"criteria"`
	Points      int                `json:"points,omitempty" bson:"points,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Badge) Prepare(now time.Time) {
	b.ID = primitive.NilObjectID
	b.CreatedAt = now
	b.UpdatedAt = now
}

// UserBadge records that a user earned a badge. Unique per (UserID, BadgeID).
// Badge is only populated by detail lookups.
type UserBadge struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	BadgeID   string             `json:"badgeId" bson:"badgeId"`
	EarnedAt  time.Time          `json:"earnedAt" bson:"earnedAt"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Badge     *Badge             `json:"badge,omitempty" bson:"badge,omitempty"`
}
