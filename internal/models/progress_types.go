package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) Valid() bool {
	return s == ProgressNotStarted || s == ProgressInProgress || s == ProgressCompleted
}

// Progress tracks one user's advance through one training material.
type Progress struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             string             `json:"userId" bson:"userId"`
	MaterialID         string             `json:"materialId" bson:"materialId"`
	Status             ProgressStatus     `json:"status" bson:"status"`
	ProgressPercentage float64            `json:"progressPercentage" bson:"progressPercentage"`
	StartedAt          *time.Time         `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt        *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	LastAccessedAt     time.Time          `json:"lastAccessedAt" bson:"lastAccessedAt"`
	TimeSpent          int                `json:"timeSpent,omitempty" bson:"timeSpent,omitempty"` // minutes
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ProgressUpdate struct {
	Status             *ProgressStatus `json:"status"`
	ProgressPercentage *float64        `json:"progressPercentage"`
	TimeSpent          *int            `json:"timeSpent"`
}

// Apply merges u and keeps the lifecycle timestamps consistent with the status.
func (p *Progress) Apply(u ProgressUpdate, now time.Time) {
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.ProgressPercentage != nil {
		p.ProgressPercentage = *u.ProgressPercentage
	}
	if u.TimeSpent != nil {
		p.TimeSpent = *u.TimeSpent
	}
	if p.Status == "" {
		p.Status = ProgressNotStarted
	}
	if p.Status != ProgressNotStarted && p.StartedAt == nil {
		started := now
		p.StartedAt = &started
	}
	if p.Status == ProgressCompleted {
		if p.CompletedAt == nil {
			completed := now
			p.CompletedAt = &completed
		}
		p.ProgressPercentage = 100
	}
	p.LastAccessedAt = now
	p.UpdatedAt = now
}

type ProgressStats struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	InProgress     int64   `json:"inProgress"`
	NotStarted     int64   `json:"notStarted"`
	CompletionRate float64 `json:"completionRate"`
	TotalTimeSpent int64   `json:"totalTimeSpent"`
}

// Finish derives the completion rate once the counts are in.
func (s *ProgressStats) Finish() {
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
}

func (s *ProgressStats) Add(status ProgressStatus, n int64, timeSpent int64) {
	s.Total += n
	s.TotalTimeSpent += timeSpent
	switch status {
	case ProgressCompleted:
		s.Completed += n
	case ProgressInProgress:
		s.InProgress += n
	case ProgressNotStarted:
		s.NotStarted += n
	}
}
