package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResourceType string

const (
	ResourcePDF   ResourceType = "pdf"
	ResourceVideo ResourceType = "video"
	ResourceDocx  ResourceType = "docx"
	ResourceAudio ResourceType = "audio"
	ResourceLink  ResourceType = "link"
	ResourceOther ResourceType = "other"
)

// Resource is a downloadable item in the member library. Rating is the running mean of
// every rating received; RatingCount is how many there were.
type Resource struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Type         ResourceType       `json:"type" bson:"type"`
	URL          string             `json:"url" bson:"url"`
	FileSize     string             `json:"fileSize,omitempty" bson:"fileSize,omitempty"`
	Downloads    int                `json:"downloads" bson:"downloads"`
	Rating       float64            `json:"rating" bson:"rating"`
	RatingCount  int                `json:"ratingCount" bson:"ratingCount"`
	Category     string             `json:"category,omitempty" bson:"category,omitempty"`
	Tags         []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	ThumbnailURL string             `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	IsPublished  bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Prepare resets the counters of a new resource.
func (r *Resource) Prepare(now time.Time) {
	r.ID = primitive.NilObjectID
	if r.Type == "" {
		r.Type = ResourceOther
	}
	r.Downloads = 0
	r.Rating = 0
	r.RatingCount = 0
	r.CreatedAt = now
	r.UpdatedAt = now
}

// ValidateRating accepts whole or fractional ratings from 1 to 5.
func ValidateRating(value float64) error {
	if value < 1 || value > 5 {
		return ErrInvalidRating
	}
	return nil
}

// AddRating folds value into the running mean.
func (r *Resource) AddRating(value float64, now time.Time) {
	count := r.RatingCount + 1
	r.Rating = (r.Rating*float64(r.RatingCount) + value) / float64(count)
	r.RatingCount = count
	r.UpdatedAt = now
}

type ResourceUpdate struct {
	Title        *string       `json:"title" bson:"title,omitempty"`
	Description  *string       `json:"description" bson:"description,omitempty"`
	Type         *ResourceType `json:"type" bson:"type,omitempty"`
	URL          *string       `json:"url" bson:"url,omitempty"`
	FileSize     *string       `json:"fileSize" bson:"fileSize,omitempty"`
	Category     *string       `json:"category" bson:"category,omitempty"`
	Tags         []string      `json:"tags" bson:"tags,omitempty"`
	ThumbnailURL *string       `json:"thumbnailUrl" bson:"thumbnailUrl,omitempty"`
	IsPublished  *bool         `json:"isPublished" bson:"isPublished,omitempty"`
}

func (r *Resource) Apply(p ResourceUpdate, now time.Time) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.URL != nil {
		r.URL = *p.URL
	}
	if p.FileSize != nil {
		r.FileSize = *p.FileSize
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Tags != nil {
		r.Tags = append([]string(nil), p.Tags...)
	}
	if p.ThumbnailURL != nil {
		r.ThumbnailURL = *p.ThumbnailURL
	}
	if p.IsPublished != nil {
		r.IsPublished = *p.IsPublished
	}
	r.UpdatedAt = now
}
