package models

import (
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MaterialType string

const (
	MaterialVideo    MaterialType = "video"
	MaterialDocument MaterialType = "document"
	MaterialArticle  MaterialType = "article"
	MaterialCourse   MaterialType = "course"
	MaterialQuiz     MaterialType = "quiz"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// TrainingMaterial is mentor/mentee training content. It is the only entity that can be
// hard-deleted.
type TrainingMaterial struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Type        MaterialType       `json:"type" bson:"type"`
	Content     string             `json:"content,omitempty" bson:"content,omitempty"`
	URL         string             `json:"url,omitempty" bson:"url,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Duration    int                `json:"duration,omitempty" bson:"duration,omitempty"` // minutes
	Difficulty  Difficulty         `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (m *TrainingMaterial) Prepare(now time.Time) {
	m.ID = primitive.NilObjectID
	if m.Slug == "" {
		m.Slug = slug.Make(m.Title)
	}
	m.CreatedAt = now
	m.UpdatedAt = now
}

type TrainingMaterialUpdate struct {
	Title       *string       `json:"title" bson:"title,omitempty"`
	Description *string       `json:"description" bson:"description,omitempty"`
	Type        *MaterialType `json:"type" bson:"type,omitempty"`
	Content     *string       `json:"content" bson:"content,omitempty"`
	URL         *string       `json:"url" bson:"url,omitempty"`
	Category    *string       `json:"category" bson:"category,omitempty"`
	Tags        []string      `json:"tags" bson:"tags,omitempty"`
	Duration    *int          `json:"duration" bson:"duration,omitempty"`
	Difficulty  *Difficulty   `json:"difficulty" bson:"difficulty,omitempty"`
	IsPublished *bool         `json:"isPublished" bson:"isPublished,omitempty"`
}

func (m *TrainingMaterial) Apply(p TrainingMaterialUpdate, now time.Time) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.URL != nil {
		m.URL = *p.URL
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Tags != nil {
		m.Tags = append([]string(nil), p.Tags...)
	}
	if p.Duration != nil {
		m.Duration = *p.Duration
	}
	if p.Difficulty != nil {
		m.Difficulty = *p.Difficulty
	}
	if p.IsPublished != nil {
		m.IsPublished = *p.IsPublished
	}
	m.UpdatedAt = now
}
