package survey

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("survey not found")

// Question types accepted by survey authoring.
var ValidQuestionTypes = []string{"text", "multiple_choice", "checkboxes", "rating"}

// Question is one authored survey question. Options only apply to choice
// types; Min/Max only to ratings.
type Question struct {
	ID      string   `json:"id" validate:"required"`
	Text    string   `json:"text" validate:"required"`
	Type    string   `json:"type" validate:"required"`
	Options []string `json:"options,omitempty"`
	Min     int      `json:"min,omitempty"`
	Max     int      `json:"max,omitempty"`
}

type Survey struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	// Response counters, populated on listing.
	TotalResponses int `json:"total_responses"`
}

// Response is one student's answer set for a survey; at most one per
// (survey, student) pair, later submissions replace earlier ones.
type Response struct {
	SurveyID     int64          `json:"survey_id"`
	StudentID    int64          `json:"student_id"`
	Answers      map[string]any `json:"responses"`
	CompletedAt  time.Time      `json:"completed_at"`
	StudentName  string         `json:"student_name,omitempty"`
	StudentEmail string         `json:"student_email,omitempty"`
}

// Template is a reusable question set; shared types are visible to everyone.
type Template struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	TemplateType string     `json:"template_type"`
	Questions    []Question `json:"questions"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SharedTemplateTypes are visible regardless of creator.
var SharedTemplateTypes = []string{"beginning_term", "mid_term", "project_preferences"}

// Repository is the persistence port for surveys, responses and templates.
type Repository interface {
	Create(ctx context.Context, sv Survey) (int64, error)
	GetByID(ctx context.Context, id int64) (Survey, error)
	List(ctx context.Context, limit, offset int) ([]Survey, error)
	Update(ctx context.Context, sv Survey) error

	UpsertResponse(ctx context.Context, r Response) error
	ListResponses(ctx context.Context, surveyID int64) ([]Response, error)

	CreateTemplate(ctx context.Context, t Template) (int64, error)
	ListTemplates(ctx context.Context, createdBy string) ([]Template, error)
}

// ProfileWriter is the port survey auto-population uses to push answers into
// the student profile. ApplyAutofill must run its writes in one transaction.
type ProfileWriter interface {
	ApplyAutofill(ctx context.Context, studentID int64, fields map[string]string, skills []string, level string) error
}
