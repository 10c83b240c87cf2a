package survey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mkravets/student-profiles/pkg/student"
)

var validate = validator.New()

// UseCase covers survey authoring, response collection and templates.
// Submitting a response also auto-populates the student profile from the
// answers; autofill failure is logged but does not fail the submission.
type UseCase interface {
	Create(ctx context.Context, sv Survey) (int64, error)
	Get(ctx context.Context, id int64) (Survey, error)
	List(ctx context.Context, limit, offset int) ([]Survey, error)
	Update(ctx context.Context, sv Survey) error

	SubmitResponse(ctx context.Context, r Response) error
	ListResponses(ctx context.Context, surveyID int64) ([]Response, error)

	CreateTemplate(ctx context.Context, t Template) (int64, error)
	ListTemplates(ctx context.Context, createdBy string) ([]Template, error)
}

type service struct {
	repo     Repository
	profiles ProfileWriter
}

func NewService(repo Repository, profiles ProfileWriter) UseCase {
	return &service{repo: repo, profiles: profiles}
}

func (s *service) Create(ctx context.Context, sv Survey) (int64, error) {
	sv.Title = strings.TrimSpace(sv.Title)
	if sv.Title == "" {
		return 0, errors.New("survey title is required")
	}
	if len(sv.Questions) == 0 {
		return 0, errors.New("survey must have at least one question")
	}
	for _, q := range sv.Questions {
		if err := validate.Struct(q); err != nil {
			return 0, fmt.Errorf("each question must have id, text, and type: %w", err)
		}
		if !validQuestionType(q.Type) {
			return 0, fmt.Errorf("invalid question type: %s", q.Type)
		}
	}
	sv.IsActive = true
	return s.repo.Create(ctx, sv)
}

func (s *service) Get(ctx context.Context, id int64) (Survey, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Survey, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Update(ctx context.Context, sv Survey) error {
	return s.repo.Update(ctx, sv)
}

func (s *service) SubmitResponse(ctx context.Context, r Response) error {
	if err := s.repo.UpsertResponse(ctx, r); err != nil {
		return err
	}
	fields, skills := MapAnswers(r.Answers)
	if len(fields) == 0 && len(skills) == 0 {
		return nil
	}
	if err := s.profiles.ApplyAutofill(ctx, r.StudentID, fields, skills, student.DefaultLevel); err != nil {
		log.Printf("survey %d: profile autofill for student %d failed: %v", r.SurveyID, r.StudentID, err)
	}
	return nil
}

func (s *service) ListResponses(ctx context.Context, surveyID int64) ([]Response, error) {
	return s.repo.ListResponses(ctx, surveyID)
}

func (s *service) CreateTemplate(ctx context.Context, t Template) (int64, error) {
	if strings.TrimSpace(t.Name) == "" {
		return 0, errors.New("template name is required")
	}
	return s.repo.CreateTemplate(ctx, t)
}

func (s *service) ListTemplates(ctx context.Context, createdBy string) ([]Template, error) {
	return s.repo.ListTemplates(ctx, createdBy)
}

func validQuestionType(t string) bool {
	for _, v := range ValidQuestionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// MapAnswers maps answers onto profile fields by question-id keywords:
// goal/objective questions land in the goal fields, interest and
// activity questions in their respective fields, and skill questions yield
// skill names. Question ids are walked in sorted order so the outcome does
// not depend on map iteration.
func MapAnswers(answers map[string]any) (fields map[string]string, skills []string) {
	fields = map[string]string{}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		answer := answers[id]
		switch {
		case strings.Contains(id, "goal") || strings.Contains(id, "objective"):
			if strings.Contains(id, "short") || strings.Contains(id, "current") {
				fields["short_term_goals"] = stringify(answer)
			} else if strings.Contains(id, "long") || strings.Contains(id, "career") {
				fields["long_term_goals"] = stringify(answer)
			}
		case strings.Contains(id, "interest"):
			fields["interests"] = stringify(answer)
		case strings.Contains(id, "activity") || strings.Contains(id, "extracurricular"):
			fields["extracurricular"] = stringify(answer)
		case strings.Contains(id, "skill"):
			switch v := answer.(type) {
			case []any:
				for _, item := range v {
					skills = append(skills, stringify(item))
				}
			case []string:
				skills = append(skills, v...)
			default:
				skills = append(skills, stringify(answer))
			}
		}
	}
	return fields, skills
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
