package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	surveys   map[int64]Survey
	nextID    int64
	responses []Response
}

func newFakeRepo() *fakeRepo { return &fakeRepo{surveys: map[int64]Survey{}} }

func (f *fakeRepo) Create(ctx context.Context, sv Survey) (int64, error) {
	f.nextID++
	sv.ID = f.nextID
	f.surveys[sv.ID] = sv
	return sv.ID, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (Survey, error) {
	sv, ok := f.surveys[id]
	if !ok {
		return Survey{}, ErrNotFound
	}
	return sv, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]Survey, error) { return nil, nil }

func (f *fakeRepo) Update(ctx context.Context, sv Survey) error { return nil }

func (f *fakeRepo) UpsertResponse(ctx context.Context, r Response) error {
	f.responses = append(f.responses, r)
	return nil
}

func (f *fakeRepo) ListResponses(ctx context.Context, surveyID int64) ([]Response, error) {
	return f.responses, nil
}

func (f *fakeRepo) CreateTemplate(ctx context.Context, t Template) (int64, error) { return 1, nil }

func (f *fakeRepo) ListTemplates(ctx context.Context, createdBy string) ([]Template, error) {
	return nil, nil
}

type fakeProfileWriter struct {
	calls  int
	fields map[string]string
	skills []string
	level  string
	err    error
}

func (f *fakeProfileWriter) ApplyAutofill(ctx context.Context, studentID int64, fields map[string]string, skills []string, level string) error {
	f.calls++
	f.fields = fields
	f.skills = skills
	f.level = level
	return f.err
}

func validSurvey() Survey {
	return Survey{
		Title: "Beginning of Term",
		Questions: []Question{
			{ID: "q_short_goal", Text: "Short term goal?", Type: "text"},
			{ID: "q_skill_list", Text: "Skills?", Type: "checkboxes", Options: []string{"Python", "SQL"}},
		},
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProfileWriter{})

	tests := []struct {
		name   string
		mutate func(*Survey)
	}{
		{"empty title", func(sv *Survey) { sv.Title = "  " }},
		{"no questions", func(sv *Survey) { sv.Questions = nil }},
		{"question without id", func(sv *Survey) { sv.Questions[0].ID = "" }},
		{"question without text", func(sv *Survey) { sv.Questions[0].Text = "" }},
		{"bad question type", func(sv *Survey) { sv.Questions[0].Type = "freeform" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv := validSurvey()
			tt.mutate(&sv)
			_, err := svc.Create(context.Background(), sv)
			assert.Error(t, err)
		})
	}
}

func TestCreate_ActivatesSurvey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeProfileWriter{})

	id, err := svc.Create(context.Background(), validSurvey())

	require.NoError(t, err)
	assert.True(t, repo.surveys[id].IsActive)
}

func TestSubmitResponse_TriggersAutofill(t *testing.T) {
	repo := newFakeRepo()
	writer := &fakeProfileWriter{}
	svc := NewService(repo, writer)

	resp := Response{
		SurveyID:  1,
		StudentID: 42,
		Answers: map[string]any{
			"q_short_goal": "pass algorithms",
			"q_skill_list": []any{"Python", "SQL"},
		},
	}
	require.NoError(t, svc.SubmitResponse(context.Background(), resp))

	require.Len(t, repo.responses, 1)
	assert.Equal(t, 1, writer.calls)
	assert.Equal(t, "pass algorithms", writer.fields["short_term_goals"])
	assert.Equal(t, []string{"Python", "SQL"}, writer.skills)
	assert.Equal(t, "beginner", writer.level)
}

func TestSubmitResponse_AutofillFailureDoesNotFailSubmission(t *testing.T) {
	repo := newFakeRepo()
	writer := &fakeProfileWriter{err: errors.New("db down")}
	svc := NewService(repo, writer)

	resp := Response{SurveyID: 1, StudentID: 42, Answers: map[string]any{"q_skill_x": "Go"}}
	assert.NoError(t, svc.SubmitResponse(context.Background(), resp))
	assert.Len(t, repo.responses, 1)
}

func TestSubmitResponse_NoMappableAnswersSkipsAutofill(t *testing.T) {
	writer := &fakeProfileWriter{}
	svc := NewService(newFakeRepo(), writer)

	resp := Response{SurveyID: 1, StudentID: 42, Answers: map[string]any{"q_rating": 5}}
	require.NoError(t, svc.SubmitResponse(context.Background(), resp))
	assert.Zero(t, writer.calls)
}

func TestMapAnswers(t *testing.T) {
	fields, skills := MapAnswers(map[string]any{
		"q_short_goal":        "finish project",
		"q_career_objective":  "become an engineer",
		"q_interest_areas":    "robotics",
		"q_activity_clubs":    "chess club",
		"q_skill_self_rating": "Python",
	})

	assert.Equal(t, "finish project", fields["short_term_goals"])
	assert.Equal(t, "become an engineer", fields["long_term_goals"])
	assert.Equal(t, "robotics", fields["interests"])
	assert.Equal(t, "chess club", fields["extracurricular"])
	assert.Equal(t, []string{"Python"}, skills)
}

func TestMapAnswers_GoalWithoutHorizonIsDropped(t *testing.T) {
	fields, skills := MapAnswers(map[string]any{"q_goal_misc": "something"})
	assert.Empty(t, fields)
	assert.Empty(t, skills)
}

func TestMapAnswers_DeterministicAcrossMapOrder(t *testing.T) {
	answers := map[string]any{
		"q_skill_a": "Go",
		"q_skill_b": "Rust",
		"q_skill_c": "SQL",
	}
	_, first := MapAnswers(answers)
	for i := 0; i < 5; i++ {
		_, again := MapAnswers(answers)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, first)
}
