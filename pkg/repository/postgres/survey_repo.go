package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/student-profiles/pkg/survey"
)

// SurveyRepository implements survey.Repository backed by PostgreSQL (pgx).
// Questions and answer sets are stored as JSONB documents.
type SurveyRepository struct {
	pool *pgxpool.Pool
}

func NewSurveyRepository(pool *pgxpool.Pool) (*SurveyRepository, error) {
	r := &SurveyRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SurveyRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS surveys (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	questions JSONB NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS survey_responses (
	survey_id BIGINT NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
	student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	responses JSONB NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (survey_id, student_id)
);
CREATE TABLE IF NOT EXISTS survey_templates (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	template_type TEXT NOT NULL,
	questions JSONB NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *SurveyRepository) Create(ctx context.Context, sv survey.Survey) (int64, error) {
	questions, err := json.Marshal(sv.Questions)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
INSERT INTO surveys (title, description, questions, is_active, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, sv.Title, sv.Description, questions, sv.IsActive, sv.CreatedBy, time.Now().UTC()).Scan(&id)
	return id, err
}

func (r *SurveyRepository) GetByID(ctx context.Context, id int64) (survey.Survey, error) {
	var sv survey.Survey
	var questions []byte
	err := r.pool.QueryRow(ctx, `
SELECT id, title, description, questions, is_active, created_by, created_at
FROM surveys WHERE id = $1
`, id).Scan(&sv.ID, &sv.Title, &sv.Description, &questions, &sv.IsActive, &sv.CreatedBy, &sv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return survey.Survey{}, survey.ErrNotFound
		}
		return survey.Survey{}, err
	}
	if err := json.Unmarshal(questions, &sv.Questions); err != nil {
		return survey.Survey{}, err
	}
	return sv, nil
}

func (r *SurveyRepository) List(ctx context.Context, limit, offset int) ([]survey.Survey, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT s.id, s.title, s.description, s.questions, s.is_active, s.created_by, s.created_at,
	COUNT(r.student_id) AS total_responses
FROM surveys s
LEFT JOIN survey_responses r ON s.id = r.survey_id
GROUP BY s.id
ORDER BY s.created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []survey.Survey
	for rows.Next() {
		var sv survey.Survey
		var questions []byte
		if err := rows.Scan(&sv.ID, &sv.Title, &sv.Description, &questions, &sv.IsActive,
			&sv.CreatedBy, &sv.CreatedAt, &sv.TotalResponses); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &sv.Questions); err != nil {
			return nil, err
		}
		surveys = append(surveys, sv)
	}
	return surveys, rows.Err()
}

func (r *SurveyRepository) Update(ctx context.Context, sv survey.Survey) error {
	questions, err := json.Marshal(sv.Questions)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE surveys SET title = $1, description = $2, questions = $3, is_active = $4
WHERE id = $5
`, sv.Title, sv.Description, questions, sv.IsActive, sv.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return survey.ErrNotFound
	}
	return nil
}

func (r *SurveyRepository) UpsertResponse(ctx context.Context, resp survey.Response) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO survey_responses (survey_id, student_id, responses, completed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (survey_id, student_id) DO UPDATE
SET responses = EXCLUDED.responses, completed_at = EXCLUDED.completed_at
`, resp.SurveyID, resp.StudentID, answers, time.Now().UTC())
	return err
}

func (r *SurveyRepository) ListResponses(ctx context.Context, surveyID int64) ([]survey.Response, error) {
	rows, err := r.pool.Query(ctx, `
SELECT r.survey_id, r.student_id, r.responses, r.completed_at, s.name, s.email
FROM survey_responses r
JOIN students s ON s.id = r.student_id
WHERE r.survey_id = $1
ORDER BY r.completed_at DESC
`, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []survey.Response
	for rows.Next() {
		var resp survey.Response
		var answers []byte
		if err := rows.Scan(&resp.SurveyID, &resp.StudentID, &answers, &resp.CompletedAt,
			&resp.StudentName, &resp.StudentEmail); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &resp.Answers); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *SurveyRepository) CreateTemplate(ctx context.Context, t survey.Template) (int64, error) {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
INSERT INTO survey_templates (name, template_type, questions, created_by, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, t.Name, t.TemplateType, questions, t.CreatedBy, time.Now().UTC()).Scan(&id)
	return id, err
}

func (r *SurveyRepository) ListTemplates(ctx context.Context, createdBy string) ([]survey.Template, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, template_type, questions, created_by, created_at
FROM survey_templates
WHERE created_by = $1 OR template_type = ANY($2)
ORDER BY created_at DESC
`, createdBy, survey.SharedTemplateTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []survey.Template
	for rows.Next() {
		var t survey.Template
		var questions []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.TemplateType, &questions, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &t.Questions); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
