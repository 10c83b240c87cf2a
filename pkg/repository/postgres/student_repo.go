package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/student-profiles/pkg/student"
)

// StudentRepository implements student.Repository backed by PostgreSQL (pgx).
type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) (*StudentRepository, error) {
	r := &StudentRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *StudentRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS students (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	year_grade TEXT NOT NULL DEFAULT '',
	major_focus TEXT NOT NULL DEFAULT '',
	short_term_goals TEXT NOT NULL DEFAULT '',
	long_term_goals TEXT NOT NULL DEFAULT '',
	interests TEXT NOT NULL DEFAULT '',
	extracurricular TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS student_skills (
	student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	skill_name TEXT NOT NULL,
	proficiency_level TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (student_id, skill_name)
);
`)
	return err
}

const studentCols = `id, name, email, year_grade, major_focus, short_term_goals, long_term_goals, interests, extracurricular, created_at, updated_at`

func scanStudent(row pgx.Row) (student.Student, error) {
	var st student.Student
	err := row.Scan(&st.ID, &st.Name, &st.Email, &st.YearGrade, &st.MajorFocus,
		&st.ShortTermGoals, &st.LongTermGoals, &st.Interests, &st.Extracurricular,
		&st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func (r *StudentRepository) Create(ctx context.Context, st student.Student) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO students (name, email, year_grade, major_focus, short_term_goals, long_term_goals, interests, extracurricular, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING id
`, st.Name, st.Email, st.YearGrade, st.MajorFocus, st.ShortTermGoals, st.LongTermGoals, st.Interests, st.Extracurricular, now).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := insertSkills(ctx, tx, id, st.Skills, now); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (student.Student, error) {
	st, err := scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentCols+` FROM students WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	skills, err := r.loadSkills(ctx, id)
	if err != nil {
		return student.Student{}, err
	}
	st.Skills = skills
	return st, nil
}

func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]student.Student, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+studentCols+` FROM students ORDER BY name LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	students, err := collectStudents(rows)
	if err != nil {
		return nil, err
	}
	return r.attachSkills(ctx, students)
}

func (r *StudentRepository) Update(ctx context.Context, st student.Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, `
UPDATE students
SET name = $1, email = $2, year_grade = $3, major_focus = $4,
	short_term_goals = $5, long_term_goals = $6, interests = $7, extracurricular = $8,
	updated_at = $9
WHERE id = $10
`, st.Name, st.Email, st.YearGrade, st.MajorFocus, st.ShortTermGoals, st.LongTermGoals, st.Interests, st.Extracurricular, now, st.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return student.ErrNotFound
	}

	// Manual edits replace the skill set wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM student_skills WHERE student_id = $1`, st.ID); err != nil {
		return err
	}
	if err := insertSkills(ctx, tx, st.ID, st.Skills, now); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (r *StudentRepository) Search(ctx context.Context, q student.SearchQuery) ([]student.Student, error) {
	sql := `
SELECT DISTINCT s.` + strings.ReplaceAll(studentCols, ", ", ", s.") + `
FROM students s
LEFT JOIN student_skills sk ON s.id = sk.student_id
WHERE 1=1`
	var params []any
	arg := func(v any) string {
		params = append(params, v)
		return fmt.Sprintf("$%d", len(params))
	}

	if q.Query != "" {
		term := arg("%" + q.Query + "%")
		sql += fmt.Sprintf(` AND (
	s.name ILIKE %[1]s OR s.email ILIKE %[1]s OR
	s.short_term_goals ILIKE %[1]s OR s.long_term_goals ILIKE %[1]s OR
	s.interests ILIKE %[1]s OR s.extracurricular ILIKE %[1]s OR
	sk.skill_name ILIKE %[1]s
)`, term)
	}
	if len(q.Skills) > 0 {
		sql += ` AND sk.skill_name = ANY(` + arg(q.Skills) + `)`
	}
	if q.Interests != "" {
		sql += ` AND s.interests ILIKE ` + arg("%"+q.Interests+"%")
	}
	if q.Goals != "" {
		g := arg("%" + q.Goals + "%")
		sql += fmt.Sprintf(` AND (s.short_term_goals ILIKE %[1]s OR s.long_term_goals ILIKE %[1]s)`, g)
	}
	if q.YearGrade != "" {
		sql += ` AND s.year_grade = ` + arg(q.YearGrade)
	}
	if q.MajorFocus != "" {
		sql += ` AND s.major_focus ILIKE ` + arg("%"+q.MajorFocus+"%")
	}
	sql += ` ORDER BY s.name`

	rows, err := r.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	students, err := collectStudents(rows)
	if err != nil {
		return nil, err
	}
	return r.attachSkills(ctx, students)
}

func (r *StudentRepository) Filter(ctx context.Context, f student.FilterCriteria, sortBy string) ([]student.Student, error) {
	sql := `
SELECT s.` + strings.ReplaceAll(studentCols, ", ", ", s.") + `, COUNT(DISTINCT sk.skill_name) AS skill_count
FROM students s
LEFT JOIN student_skills sk ON s.id = sk.student_id
WHERE 1=1`
	var params []any
	arg := func(v any) string {
		params = append(params, v)
		return fmt.Sprintf("$%d", len(params))
	}

	if len(f.Skills) > 0 {
		sql += ` AND sk.skill_name = ANY(` + arg(f.Skills) + `)`
	}
	if len(f.SkillLevels) > 0 {
		sql += ` AND sk.proficiency_level = ANY(` + arg(f.SkillLevels) + `)`
	}
	if len(f.YearGrades) > 0 {
		sql += ` AND s.year_grade = ANY(` + arg(f.YearGrades) + `)`
	}
	if len(f.Majors) > 0 {
		var conds []string
		for _, m := range f.Majors {
			conds = append(conds, `s.major_focus ILIKE `+arg("%"+m+"%"))
		}
		sql += ` AND (` + strings.Join(conds, " OR ") + `)`
	}

	sql += ` GROUP BY s.id`
	if f.MinSkills > 0 {
		sql += ` HAVING COUNT(DISTINCT sk.skill_name) >= ` + arg(f.MinSkills)
	}

	switch sortBy {
	case "skills_count":
		sql += ` ORDER BY skill_count DESC`
	case "recent":
		sql += ` ORDER BY s.updated_at DESC`
	default:
		sql += ` ORDER BY s.name`
	}

	rows, err := r.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []student.Student
	for rows.Next() {
		var st student.Student
		var skillCount int
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.YearGrade, &st.MajorFocus,
			&st.ShortTermGoals, &st.LongTermGoals, &st.Interests, &st.Extracurricular,
			&st.CreatedAt, &st.UpdatedAt, &skillCount); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachSkills(ctx, students)
}

func (r *StudentRepository) FilterOptions(ctx context.Context) (student.FilterOptions, error) {
	var opts student.FilterOptions
	queries := []struct {
		sql  string
		dest *[]student.Option
	}{
		{`SELECT DISTINCT skill_name FROM student_skills ORDER BY skill_name`, &opts.Skills},
		{`SELECT DISTINCT proficiency_level FROM student_skills
		  ORDER BY CASE proficiency_level WHEN 'beginner' THEN 1 WHEN 'intermediate' THEN 2 WHEN 'advanced' THEN 3 END`, &opts.SkillLevels},
		{`SELECT DISTINCT year_grade FROM students WHERE year_grade <> '' ORDER BY year_grade`, &opts.YearGrades},
		{`SELECT DISTINCT major_focus FROM students WHERE major_focus <> '' ORDER BY major_focus`, &opts.Majors},
	}
	for _, q := range queries {
		rows, err := r.pool.Query(ctx, q.sql)
		if err != nil {
			return student.FilterOptions{}, err
		}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return student.FilterOptions{}, err
			}
			*q.dest = append(*q.dest, student.Option{Value: v, Label: v})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return student.FilterOptions{}, err
		}
	}
	return opts, nil
}

func (r *StudentRepository) loadSkills(ctx context.Context, studentID int64) ([]student.Skill, error) {
	rows, err := r.pool.Query(ctx, `
SELECT skill_name, proficiency_level, created_at
FROM student_skills WHERE student_id = $1 ORDER BY skill_name
`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var skills []student.Skill
	for rows.Next() {
		var sk student.Skill
		if err := rows.Scan(&sk.Name, &sk.Level, &sk.CreatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// attachSkills loads skills for a batch of students in one query.
func (r *StudentRepository) attachSkills(ctx context.Context, students []student.Student) ([]student.Student, error) {
	if len(students) == 0 {
		return students, nil
	}
	ids := make([]int64, len(students))
	index := make(map[int64]int, len(students))
	for i, st := range students {
		ids[i] = st.ID
		index[st.ID] = i
	}
	rows, err := r.pool.Query(ctx, `
SELECT student_id, skill_name, proficiency_level, created_at
FROM student_skills WHERE student_id = ANY($1) ORDER BY skill_name
`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sid int64
		var sk student.Skill
		if err := rows.Scan(&sid, &sk.Name, &sk.Level, &sk.CreatedAt); err != nil {
			return nil, err
		}
		i := index[sid]
		students[i].Skills = append(students[i].Skills, sk)
	}
	return students, rows.Err()
}

func insertSkills(ctx context.Context, tx pgx.Tx, studentID int64, skills []student.Skill, now time.Time) error {
	for _, sk := range skills {
		level := sk.Level
		if level == "" {
			level = student.DefaultLevel
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO student_skills (student_id, skill_name, proficiency_level, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, skill_name) DO UPDATE SET proficiency_level = EXCLUDED.proficiency_level
`, studentID, sk.Name, level, now); err != nil {
			return err
		}
	}
	return nil
}

func collectStudents(rows pgx.Rows) ([]student.Student, error) {
	var students []student.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}
