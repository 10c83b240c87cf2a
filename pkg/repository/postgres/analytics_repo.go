package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/student-profiles/pkg/analytics"
	"github.com/mkravets/student-profiles/pkg/student"
)

// AnalyticsRepository implements analytics.Repository as read-only aggregate
// queries over the student, skill, survey and resume tables.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) Overview(ctx context.Context) (analytics.Overview, error) {
	var ov analytics.Overview

	err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM students),
	(SELECT COUNT(*) FROM student_skills),
	COALESCE((SELECT ROUND(COUNT(*)::NUMERIC / NULLIF((SELECT COUNT(*) FROM students), 0)) FROM student_skills), 0)
`).Scan(&ov.Totals.TotalStudents, &ov.Totals.TotalSkills, &ov.Totals.AvgSkillsPerStudent)
	if err != nil {
		return analytics.Overview{}, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT skill_name, COUNT(*) AS student_count, array_agg(DISTINCT proficiency_level) AS levels
FROM student_skills
GROUP BY skill_name
ORDER BY student_count DESC
LIMIT 20
`)
	if err != nil {
		return analytics.Overview{}, err
	}
	for rows.Next() {
		var sc analytics.SkillCount
		if err := rows.Scan(&sc.SkillName, &sc.StudentCount, &sc.Levels); err != nil {
			rows.Close()
			return analytics.Overview{}, err
		}
		ov.SkillDistribution = append(ov.SkillDistribution, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.Overview{}, err
	}

	err = r.pool.QueryRow(ctx, `
SELECT
	COUNT(*) FILTER (WHERE short_term_goals <> ''),
	COUNT(*) FILTER (WHERE long_term_goals <> '')
FROM students
`).Scan(&ov.GoalStats.StudentsWithShortGoals, &ov.GoalStats.StudentsWithLongGoals)
	if err != nil {
		return analytics.Overview{}, err
	}

	rows, err = r.pool.Query(ctx, `
SELECT interests, COUNT(*) AS count
FROM students
WHERE interests <> ''
GROUP BY interests
ORDER BY count DESC
LIMIT 10
`)
	if err != nil {
		return analytics.Overview{}, err
	}
	for rows.Next() {
		var ic analytics.InterestCount
		if err := rows.Scan(&ic.Interests, &ic.Count); err != nil {
			rows.Close()
			return analytics.Overview{}, err
		}
		ov.InterestStats = append(ov.InterestStats, ic)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.Overview{}, err
	}

	rows, err = r.pool.Query(ctx, `
SELECT s.title, COUNT(r.student_id) AS responses, s.is_active
FROM surveys s
LEFT JOIN survey_responses r ON s.id = r.survey_id
GROUP BY s.id
ORDER BY s.created_at DESC
`)
	if err != nil {
		return analytics.Overview{}, err
	}
	for rows.Next() {
		var st analytics.SurveyStat
		if err := rows.Scan(&st.Title, &st.Responses, &st.IsActive); err != nil {
			rows.Close()
			return analytics.Overview{}, err
		}
		ov.SurveyStats = append(ov.SurveyStats, st)
	}
	rows.Close()
	return ov, rows.Err()
}

func (r *AnalyticsRepository) Skills(ctx context.Context) (analytics.SkillsReport, error) {
	var report analytics.SkillsReport

	rows, err := r.pool.Query(ctx, `
SELECT proficiency_level, COUNT(*) AS count
FROM student_skills
GROUP BY proficiency_level
ORDER BY CASE proficiency_level WHEN 'beginner' THEN 1 WHEN 'intermediate' THEN 2 WHEN 'advanced' THEN 3 END
`)
	if err != nil {
		return analytics.SkillsReport{}, err
	}
	for rows.Next() {
		var lc analytics.LevelCount
		if err := rows.Scan(&lc.ProficiencyLevel, &lc.Count); err != nil {
			rows.Close()
			return analytics.SkillsReport{}, err
		}
		report.SkillsByLevel = append(report.SkillsByLevel, lc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.SkillsReport{}, err
	}

	rows, err = r.pool.Query(ctx, `
SELECT skill_name,
	COUNT(*) AS student_count,
	COUNT(*) FILTER (WHERE proficiency_level = 'beginner') AS beginner_count,
	COUNT(*) FILTER (WHERE proficiency_level = 'intermediate') AS intermediate_count,
	COUNT(*) FILTER (WHERE proficiency_level = 'advanced') AS advanced_count
FROM student_skills
GROUP BY skill_name
ORDER BY student_count DESC
LIMIT 15
`)
	if err != nil {
		return analytics.SkillsReport{}, err
	}
	for rows.Next() {
		var ts analytics.TopSkill
		if err := rows.Scan(&ts.SkillName, &ts.StudentCount, &ts.BeginnerCount,
			&ts.IntermediateCount, &ts.AdvancedCount); err != nil {
			rows.Close()
			return analytics.SkillsReport{}, err
		}
		report.TopSkills = append(report.TopSkills, ts)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.SkillsReport{}, err
	}

	rows, err = r.pool.Query(ctx, `
SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS date, COUNT(*) AS count
FROM student_skills
WHERE created_at >= NOW() - INTERVAL '30 days'
GROUP BY created_at::date
ORDER BY created_at::date
`)
	if err != nil {
		return analytics.SkillsReport{}, err
	}
	for rows.Next() {
		var tp analytics.TrendPoint
		if err := rows.Scan(&tp.Date, &tp.Count); err != nil {
			rows.Close()
			return analytics.SkillsReport{}, err
		}
		report.SkillTrends = append(report.SkillTrends, tp)
	}
	rows.Close()
	return report, rows.Err()
}

func (r *AnalyticsRepository) StudentSummary(ctx context.Context, studentID int64) (analytics.StudentSummary, error) {
	var summary analytics.StudentSummary

	st, err := scanStudent(r.pool.QueryRow(ctx, `SELECT `+studentCols+` FROM students WHERE id = $1`, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return analytics.StudentSummary{}, student.ErrNotFound
		}
		return analytics.StudentSummary{}, err
	}
	summary.Student = st

	err = r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM student_skills WHERE student_id = $1),
	(SELECT COUNT(*) FROM resume_artifacts WHERE student_id = $1),
	(SELECT COUNT(*) FROM survey_responses WHERE student_id = $1)
`, studentID).Scan(&summary.TotalSkills, &summary.ResumeVersions, &summary.SurveysCompleted)
	if err != nil {
		return analytics.StudentSummary{}, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT skill_name, proficiency_level, created_at
FROM student_skills WHERE student_id = $1 ORDER BY skill_name
`, studentID)
	if err != nil {
		return analytics.StudentSummary{}, err
	}
	for rows.Next() {
		var sk student.Skill
		if err := rows.Scan(&sk.Name, &sk.Level, &sk.CreatedAt); err != nil {
			rows.Close()
			return analytics.StudentSummary{}, err
		}
		summary.SkillsBreakdown = append(summary.SkillsBreakdown, sk)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return analytics.StudentSummary{}, err
	}

	rows, err = r.pool.Query(ctx, `
SELECT s.title, r.completed_at
FROM survey_responses r
JOIN surveys s ON s.id = r.survey_id
WHERE r.student_id = $1
ORDER BY r.completed_at DESC
`, studentID)
	if err != nil {
		return analytics.StudentSummary{}, err
	}
	for rows.Next() {
		var sc analytics.SurveyCompleted
		if err := rows.Scan(&sc.Title, &sc.CompletedAt); err != nil {
			rows.Close()
			return analytics.StudentSummary{}, err
		}
		summary.SurveyResponses = append(summary.SurveyResponses, sc)
	}
	rows.Close()
	return summary, rows.Err()
}

func (r *AnalyticsRepository) Goals(ctx context.Context) (analytics.GoalsReport, error) {
	var report analytics.GoalsReport

	collect := func(sql string) ([]analytics.GoalCount, error) {
		rows, err := r.pool.Query(ctx, sql)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var goals []analytics.GoalCount
		for rows.Next() {
			var gc analytics.GoalCount
			if err := rows.Scan(&gc.Goal, &gc.Count); err != nil {
				return nil, err
			}
			goals = append(goals, gc)
		}
		return goals, rows.Err()
	}

	var err error
	report.ShortTermGoals, err = collect(`
SELECT short_term_goals, COUNT(*) FROM students
WHERE short_term_goals <> ''
GROUP BY short_term_goals ORDER BY COUNT(*) DESC LIMIT 20
`)
	if err != nil {
		return analytics.GoalsReport{}, err
	}
	report.LongTermGoals, err = collect(`
SELECT long_term_goals, COUNT(*) FROM students
WHERE long_term_goals <> ''
GROUP BY long_term_goals ORDER BY COUNT(*) DESC LIMIT 20
`)
	if err != nil {
		return analytics.GoalsReport{}, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT TO_CHAR(updated_at::date, 'YYYY-MM-DD') AS date, COUNT(*) AS count
FROM students
WHERE updated_at >= NOW() - INTERVAL '30 days'
GROUP BY updated_at::date
ORDER BY updated_at::date
`)
	if err != nil {
		return analytics.GoalsReport{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp analytics.TrendPoint
		if err := rows.Scan(&tp.Date, &tp.Count); err != nil {
			return analytics.GoalsReport{}, err
		}
		report.GoalUpdates = append(report.GoalUpdates, tp)
	}
	return report, rows.Err()
}
