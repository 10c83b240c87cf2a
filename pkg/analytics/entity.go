package analytics

import (
	"context"
	"time"

	"github.com/mkravets/student-profiles/pkg/student"
)

// Overview is the class-wide dashboard summary.
type Overview struct {
	Totals            Totals          `json:"overview"`
	SkillDistribution []SkillCount    `json:"skill_distribution"`
	GoalStats         GoalStats       `json:"goal_stats"`
	InterestStats     []InterestCount `json:"interest_stats"`
	SurveyStats       []SurveyStat    `json:"survey_stats"`
}

type Totals struct {
	TotalStudents       int `json:"total_students"`
	TotalSkills         int `json:"total_skills"`
	AvgSkillsPerStudent int `json:"avg_skills_per_student"`
}

type SkillCount struct {
	SkillName    string   `json:"skill_name"`
	StudentCount int      `json:"student_count"`
	Levels       []string `json:"levels"`
}

type GoalStats struct {
	StudentsWithShortGoals int `json:"students_with_short_goals"`
	StudentsWithLongGoals  int `json:"students_with_long_goals"`
}

type InterestCount struct {
	Interests string `json:"interests"`
	Count     int    `json:"count"`
}

type SurveyStat struct {
	Title     string `json:"title"`
	Responses int    `json:"responses"`
	IsActive  bool   `json:"is_active"`
}

// SkillsReport is the detailed skills breakdown.
type SkillsReport struct {
	SkillsByLevel []LevelCount `json:"skills_by_level"`
	TopSkills     []TopSkill   `json:"top_skills"`
	SkillTrends   []TrendPoint `json:"skill_trends"`
}

type LevelCount struct {
	ProficiencyLevel string `json:"proficiency_level"`
	Count            int    `json:"count"`
}

type TopSkill struct {
	SkillName         string `json:"skill_name"`
	StudentCount      int    `json:"student_count"`
	BeginnerCount     int    `json:"beginner_count"`
	IntermediateCount int    `json:"intermediate_count"`
	AdvancedCount     int    `json:"advanced_count"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StudentSummary is the per-student analytics view.
type StudentSummary struct {
	Student          student.Student   `json:"student"`
	TotalSkills      int               `json:"total_skills"`
	ResumeVersions   int               `json:"resume_versions"`
	SurveysCompleted int               `json:"surveys_completed"`
	SkillsBreakdown  []student.Skill   `json:"skills_breakdown"`
	SurveyResponses  []SurveyCompleted `json:"survey_responses"`
}

type SurveyCompleted struct {
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completed_at"`
}

// GoalsReport aggregates goal statements across the class.
type GoalsReport struct {
	ShortTermGoals []GoalCount  `json:"short_term_goals"`
	LongTermGoals  []GoalCount  `json:"long_term_goals"`
	GoalUpdates    []TrendPoint `json:"goal_updates"`
}

type GoalCount struct {
	Goal  string `json:"goal"`
	Count int    `json:"count"`
}

// Repository runs the aggregate queries behind the dashboard.
type Repository interface {
	Overview(ctx context.Context) (Overview, error)
	Skills(ctx context.Context) (SkillsReport, error)
	StudentSummary(ctx context.Context, studentID int64) (StudentSummary, error)
	Goals(ctx context.Context) (GoalsReport, error)
}
