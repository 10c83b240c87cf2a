package student

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("student not found")

// Proficiency levels for a student skill.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// DefaultLevel is the proficiency assigned by manual and survey flows when
// none is given. Resume ingestion uses its own default.
const DefaultLevel = LevelBeginner

// ValidLevel reports whether lv is one of the known proficiency levels.
func ValidLevel(lv string) bool {
	switch lv {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Student is the authoritative profile record.
type Student struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	YearGrade       string    `json:"year_grade"`
	MajorFocus      string    `json:"major_focus"`
	ShortTermGoals  string    `json:"short_term_goals"`
	LongTermGoals   string    `json:"long_term_goals"`
	Interests       string    `json:"interests"`
	Extracurricular string    `json:"extracurricular"`
	Skills          []Skill   `json:"skills"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Skill is one profile skill row; names are unique per student.
type Skill struct {
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchQuery is the free-text + per-field search of the students listing.
type SearchQuery struct {
	Query      string
	Skills     []string
	Interests  string
	Goals      string
	YearGrade  string
	MajorFocus string
}

// FilterCriteria is the multi-criteria filter of the admin dashboard.
type FilterCriteria struct {
	Skills      []string `json:"skills"`
	SkillLevels []string `json:"skill_levels"`
	YearGrades  []string `json:"year_grades"`
	Majors      []string `json:"majors"`
	MinSkills   int      `json:"min_skills"`
}

// FilterOptions lists the distinct values the dashboard offers as filters.
type FilterOptions struct {
	Skills      []Option `json:"skills"`
	SkillLevels []Option `json:"skill_levels"`
	YearGrades  []Option `json:"year_grades"`
	Majors      []Option `json:"majors"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Repository is the persistence port for students and their skills.
// Create and Update write the student row and its skill rows in one
// transaction; Update replaces the skill set wholesale.
type Repository interface {
	Create(ctx context.Context, st Student) (int64, error)
	GetByID(ctx context.Context, id int64) (Student, error)
	List(ctx context.Context, limit, offset int) ([]Student, error)
	Update(ctx context.Context, st Student) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q SearchQuery) ([]Student, error)
	Filter(ctx context.Context, f FilterCriteria, sortBy string) ([]Student, error)
	FilterOptions(ctx context.Context) (FilterOptions, error)
}
