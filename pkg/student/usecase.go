package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FilterResult carries either a flat listing or, when grouping was requested,
// a keyed grouping of the same rows.
type FilterResult struct {
	Students []Student            `json:"students,omitempty"`
	Groups   map[string][]Student `json:"groups,omitempty"`
}

// UseCase covers student CRUD plus the search/filter surface of the dashboard.
type UseCase interface {
	Create(ctx context.Context, st Student) (int64, error)
	Get(ctx context.Context, id int64) (Student, error)
	List(ctx context.Context, limit, offset int) ([]Student, error)
	Update(ctx context.Context, st Student) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q SearchQuery) ([]Student, error)
	Filter(ctx context.Context, f FilterCriteria, sortBy, groupBy string) (FilterResult, error)
	FilterOptions(ctx context.Context) (FilterOptions, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, st Student) (int64, error) {
	if err := validate.Struct(st); err != nil {
		return 0, fmt.Errorf("name and a valid email are required: %w", err)
	}
	if err := normalizeSkills(st.Skills); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, st)
}

func (s *service) Get(ctx context.Context, id int64) (Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Student, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Update(ctx context.Context, st Student) error {
	if err := normalizeSkills(st.Skills); err != nil {
		return err
	}
	return s.repo.Update(ctx, st)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Search(ctx context.Context, q SearchQuery) ([]Student, error) {
	return s.repo.Search(ctx, q)
}

func (s *service) Filter(ctx context.Context, f FilterCriteria, sortBy, groupBy string) (FilterResult, error) {
	students, err := s.repo.Filter(ctx, f, sortBy)
	if err != nil {
		return FilterResult{}, err
	}
	switch groupBy {
	case "major":
		return FilterResult{Groups: groupByField(students, func(st Student) string { return st.MajorFocus })}, nil
	case "year":
		return FilterResult{Groups: groupByField(students, func(st Student) string { return st.YearGrade })}, nil
	case "skills":
		return FilterResult{Groups: groupBySkillCount(students)}, nil
	default:
		return FilterResult{Students: students}, nil
	}
}

func (s *service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	return s.repo.FilterOptions(ctx)
}

func normalizeSkills(skills []Skill) error {
	for i := range skills {
		if skills[i].Name == "" {
			return errors.New("skill name must not be empty")
		}
		if skills[i].Level == "" {
			skills[i].Level = DefaultLevel
		}
		if !ValidLevel(skills[i].Level) {
			return fmt.Errorf("invalid proficiency level: %s", skills[i].Level)
		}
	}
	return nil
}

func groupByField(students []Student, key func(Student) string) map[string][]Student {
	grouped := make(map[string][]Student)
	for _, st := range students {
		k := key(st)
		if k == "" {
			k = "Other"
		}
		grouped[k] = append(grouped[k], st)
	}
	return grouped
}

func groupBySkillCount(students []Student) map[string][]Student {
	grouped := map[string][]Student{
		"High (5+ skills)":    {},
		"Medium (3-4 skills)": {},
		"Low (1-2 skills)":    {},
	}
	for _, st := range students {
		switch n := len(st.Skills); {
		case n >= 5:
			grouped["High (5+ skills)"] = append(grouped["High (5+ skills)"], st)
		case n >= 3:
			grouped["Medium (3-4 skills)"] = append(grouped["Medium (3-4 skills)"], st)
		default:
			grouped["Low (1-2 skills)"] = append(grouped["Low (1-2 skills)"], st)
		}
	}
	return grouped
}
