package analytics

import "context"

// UseCase exposes the dashboard analytics. Thin delegation layer; all the
// aggregation lives in SQL behind the Repository port.
type UseCase interface {
	Overview(ctx context.Context) (Overview, error)
	Skills(ctx context.Context) (SkillsReport, error)
	StudentSummary(ctx context.Context, studentID int64) (StudentSummary, error)
	Goals(ctx context.Context) (GoalsReport, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Overview(ctx context.Context) (Overview, error) { return s.repo.Overview(ctx) }

func (s *service) Skills(ctx context.Context) (SkillsReport, error) { return s.repo.Skills(ctx) }

func (s *service) StudentSummary(ctx context.Context, studentID int64) (StudentSummary, error) {
	return s.repo.StudentSummary(ctx, studentID)
}

func (s *service) Goals(ctx context.Context) (GoalsReport, error) { return s.repo.Goals(ctx) }
