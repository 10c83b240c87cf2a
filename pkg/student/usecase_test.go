package student

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	students map[int64]Student
	nextID   int64
	filtered []Student
	sortBy   string
}

func newFakeRepo() *fakeRepo { return &fakeRepo{students: map[int64]Student{}} }

func (f *fakeRepo) Create(ctx context.Context, st Student) (int64, error) {
	f.nextID++
	st.ID = f.nextID
	f.students[st.ID] = st
	return st.ID, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (Student, error) {
	st, ok := f.students[id]
	if !ok {
		return Student{}, ErrNotFound
	}
	return st, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]Student, error) { return nil, nil }

func (f *fakeRepo) Update(ctx context.Context, st Student) error {
	if _, ok := f.students[st.ID]; !ok {
		return ErrNotFound
	}
	f.students[st.ID] = st
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.students[id]; !ok {
		return ErrNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, q SearchQuery) ([]Student, error) { return nil, nil }

func (f *fakeRepo) Filter(ctx context.Context, fc FilterCriteria, sortBy string) ([]Student, error) {
	f.sortBy = sortBy
	return f.filtered, nil
}

func (f *fakeRepo) FilterOptions(ctx context.Context) (FilterOptions, error) {
	return FilterOptions{}, nil
}

func TestCreate_RequiresNameAndEmail(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Student{Name: "", Email: "a@x.com"})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), Student{Name: "Ann", Email: ""})
	assert.Error(t, err)
}

func TestCreate_DefaultsSkillLevel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	id, err := svc.Create(context.Background(), Student{
		Name:   "Ann",
		Email:  "ann@x.com",
		Skills: []Skill{{Name: "Python"}},
	})

	require.NoError(t, err)
	assert.Equal(t, LevelBeginner, repo.students[id].Skills[0].Level)
}

func TestCreate_RejectsInvalidLevel(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Student{
		Name:   "Ann",
		Email:  "ann@x.com",
		Skills: []Skill{{Name: "Python", Level: "wizard"}},
	})
	assert.Error(t, err)
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("beginner"))
	assert.True(t, ValidLevel("intermediate"))
	assert.True(t, ValidLevel("advanced"))
	assert.False(t, ValidLevel("expert"))
	assert.False(t, ValidLevel(""))
}

func skillsN(n int) []Skill {
	out := make([]Skill, n)
	for i := range out {
		out[i] = Skill{Name: string(rune('a' + i)), Level: LevelBeginner}
	}
	return out
}

func TestFilter_GroupByMajor(t *testing.T) {
	repo := newFakeRepo()
	repo.filtered = []Student{
		{ID: 1, Name: "Ann", MajorFocus: "CS"},
		{ID: 2, Name: "Bob", MajorFocus: "CS"},
		{ID: 3, Name: "Cid", MajorFocus: ""},
	}
	svc := NewService(repo)

	res, err := svc.Filter(context.Background(), FilterCriteria{}, "", "major")

	require.NoError(t, err)
	assert.Nil(t, res.Students)
	assert.Len(t, res.Groups["CS"], 2)
	// Blank majors land in a catch-all bucket.
	assert.Len(t, res.Groups["Other"], 1)
}

func TestFilter_GroupBySkillCount(t *testing.T) {
	repo := newFakeRepo()
	repo.filtered = []Student{
		{ID: 1, Skills: skillsN(6)},
		{ID: 2, Skills: skillsN(3)},
		{ID: 3, Skills: skillsN(1)},
	}
	svc := NewService(repo)

	res, err := svc.Filter(context.Background(), FilterCriteria{}, "", "skills")

	require.NoError(t, err)
	assert.Len(t, res.Groups["High (5+ skills)"], 1)
	assert.Len(t, res.Groups["Medium (3-4 skills)"], 1)
	assert.Len(t, res.Groups["Low (1-2 skills)"], 1)
}

func TestFilter_NoGroupingReturnsFlatList(t *testing.T) {
	repo := newFakeRepo()
	repo.filtered = []Student{{ID: 1}, {ID: 2}}
	svc := NewService(repo)

	res, err := svc.Filter(context.Background(), FilterCriteria{}, "skills_count", "")

	require.NoError(t, err)
	assert.Len(t, res.Students, 2)
	assert.Nil(t, res.Groups)
	assert.Equal(t, "skills_count", repo.sortBy)
}
