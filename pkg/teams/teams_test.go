package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/student-profiles/pkg/student"
)

func withSkills(id int64, major string, names ...string) student.Student {
	skills := make([]student.Skill, len(names))
	for i, n := range names {
		skills[i] = student.Skill{Name: n, Level: student.LevelBeginner}
	}
	return student.Student{ID: id, MajorFocus: major, Skills: skills}
}

func TestForm_EveryStudentAssignedExactlyOnce(t *testing.T) {
	roster := []student.Student{
		withSkills(1, "CS", "Python"),
		withSkills(2, "CS", "SQL"),
		withSkills(3, "EE", "Soldering"),
		withSkills(4, "CS", "Python"),
		withSkills(5, "Math", "Proofs"),
	}

	teams := Form(roster, 3, Criteria{})

	seen := map[int64]int{}
	for _, tm := range teams {
		for _, m := range tm.Members {
			seen[m.ID]++
		}
	}
	require.Len(t, seen, len(roster))
	for id, n := range seen {
		assert.Equal(t, 1, n, "student %d assigned %d times", id, n)
	}
}

func TestForm_MembersComplementSkills(t *testing.T) {
	roster := []student.Student{
		withSkills(1, "CS", "Python"),
		withSkills(2, "CS", "Python"), // nothing new over student 1
		withSkills(3, "CS", "SQL"),
	}

	teams := Form(roster, 3, Criteria{})

	// Student 2 brings no new skill to team 1 and seeds their own team.
	require.Len(t, teams, 2)
	assert.Equal(t, []int64{1, 3}, memberIDs(teams[0]))
	assert.Equal(t, []int64{2}, memberIDs(teams[1]))
}

func TestForm_DiverseMajors(t *testing.T) {
	roster := []student.Student{
		withSkills(1, "CS", "Python"),
		withSkills(2, "CS", "SQL"),   // new skill, same major
		withSkills(3, "EE", "HDL"),   // new skill, new major
	}

	teams := Form(roster, 3, Criteria{DiverseMajors: true})

	require.NotEmpty(t, teams)
	assert.Equal(t, []int64{1, 3}, memberIDs(teams[0]))
}

func TestForm_CombinedSkillsDeduplicated(t *testing.T) {
	roster := []student.Student{
		withSkills(1, "CS", "Python", "SQL"),
		withSkills(2, "EE", "python", "HDL"),
	}

	teams := Form(roster, 2, Criteria{})

	require.Len(t, teams, 1)
	assert.Equal(t, []string{"Python", "SQL", "HDL"}, teams[0].CombinedSkills)
	// 2 majors * 2 + 3 skills
	assert.Equal(t, 7, teams[0].DiversityScore)
}

func TestForm_DefaultTeamSize(t *testing.T) {
	roster := []student.Student{
		withSkills(1, "CS", "a"),
		withSkills(2, "CS", "b"),
		withSkills(3, "CS", "c"),
		withSkills(4, "CS", "d"),
	}

	teams := Form(roster, 0, Criteria{})

	require.NotEmpty(t, teams)
	assert.Equal(t, 3, teams[0].Size)
}

func memberIDs(tm Team) []int64 {
	ids := make([]int64, len(tm.Members))
	for i, m := range tm.Members {
		ids[i] = m.ID
	}
	return ids
}
