// Package teams implements the greedy complementary-skill team builder used
// by the dashboard. Grouping is deterministic for a given student order.
package teams

import (
	"github.com/mkravets/student-profiles/pkg/nlp"
	"github.com/mkravets/student-profiles/pkg/student"
)

// Criteria tunes team formation.
type Criteria struct {
	DiverseMajors bool `json:"diverse_majors"`
}

// Team is one formed group with its combined skill pool.
type Team struct {
	ID             int               `json:"id"`
	Members        []student.Student `json:"members"`
	Size           int               `json:"size"`
	CombinedSkills []string          `json:"combined_skills"`
	DiversityScore int               `json:"diversity_score"`
}

// Form greedily seeds a team from each unassigned student and pulls in
// candidates that bring at least one new skill (and, if requested, a new
// major). Every student ends up on exactly one team.
func Form(students []student.Student, teamSize int, criteria Criteria) []Team {
	if teamSize <= 0 {
		teamSize = 3
	}
	used := make(map[int64]struct{}, len(students))
	var teams []Team

	for _, seed := range students {
		if _, ok := used[seed.ID]; ok {
			continue
		}
		team := []student.Student{seed}
		used[seed.ID] = struct{}{}

		for _, cand := range students {
			if len(team) >= teamSize {
				break
			}
			if _, ok := used[cand.ID]; ok {
				continue
			}
			if complements(team, cand, criteria) {
				team = append(team, cand)
				used[cand.ID] = struct{}{}
			}
		}

		skills := combinedSkills(team)
		teams = append(teams, Team{
			ID:             len(teams) + 1,
			Members:        team,
			Size:           len(team),
			CombinedSkills: skills,
			DiversityScore: diversityScore(team, skills),
		})
	}
	return teams
}

func complements(team []student.Student, cand student.Student, criteria Criteria) bool {
	have := make(map[string]struct{})
	for _, m := range team {
		for _, sk := range m.Skills {
			have[nlp.FoldKey(sk.Name)] = struct{}{}
		}
	}
	brings := false
	for _, sk := range cand.Skills {
		if _, ok := have[nlp.FoldKey(sk.Name)]; !ok {
			brings = true
			break
		}
	}
	if !brings {
		return false
	}
	if criteria.DiverseMajors {
		for _, m := range team {
			if m.MajorFocus == cand.MajorFocus {
				return false
			}
		}
	}
	return true
}

func combinedSkills(team []student.Student) []string {
	seen := make(map[string]struct{})
	var all []string
	for _, m := range team {
		for _, sk := range m.Skills {
			key := nlp.FoldKey(sk.Name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			all = append(all, sk.Name)
		}
	}
	return all
}

func diversityScore(team []student.Student, skills []string) int {
	majors := make(map[string]struct{})
	for _, m := range team {
		majors[m.MajorFocus] = struct{}{}
	}
	return len(majors)*2 + len(skills)
}
