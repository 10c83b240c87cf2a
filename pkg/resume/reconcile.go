package resume

import "github.com/mkravets/student-profiles/pkg/nlp"

// Skills ingested from a resume default to "intermediate", as opposed to the
// "beginner" default used by manual edits and survey auto-population.
const IngestedSkillLevel = "intermediate"

// MissingSkillValue is the resume-side value recorded for a profile skill the
// resume never mentions.
const MissingSkillValue = "not found in resume"

// Outcome is the result of diffing an extraction against a profile snapshot.
// SkillsToAdd is strictly additive; Discrepancies replaces the student's
// previous record wholesale (empty means clear).
type Outcome struct {
	SkillsToAdd   []string
	Discrepancies []Discrepancy
}

// Reconcile diffs extracted candidate data against the pre-merge profile
// snapshot. Pure function; persistence is the caller's job.
//
// Skills compare case-insensitively, existing profile data is never modified
// or removed, and the missing-skill check runs against the snapshot taken
// before the merge, not the post-merge set.
func Reconcile(snap ProfileSnapshot, ex Extraction) Outcome {
	existing := make(map[string]struct{}, len(snap.Skills))
	for _, s := range snap.Skills {
		existing[nlp.FoldKey(s)] = struct{}{}
	}

	out := Outcome{SkillsToAdd: []string{}, Discrepancies: []Discrepancy{}}

	extracted := make(map[string]struct{}, len(ex.Skills))
	for _, s := range ex.Skills {
		key := nlp.FoldKey(s)
		extracted[key] = struct{}{}
		if _, ok := existing[key]; !ok {
			out.SkillsToAdd = append(out.SkillsToAdd, s)
		}
	}

	if ex.Contact.Email != "" && snap.Email != ex.Contact.Email {
		out.Discrepancies = append(out.Discrepancies, Discrepancy{
			Field:        "email",
			ProfileValue: snap.Email,
			ResumeValue:  ex.Contact.Email,
		})
	}

	for _, s := range snap.Skills {
		if _, ok := extracted[nlp.FoldKey(s)]; !ok {
			out.Discrepancies = append(out.Discrepancies, Discrepancy{
				Field:        "skills",
				ProfileValue: s,
				ResumeValue:  MissingSkillValue,
			})
		}
	}

	return out
}
