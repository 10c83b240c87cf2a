package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile_AdditiveSkills(t *testing.T) {
	snap := ProfileSnapshot{StudentID: 1, Email: "a@x.com", Skills: []string{"Python"}}
	ex := Extraction{
		Skills:  []string{"python", "sql"},
		Contact: Contact{Email: "a@x.com"},
	}

	out := Reconcile(snap, ex)

	// "python" already exists (case-insensitive); only "sql" is new.
	assert.Equal(t, []string{"sql"}, out.SkillsToAdd)
	assert.Empty(t, out.Discrepancies)
}

func TestReconcile_EmailMismatch(t *testing.T) {
	snap := ProfileSnapshot{StudentID: 1, Email: "a@x.com"}
	ex := Extraction{Contact: Contact{Email: "b@x.com"}}

	out := Reconcile(snap, ex)

	assert.Equal(t, []Discrepancy{{
		Field:        "email",
		ProfileValue: "a@x.com",
		ResumeValue:  "b@x.com",
	}}, out.Discrepancies)
}

func TestReconcile_NoEmailExtracted(t *testing.T) {
	snap := ProfileSnapshot{StudentID: 1, Email: "a@x.com"}

	out := Reconcile(snap, Extraction{})

	// Absent resume email is not a mismatch.
	assert.Empty(t, out.Discrepancies)
}

func TestReconcile_MissingSkillRecorded(t *testing.T) {
	snap := ProfileSnapshot{StudentID: 1, Skills: []string{"Rust", "Python"}}
	ex := Extraction{Skills: []string{"python"}}

	out := Reconcile(snap, ex)

	assert.Empty(t, out.SkillsToAdd)
	// Stored casing is preserved in the discrepancy.
	assert.Equal(t, []Discrepancy{{
		Field:        "skills",
		ProfileValue: "Rust",
		ResumeValue:  MissingSkillValue,
	}}, out.Discrepancies)
}

func TestReconcile_MissingCheckUsesPreMergeSnapshot(t *testing.T) {
	// A skill that is both new and extracted must not be flagged missing once
	// added: the check runs against the snapshot, which does not include it.
	snap := ProfileSnapshot{StudentID: 1, Skills: []string{}}
	ex := Extraction{Skills: []string{"docker"}}

	out := Reconcile(snap, ex)

	assert.Equal(t, []string{"docker"}, out.SkillsToAdd)
	assert.Empty(t, out.Discrepancies)
}

func TestReconcile_MixedOutcome(t *testing.T) {
	snap := ProfileSnapshot{StudentID: 42, Email: "a@x.com", Skills: []string{"Python"}}
	ex := Extraction{
		Skills:  []string{"python", "excel"},
		Contact: Contact{Email: "b@x.com"},
	}

	out := Reconcile(snap, ex)

	assert.Equal(t, []string{"excel"}, out.SkillsToAdd)
	// "python" matched case-insensitively, so email is the only mismatch.
	assert.Equal(t, []Discrepancy{{
		Field:        "email",
		ProfileValue: "a@x.com",
		ResumeValue:  "b@x.com",
	}}, out.Discrepancies)
}

func TestReconcile_EmptyExtraction(t *testing.T) {
	snap := ProfileSnapshot{StudentID: 1, Email: "a@x.com", Skills: []string{"Go"}}

	out := Reconcile(snap, Extraction{})

	assert.Empty(t, out.SkillsToAdd)
	assert.Equal(t, []Discrepancy{{
		Field:        "skills",
		ProfileValue: "Go",
		ResumeValue:  MissingSkillValue,
	}}, out.Discrepancies)
}
