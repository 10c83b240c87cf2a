package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFields_SkillsSectionFirst(t *testing.T) {
	text := "John Doe\n" +
		"SKILLS:\nPython, React, SQL\n" +
		"SUMMARY:\nStrong communication and leadership.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	// Section-pass hits come first in vocabulary order, then whole-document
	// hits in vocabulary order.
	assert.Equal(t, []string{"python", "react", "sql", "communication", "leadership"}, ex.Skills)
}

func TestExtractFields_WholeDocumentFallback(t *testing.T) {
	// No skills header at all; matching still happens over the full text.
	text := "Worked with Docker and Kubernetes on AWS."

	ex := ExtractFields(text, DefaultVocabulary())

	assert.Equal(t, []string{"aws", "docker", "kubernetes"}, ex.Skills)
}

func TestExtractFields_NoDuplicates(t *testing.T) {
	text := "SKILLS:\nPython, python, PYTHON\nAlso python elsewhere."

	ex := ExtractFields(text, DefaultVocabulary())

	assert.Equal(t, []string{"python"}, ex.Skills)
}

func TestExtractFields_Contact(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		email string
		phone string
	}{
		{"both", "Reach me at jane.doe@example.com or 555-123-4567.", "jane.doe@example.com", "555-123-4567"},
		{"first email wins", "a@x.com then b@y.com", "a@x.com", ""},
		{"dotted phone", "call 555.123.4567", "", "555.123.4567"},
		{"bare phone", "call 5551234567", "", "5551234567"},
		{"none", "no contact details here", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := ExtractFields(tt.text, DefaultVocabulary())
			assert.Equal(t, tt.email, ex.Contact.Email)
			assert.Equal(t, tt.phone, ex.Contact.Phone)
		})
	}
}

func TestExtractFields_ExperienceYearRange(t *testing.T) {
	text := "EXPERIENCE:\nSoftware intern 2021, then developer 2019 to 2023.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	require.Len(t, ex.Experience, 1)
	assert.Equal(t, "2019 - 2023", ex.Experience[0].Years)
	assert.True(t, len(ex.Experience[0].Description) > 0)
	assert.Contains(t, ex.Experience[0].Description, "...")
}

func TestExtractFields_ExperienceSingleYear(t *testing.T) {
	text := "EXPERIENCE:\nInternship in 2022 at a lab.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	require.Len(t, ex.Experience, 1)
	assert.Equal(t, "2022", ex.Experience[0].Years)
}

func TestExtractFields_ExperienceWithoutYears(t *testing.T) {
	text := "EXPERIENCE:\nVolunteered at the local library for a while.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	assert.Empty(t, ex.Experience)
}

func TestExtractFields_EducationPreservesCasing(t *testing.T) {
	text := "EDUCATION:\nBachelor of Science in Computer Science, 2024.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	require.Len(t, ex.Education, 1)
	assert.Equal(t, "Bachelor", ex.Education[0].Degree)
}

func TestExtractFields_EducationEarliestDegreeWins(t *testing.T) {
	text := "EDUCATION:\nMaster of Arts after a Bachelor of Science.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	require.Len(t, ex.Education, 1)
	assert.Equal(t, "Master", ex.Education[0].Degree)
}

func TestExtractFields_SectionBoundedByNextHeader(t *testing.T) {
	// The experience section ends where the next ALL-CAPS header starts, so
	// the education year must not leak into the experience range.
	text := "EXPERIENCE:\nDev work 2020.\nEDUCATION:\nBachelor degree 1999.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	require.Len(t, ex.Experience, 1)
	assert.Equal(t, "2020", ex.Experience[0].Years)
}

func TestExtractFields_SectionCapBeatsDistantHeader(t *testing.T) {
	// The 500-char span cap applies even when the next header sits further
	// out, so the late year must not widen the experience range.
	text := "EXPERIENCE:\nStarted 2010. " +
		strings.Repeat("fill ", 120) +
		"ended 2023.\nSUMMARY:\nDone.\n"

	ex := ExtractFields(text, DefaultVocabulary())

	require.Len(t, ex.Experience, 1)
	assert.Equal(t, "2010", ex.Experience[0].Years)
}

func TestExtractFields_EmptyText(t *testing.T) {
	ex := ExtractFields("", DefaultVocabulary())

	assert.Empty(t, ex.Skills)
	assert.Empty(t, ex.Experience)
	assert.Empty(t, ex.Education)
	assert.Empty(t, ex.Contact.Email)
	assert.Empty(t, ex.Contact.Phone)
	// Empty slices, not nil, so JSON renders [] rather than null.
	assert.NotNil(t, ex.Skills)
}

func TestExtractFields_Deterministic(t *testing.T) {
	text := "SKILLS:\nPython, SQL, Docker\nEXPERIENCE:\nWork 2020 - 2022\nEDUCATION:\nBachelor 2023\ncontact: me@example.com"
	vocab := DefaultVocabulary()

	first := ExtractFields(text, vocab)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractFields(text, vocab))
	}
}
