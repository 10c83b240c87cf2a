package resume

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mkravets/student-profiles/pkg/nlp"
)

const (
	// A located section spans at most this many characters past its header
	// unless another ALL-CAPS header line appears first.
	sectionSpanCap = 500

	experienceExcerptLen = 200
	educationExcerptLen  = 100
)

var (
	reEmail       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone       = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	reYear        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	reNextSection = regexp.MustCompile(`\n\s*[A-Z][A-Z\s]{2,}:`)
)

// ExtractFields derives a structured candidate record from plain resume text.
// Pure function: identical text and vocabulary always produce identical output.
func ExtractFields(text string, vocab Vocabulary) Extraction {
	ex := Extraction{
		Skills:     []string{},
		Experience: []ExperienceEntry{},
		Education:  []EducationEntry{},
	}

	lower := nlp.LowerASCII(text)

	ex.Skills = extractSkills(text, lower, vocab)

	if m := reEmail.FindString(text); m != "" {
		ex.Contact.Email = m
	}
	if m := rePhone.FindString(text); m != "" {
		ex.Contact.Phone = m
	}

	if sec, ok := findSection(text, lower, vocab.ExperienceHeaders); ok {
		if entry, ok := extractExperience(sec); ok {
			ex.Experience = append(ex.Experience, entry)
		}
	}
	if sec, ok := findSection(text, lower, vocab.EducationHeaders); ok {
		if entry, ok := extractEducation(sec, vocab.Degrees); ok {
			ex.Education = append(ex.Education, entry)
		}
	}

	return ex
}

// findSection locates the first occurrence of any header synonym in the
// lowercased corpus and returns the original-cased span that follows it,
// bounded by the next ALL-CAPS header line or the span cap.
func findSection(text, lower string, headers []string) (string, bool) {
	for _, header := range headers {
		idx := strings.Index(lower, header)
		if idx < 0 {
			continue
		}
		after := text[idx+len(header):]
		end := len(after)
		if loc := reNextSection.FindStringIndex(after); loc != nil {
			end = loc[0]
		}
		// The cap applies even when a header was found further out.
		if end > sectionSpanCap {
			end = sectionSpanCap
		}
		return after[:end], true
	}
	return "", false
}

// extractSkills runs the two matching passes: first within the skills section
// (when one exists), then across the whole document for anything not yet
// recorded. Insertion order is vocabulary order within each pass.
func extractSkills(text, lower string, vocab Vocabulary) []string {
	skills := []string{}
	seen := make(map[string]struct{}, len(vocab.Skills))

	if sec, ok := findSection(text, lower, vocab.SkillsHeaders); ok {
		secLower := nlp.LowerASCII(sec)
		for _, kw := range vocab.Skills {
			if strings.Contains(secLower, kw) {
				if _, dup := seen[kw]; !dup {
					seen[kw] = struct{}{}
					skills = append(skills, kw)
				}
			}
		}
	}

	for _, kw := range vocab.Skills {
		if _, dup := seen[kw]; dup {
			continue
		}
		if strings.Contains(lower, kw) {
			seen[kw] = struct{}{}
			skills = append(skills, kw)
		}
	}
	return skills
}

// extractExperience emits at most one entry per document: the year range found
// in the section plus a fixed-length excerpt. A known heuristic limitation,
// kept as such.
func extractExperience(section string) (ExperienceEntry, bool) {
	matches := reYear.FindAllString(section, -1)
	if len(matches) == 0 {
		return ExperienceEntry{}, false
	}
	years := matches[0]
	if len(matches) > 1 {
		nums := make([]int, 0, len(matches))
		for _, m := range matches {
			n, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			nums = append(nums, n)
		}
		sort.Ints(nums)
		years = strconv.Itoa(nums[0]) + " - " + strconv.Itoa(nums[len(nums)-1])
	}
	return ExperienceEntry{
		Years:       years,
		Description: excerpt(section, experienceExcerptLen),
	}, true
}

// extractEducation emits at most one entry: the earliest degree keyword in the
// section, with the document's own casing preserved.
func extractEducation(section string, degrees []string) (EducationEntry, bool) {
	secLower := nlp.LowerASCII(section)
	best := -1
	bestLen := 0
	for _, d := range degrees {
		idx := strings.Index(secLower, d)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best {
			best = idx
			bestLen = len(d)
		}
	}
	if best < 0 {
		return EducationEntry{}, false
	}
	return EducationEntry{
		Degree:      section[best : best+bestLen],
		Description: excerpt(section, educationExcerptLen),
	}, true
}

func excerpt(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return s + "..."
}
