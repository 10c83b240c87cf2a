package resume

// Vocabulary configures the heuristic field extractor. It is treated as an
// immutable value: extraction output is deterministic for a fixed vocabulary
// and a fixed input text.
type Vocabulary struct {
	// Skills are matched by case-insensitive substring presence, in order.
	Skills []string
	// Section header synonyms, checked in order; the first hit wins.
	SkillsHeaders     []string
	ExperienceHeaders []string
	EducationHeaders  []string
	// Degree keywords recognized inside an education section.
	Degrees []string
}

// DefaultVocabulary returns the stock keyword tables: common technical terms,
// frameworks and soft-skill phrases. Matching is by keyword identity, so
// near-synonyms ("javascript" vs "js") are deliberately separate entries.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Skills: []string{
			"javascript", "python", "java", "react", "node", "sql", "html", "css",
			"aws", "docker", "kubernetes", "git", "agile", "scrum", "mongodb",
			"postgresql", "mysql", "typescript", "angular", "vue", "express",
			"spring", "django", "flask", "laravel", "php", "ruby", "go",
			"communication", "leadership", "teamwork", "problem solving",
			"project management", "analytical", "creative", "organizational",
		},
		SkillsHeaders:     []string{"skills", "technical skills", "competencies"},
		ExperienceHeaders: []string{"experience", "work experience", "employment"},
		EducationHeaders:  []string{"education", "academic background"},
		Degrees:           []string{"bachelor", "master", "phd", "associate", "diploma", "certificate"},
	}
}
