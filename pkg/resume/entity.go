package resume

import (
	"context"
	"errors"
	"time"
)

// Common errors surfaced by the resume pipeline.
var (
	// ErrUnsupportedFormat is returned for media types other than PDF/DOCX.
	ErrUnsupportedFormat = errors.New("unsupported file format: only pdf and docx are allowed")
	// ErrParseFailure wraps extraction-library errors (corrupt, encrypted,
	// malformed documents) and extraction timeouts. Non-fatal to an upload.
	ErrParseFailure = errors.New("failed to extract text from document")
	// ErrVersionConflict signals that two uploads raced for the same version
	// number. The upload use case retries once before surfacing it.
	ErrVersionConflict = errors.New("resume version conflict")
	// ErrNotFound is returned when a requested artifact does not exist.
	ErrNotFound = errors.New("resume not found")
)

// Artifact is one immutable stored version of an uploaded resume.
// Versions per student are gapless-increasing starting at 1 and are never
// reused or mutated after creation.
type Artifact struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	FileName    string    `json:"fileName"`
	MediaType   string    `json:"mediaType"`
	Size        int64     `json:"size"`
	ContentHash string    `json:"contentHash"`
	Version     int       `json:"version"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// ArtifactFile carries the raw payload for the download path.
type ArtifactFile struct {
	FileName  string
	MediaType string
	Data      []byte
}

// Extraction is the heuristic output of parsing one document's text.
// It lives for a single upload operation; only its side effects persist.
type Extraction struct {
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Contact    Contact           `json:"contact"`
	Summary    string            `json:"summary"`
}

type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ExperienceEntry struct {
	Years       string `json:"years"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Description string `json:"description"`
}

// Discrepancy is one detected mismatch between stored profile data and
// resume-derived data, surfaced for human review rather than auto-resolved.
type Discrepancy struct {
	Field        string `json:"field"`
	ProfileValue string `json:"profile_value"`
	ResumeValue  string `json:"resume_value"`
}

// DiscrepancyRecord holds the latest mismatch set for one student. A new
// ingestion replaces the whole list; there is at most one live record per
// student.
type DiscrepancyRecord struct {
	StudentID int64         `json:"studentId"`
	Entries   []Discrepancy `json:"entries"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ArtifactRepository is the append-only version store port. Store must assign
// version = max(existing)+1 and insert within one atomic unit of work; a
// detected race surfaces as ErrVersionConflict.
type ArtifactRepository interface {
	Store(ctx context.Context, a Artifact, payload []byte) (Artifact, error)
	ListByStudent(ctx context.Context, studentID int64) ([]Artifact, error)
	GetFile(ctx context.Context, id int64) (ArtifactFile, error)
}

// ProfileSnapshot is the pre-merge view of a student the reconciler diffs
// against.
type ProfileSnapshot struct {
	StudentID int64
	Email     string
	Skills    []string // stored casing preserved
}

// ProfileRepository is the reconciliation port against the profile store.
// Apply must perform the skill inserts and the discrepancy write (or clear)
// in one transaction.
type ProfileRepository interface {
	Snapshot(ctx context.Context, studentID int64) (ProfileSnapshot, error)
	Apply(ctx context.Context, studentID int64, addSkills []string, entries []Discrepancy) error
}

// DiscrepancyReader exposes the latest discrepancy record for review.
type DiscrepancyReader interface {
	GetDiscrepancies(ctx context.Context, studentID int64) (DiscrepancyRecord, error)
}
