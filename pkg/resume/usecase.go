package resume

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"
)

// UploadResult is the outcome of one resume ingestion. Parsing and
// reconciliation are best-effort: a false flag never means the upload failed.
type UploadResult struct {
	ArtifactID  int64       `json:"id"`
	Version     int         `json:"version"`
	ContentHash string      `json:"contentHash"`
	Parsed      bool        `json:"parsed"`
	Reconciled  bool        `json:"reconciled"`
	Extracted   *Extraction `json:"extractedData,omitempty"`
}

// UploadUseCase is the resume ingestion pipeline: store a new immutable
// version, then best-effort extract fields and reconcile them into the
// student's profile.
type UploadUseCase interface {
	Upload(ctx context.Context, studentID int64, filename, mediaType string, data []byte) (UploadResult, error)
	ListVersions(ctx context.Context, studentID int64) ([]Artifact, error)
	Download(ctx context.Context, artifactID int64) (ArtifactFile, error)
}

type uploadService struct {
	artifacts      ArtifactRepository
	profiles       ProfileRepository
	vocab          Vocabulary
	extractTimeout time.Duration
	locks          *studentLocks
}

// NewUploadService returns the default implementation. extractTimeout bounds
// the text-extraction step; zero means 15s.
func NewUploadService(artifacts ArtifactRepository, profiles ProfileRepository, vocab Vocabulary, extractTimeout time.Duration) UploadUseCase {
	if extractTimeout <= 0 {
		extractTimeout = 15 * time.Second
	}
	return &uploadService{
		artifacts:      artifacts,
		profiles:       profiles,
		vocab:          vocab,
		extractTimeout: extractTimeout,
		locks:          newStudentLocks(),
	}
}

// Upload runs the two-phase ingestion contract.
//
// Phase 1 always runs: digest the payload and append the next artifact
// version for the student. Version assignment is serialized per student by a
// keyed mutex and verified by the store; a conflict is retried once with a
// fresh version read.
//
// Phase 2 is best-effort: extract text, derive fields, reconcile into the
// profile. Any phase-2 failure is logged and reported through the result
// flags without disturbing the stored artifact.
func (s *uploadService) Upload(ctx context.Context, studentID int64, filename, mediaType string, data []byte) (UploadResult, error) {
	switch mediaType {
	case MediaTypePDF, MediaTypeDOCX:
	default:
		return UploadResult{}, ErrUnsupportedFormat
	}

	sum := sha256.Sum256(data)
	artifact := Artifact{
		StudentID:   studentID,
		FileName:    filename,
		MediaType:   mediaType,
		Size:        int64(len(data)),
		ContentHash: hex.EncodeToString(sum[:]),
	}

	stored, err := s.storeSerialized(ctx, artifact, data)
	if err != nil {
		return UploadResult{}, err
	}

	res := UploadResult{
		ArtifactID:  stored.ID,
		Version:     stored.Version,
		ContentHash: stored.ContentHash,
	}

	text, err := s.extractWithTimeout(ctx, mediaType, data)
	if err != nil {
		log.Printf("resume %d v%d: extraction skipped: %v", stored.ID, stored.Version, err)
		return res, nil
	}
	fields := ExtractFields(text, s.vocab)
	res.Parsed = true
	res.Extracted = &fields

	if err := s.reconcile(ctx, studentID, fields); err != nil {
		log.Printf("resume %d v%d: reconciliation failed: %v", stored.ID, stored.Version, err)
		return res, nil
	}
	res.Reconciled = true
	return res, nil
}

func (s *uploadService) storeSerialized(ctx context.Context, a Artifact, payload []byte) (Artifact, error) {
	unlock := s.locks.lock(a.StudentID)
	defer unlock()

	stored, err := s.artifacts.Store(ctx, a, payload)
	if errors.Is(err, ErrVersionConflict) {
		// One retry with a fresh max(version) read; the keyed mutex makes
		// in-process conflicts impossible, so this covers racing replicas.
		stored, err = s.artifacts.Store(ctx, a, payload)
	}
	return stored, err
}

func (s *uploadService) extractWithTimeout(ctx context.Context, mediaType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.extractTimeout)
	defer cancel()
	return ExtractText(ctx, mediaType, data)
}

func (s *uploadService) reconcile(ctx context.Context, studentID int64, ex Extraction) error {
	snap, err := s.profiles.Snapshot(ctx, studentID)
	if err != nil {
		return err
	}
	out := Reconcile(snap, ex)
	return s.profiles.Apply(ctx, studentID, out.SkillsToAdd, out.Discrepancies)
}

func (s *uploadService) ListVersions(ctx context.Context, studentID int64) ([]Artifact, error) {
	return s.artifacts.ListByStudent(ctx, studentID)
}

func (s *uploadService) Download(ctx context.Context, artifactID int64) (ArtifactFile, error) {
	return s.artifacts.GetFile(ctx, artifactID)
}
