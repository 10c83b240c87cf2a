package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/student-profiles/pkg/resume"
)

// ArtifactRepository is the append-only resume version store. Rows are never
// updated or deleted; the unique (student_id, version) constraint backs the
// gapless-versioning invariant.
type ArtifactRepository struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) (*ArtifactRepository, error) {
	r := &ArtifactRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ArtifactRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resume_artifacts (
	id BIGSERIAL PRIMARY KEY,
	student_id BIGINT NOT NULL,
	file_name TEXT NOT NULL,
	media_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	payload BYTEA NOT NULL,
	content_hash TEXT NOT NULL,
	version INT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL,
	UNIQUE (student_id, version)
);
CREATE INDEX IF NOT EXISTS idx_resume_artifacts_student ON resume_artifacts (student_id);
`)
	return err
}

// Store assigns version = max(existing)+1 and inserts the row in the same
// transaction. A racing writer trips the unique constraint, which surfaces as
// ErrVersionConflict for the use case to retry with a fresh read.
func (r *ArtifactRepository) Store(ctx context.Context, a resume.Artifact, payload []byte) (resume.Artifact, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return resume.Artifact{}, err
	}
	defer tx.Rollback(ctx)

	var maxVersion int
	if err := tx.QueryRow(ctx, `
SELECT COALESCE(MAX(version), 0) FROM resume_artifacts WHERE student_id = $1
`, a.StudentID).Scan(&maxVersion); err != nil {
		return resume.Artifact{}, err
	}

	a.Version = maxVersion + 1
	a.UploadedAt = time.Now().UTC()
	err = tx.QueryRow(ctx, `
INSERT INTO resume_artifacts (student_id, file_name, media_type, size_bytes, payload, content_hash, version, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`, a.StudentID, a.FileName, a.MediaType, a.Size, payload, a.ContentHash, a.Version, a.UploadedAt).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return resume.Artifact{}, resume.ErrVersionConflict
		}
		return resume.Artifact{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return resume.Artifact{}, err
	}
	return a, nil
}

func (r *ArtifactRepository) ListByStudent(ctx context.Context, studentID int64) ([]resume.Artifact, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, student_id, file_name, media_type, size_bytes, content_hash, version, uploaded_at
FROM resume_artifacts
WHERE student_id = $1
ORDER BY version DESC
`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []resume.Artifact
	for rows.Next() {
		var a resume.Artifact
		var uploaded time.Time
		if err := rows.Scan(&a.ID, &a.StudentID, &a.FileName, &a.MediaType, &a.Size, &a.ContentHash, &a.Version, &uploaded); err != nil {
			return nil, err
		}
		a.UploadedAt = uploaded.UTC()
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *ArtifactRepository) GetFile(ctx context.Context, id int64) (resume.ArtifactFile, error) {
	row := r.pool.QueryRow(ctx, `
SELECT file_name, media_type, payload FROM resume_artifacts WHERE id = $1
`, id)
	var f resume.ArtifactFile
	if err := row.Scan(&f.FileName, &f.MediaType, &f.Data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.ArtifactFile{}, resume.ErrNotFound
		}
		return resume.ArtifactFile{}, err
	}
	return f, nil
}
