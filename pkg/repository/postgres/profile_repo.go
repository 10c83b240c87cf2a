package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/student-profiles/pkg/resume"
	"github.com/mkravets/student-profiles/pkg/student"
)

// Profile field columns survey autofill may touch.
var autofillColumns = map[string]struct{}{
	"short_term_goals": {},
	"long_term_goals":  {},
	"interests":        {},
	"extracurricular":  {},
}

// ProfileRepository serves the reconciliation and autofill ports against the
// students/student_skills/resume_discrepancies tables. The tables themselves
// are owned by StudentRepository; only the discrepancy table is ensured here.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) (*ProfileRepository, error) {
	r := &ProfileRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ProfileRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resume_discrepancies (
	student_id BIGINT PRIMARY KEY,
	entries JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

// Snapshot loads the pre-merge profile view the reconciler diffs against.
func (r *ProfileRepository) Snapshot(ctx context.Context, studentID int64) (resume.ProfileSnapshot, error) {
	snap := resume.ProfileSnapshot{StudentID: studentID}
	if err := r.pool.QueryRow(ctx, `
SELECT email FROM students WHERE id = $1
`, studentID).Scan(&snap.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.ProfileSnapshot{}, student.ErrNotFound
		}
		return resume.ProfileSnapshot{}, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT skill_name FROM student_skills WHERE student_id = $1 ORDER BY skill_name
`, studentID)
	if err != nil {
		return resume.ProfileSnapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return resume.ProfileSnapshot{}, err
		}
		snap.Skills = append(snap.Skills, name)
	}
	return snap, rows.Err()
}

// Apply writes a reconciliation outcome atomically: additive skill inserts at
// the ingestion default level, then the discrepancy record replaced wholesale
// (or cleared when the new list is empty).
func (r *ProfileRepository) Apply(ctx context.Context, studentID int64, addSkills []string, entries []resume.Discrepancy) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, name := range addSkills {
		// DO NOTHING: resume ingestion never touches an existing skill row.
		if _, err := tx.Exec(ctx, `
INSERT INTO student_skills (student_id, skill_name, proficiency_level, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, skill_name) DO NOTHING
`, studentID, name, resume.IngestedSkillLevel, now); err != nil {
			return err
		}
	}

	if len(entries) > 0 {
		raw, err := json.Marshal(entries)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO resume_discrepancies (student_id, entries, created_at, updated_at)
VALUES ($1, $2, $3, $3)
ON CONFLICT (student_id) DO UPDATE SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at
`, studentID, raw, now); err != nil {
			return err
		}
	} else {
		// A clean ingestion clears any stale record from a prior upload.
		if _, err := tx.Exec(ctx, `
DELETE FROM resume_discrepancies WHERE student_id = $1
`, studentID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetDiscrepancies returns the live record for a student, or ErrNotFound.
func (r *ProfileRepository) GetDiscrepancies(ctx context.Context, studentID int64) (resume.DiscrepancyRecord, error) {
	row := r.pool.QueryRow(ctx, `
SELECT student_id, entries, created_at, updated_at FROM resume_discrepancies WHERE student_id = $1
`, studentID)
	var rec resume.DiscrepancyRecord
	var raw []byte
	if err := row.Scan(&rec.StudentID, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.DiscrepancyRecord{}, resume.ErrNotFound
		}
		return resume.DiscrepancyRecord{}, err
	}
	if err := json.Unmarshal(raw, &rec.Entries); err != nil {
		return resume.DiscrepancyRecord{}, err
	}
	return rec, nil
}

// ApplyAutofill pushes survey answers into the profile: whitelisted text
// fields plus skill rows at the given level (levels are refreshed on
// conflict, unlike resume ingestion).
func (r *ProfileRepository) ApplyAutofill(ctx context.Context, studentID int64, fields map[string]string, skills []string, level string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for col, val := range fields {
		if _, ok := autofillColumns[col]; !ok {
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE students SET `+col+` = $1, updated_at = $2 WHERE id = $3`,
			val, now, studentID); err != nil {
			return err
		}
	}
	for _, name := range skills {
		if _, err := tx.Exec(ctx, `
INSERT INTO student_skills (student_id, skill_name, proficiency_level, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, skill_name) DO UPDATE SET proficiency_level = EXCLUDED.proficiency_level
`, studentID, name, level, now); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
