package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-matcher/internal/database"
	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/match"
	"resume-matcher/internal/domain/skill"

	"github.com/jackc/pgx/v5"
)

var matchColumns = []string{"job_id", "candidate_id", "score", "rank", "scoring_version"}

type PostgresMatchRepository struct {
	db   database.DB
	topK int
}

func NewPostgresMatchRepository(db database.DB, topK int) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db, topK: topK}
}

func (r *PostgresMatchRepository) PutJob(ctx context.Context, j job.Job) error {
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("put job: empty id")
	}
	skills, err := encodeSkills(j.Skills)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO jobs (job_id, title, category, normalized_category, normalized_title, skills, description, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		 ON CONFLICT (job_id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			normalized_category = EXCLUDED.normalized_category,
			normalized_title = EXCLUDED.normalized_title,
			skills = EXCLUDED.skills,
			description = EXCLUDED.description,
			updated_at = now()`,
		j.ID, j.Title, j.Category, j.NormalizedCategory, j.NormalizedTitle, skills, j.Description,
	)
	return err
}

func (r *PostgresMatchRepository) PutCandidates(ctx context.Context, cs []candidate.Candidate) error {
	if len(cs) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range cs {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		skills, err := encodeSkills(c.Skills)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO candidates (candidate_id, role_text, normalized_role, years_experience, experience_known, skills, resume_path, resume_url, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
			 ON CONFLICT (candidate_id) DO UPDATE SET
				role_text = EXCLUDED.role_text,
				normalized_role = EXCLUDED.normalized_role,
				years_experience = EXCLUDED.years_experience,
				experience_known = EXCLUDED.experience_known,
				skills = EXCLUDED.skills,
				resume_path = EXCLUDED.resume_path,
				resume_url = EXCLUDED.resume_url,
				updated_at = now()`,
			c.ID, c.CurrentRole, c.NormalizedRole, c.YearsExperience, c.ExperienceKnown, skills, c.ResumePath, c.ResumeURL,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// PutMatches swaps the job's match set inside one transaction. The job row is locked
// first so two writers for the same job serialize and the later commit wins.
func (r *PostgresMatchRepository) PutMatches(ctx context.Context, jobID string, ms []match.Match) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	if err := tx.QueryRow(ctx, `SELECT job_id FROM jobs WHERE job_id = $1 FOR UPDATE`, jobID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrJobNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM matches WHERE job_id = $1`, jobID); err != nil {
		return err
	}

	rows := make([][]any, 0, len(ms))
	for _, m := range ms {
		if m.JobID != jobID {
			return fmt.Errorf("put matches: match for job %q in set of %q", m.JobID, jobID)
		}
		rows = append(rows, []any{m.JobID, m.CandidateID, m.Score, m.Rank, m.ScoringVersion})
	}
	if _, err := tx.CopyFrom(ctx, "matches", matchColumns, rows); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresMatchRepository) GetJob(ctx context.Context, jobID string) (job.Job, error) {
	var (
		j      job.Job
		skills []byte
	)
	row := r.db.QueryRow(ctx,
		`SELECT job_id, title, category, normalized_category, normalized_title, skills, description
		 FROM jobs
		 WHERE job_id = $1`,
		jobID,
	)
	if err := row.Scan(&j.ID, &j.Title, &j.Category, &j.NormalizedCategory, &j.NormalizedTitle, &skills, &j.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	s, err := decodeSkills(skills)
	if err != nil {
		return job.Job{}, err
	}
	j.Skills = s
	return j, nil
}

func (r *PostgresMatchRepository) GetJobs(ctx context.Context) ([]job.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT job_id, title, category, normalized_category, normalized_title, skills, description
		 FROM jobs
		 ORDER BY job_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Summary, 0)
	for rows.Next() {
		var (
			j      job.Job
			skills []byte
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Category, &j.NormalizedCategory, &j.NormalizedTitle, &skills, &j.Description); err != nil {
			return nil, err
		}
		if j.Skills, err = decodeSkills(skills); err != nil {
			return nil, err
		}
		out = append(out, j.Summarize(r.topK))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) GetMatches(ctx context.Context, jobID string) ([]match.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT job_id, candidate_id, score, rank, scoring_version
		 FROM matches
		 WHERE job_id = $1
		 ORDER BY rank ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		var m match.Match
		if err := rows.Scan(&m.JobID, &m.CandidateID, &m.Score, &m.Rank, &m.ScoringVersion); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) GetCandidates(ctx context.Context, ids []string) (map[string]candidate.Candidate, error) {
	out := make(map[string]candidate.Candidate, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, role_text, normalized_role, years_experience, experience_known, skills, resume_path, resume_url
		 FROM candidates
		 WHERE candidate_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c      candidate.Candidate
			skills []byte
		)
		if err := rows.Scan(&c.ID, &c.CurrentRole, &c.NormalizedRole, &c.YearsExperience, &c.ExperienceKnown, &skills, &c.ResumePath, &c.ResumeURL); err != nil {
			return nil, err
		}
		if c.Skills, err = decodeSkills(skills); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeSkills(s []skill.Skill) ([]byte, error) {
	if s == nil {
		s = []skill.Skill{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	return b, nil
}

func decodeSkills(b []byte) ([]skill.Skill, error) {
	out := []skill.Skill{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return out, nil
}
