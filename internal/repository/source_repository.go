package repository

import (
	"context"

	"resume-matcher/internal/database"
	"resume-matcher/internal/domain/matching"
)

// PostgresJobSource reads active postings from job_postings.
type PostgresJobSource struct {
	db database.DB
}

func NewPostgresJobSource(db database.DB) *PostgresJobSource {
	return &PostgresJobSource{db: db}
}

func (s *PostgresJobSource) ListJobs(ctx context.Context) ([]matching.RawJob, error) {
	rows, err := s.db.Query(ctx,
		`SELECT req_id, COALESCE(job_title, ''), COALESCE(category, ''), COALESCE(req_tech_skills, ''), COALESCE(description, '')
		 FROM job_postings
		 WHERE is_active = true
		 ORDER BY req_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.RawJob, 0)
	for rows.Next() {
		var j matching.RawJob
		if err := rows.Scan(&j.ID, &j.Title, &j.Category, &j.SkillsText, &j.Description); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PostgresCandidateSource reads resumes. A posting with rows in job_candidate_pools sees
// only those resumes; a posting without any pool rows sees every resume.
type PostgresCandidateSource struct {
	db database.DB
}

func NewPostgresCandidateSource(db database.DB) *PostgresCandidateSource {
	return &PostgresCandidateSource{db: db}
}

func (s *PostgresCandidateSource) ListCandidates(ctx context.Context, jobID string) ([]matching.RawCandidate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT r.resume_id, COALESCE(r.current_job, ''), r.yoe, COALESCE(r.tech_skills, ''), COALESCE(r.file_path, ''), COALESCE(r.file_url, '')
		 FROM resumes r
		 WHERE NOT EXISTS (SELECT 1 FROM job_candidate_pools p WHERE p.req_id = $1)
		    OR EXISTS (SELECT 1 FROM job_candidate_pools p WHERE p.req_id = $1 AND p.resume_id = r.resume_id)
		 ORDER BY r.resume_id ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matching.RawCandidate, 0)
	for rows.Next() {
		var (
			c   matching.RawCandidate
			yoe *int32
		)
		if err := rows.Scan(&c.ResumeName, &c.CurrentRole, &yoe, &c.SkillsText, &c.FilePath, &c.FileURL); err != nil {
			return nil, err
		}
		if yoe != nil {
			v := int(*yoe)
			c.YearsExperience = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
