package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-matcher/internal/database"
	"resume-matcher/internal/domain/matching"
	"resume-matcher/internal/repository"
)

// JobPostingsSeeder upserts the jobs of a JobSource into job_postings.
type JobPostingsSeeder struct {
	Jobs repository.JobSource
}

func (JobPostingsSeeder) Name() string { return "job_postings" }

func (JobPostingsSeeder) Tables() []Table {
	return []Table{{
		Name:    "job_postings",
		Columns: []string{"req_id", "job_title", "category", "req_tech_skills", "description", "is_active"},
	}}
}

func (s JobPostingsSeeder) Seed(ctx context.Context, tx database.Tx) (int, error) {
	jobs, err := s.Jobs.ListJobs(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, j := range jobs {
		if j.ID == "" {
			continue
		}
		skills, err := skillsColumn(j.SkillsText, j.SkillsList)
		if err != nil {
			return n, err
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO job_postings (req_id, job_title, category, req_tech_skills, description, is_active, updated_at)
			 VALUES ($1, $2, $3, $4, $5, true, now())
			 ON CONFLICT (req_id) DO UPDATE SET
			   job_title = EXCLUDED.job_title,
			   category = EXCLUDED.category,
			   req_tech_skills = EXCLUDED.req_tech_skills,
			   description = EXCLUDED.description,
			   is_active = true,
			   updated_at = now()`,
			j.ID, j.Title, j.Category, skills, j.Description,
		); err != nil {
			return n, fmt.Errorf("job %s: %w", j.ID, err)
		}
		n++
	}
	return n, nil
}

// ResumesSeeder upserts every job's candidates into resumes and records each job's pool
// explicitly in job_candidate_pools. A candidate shared by several pools is written once.
type ResumesSeeder struct {
	Jobs       repository.JobSource
	Candidates repository.CandidateSource
}

func (ResumesSeeder) Name() string { return "resumes" }

func (ResumesSeeder) Tables() []Table {
	return []Table{
		{Name: "resumes", Columns: []string{"resume_id", "current_job", "yoe", "tech_skills", "file_path", "file_url"}},
		{Name: "job_candidate_pools", Columns: []string{"req_id", "resume_id"}},
	}
}

func (s ResumesSeeder) Seed(ctx context.Context, tx database.Tx) (int, error) {
	jobs, err := s.Jobs.ListJobs(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{})
	for _, j := range jobs {
		if j.ID == "" {
			continue
		}
		pool, err := s.Candidates.ListCandidates(ctx, j.ID)
		if err != nil {
			return len(seen), fmt.Errorf("candidates for %s: %w", j.ID, err)
		}
		for _, c := range pool {
			id := resumeID(c)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				if err := upsertResume(ctx, tx, id, c); err != nil {
					return len(seen), err
				}
				seen[id] = struct{}{}
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO job_candidate_pools (req_id, resume_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				j.ID, id,
			); err != nil {
				return len(seen), fmt.Errorf("pool %s/%s: %w", j.ID, id, err)
			}
		}
	}
	return len(seen), nil
}

func upsertResume(ctx context.Context, tx database.Tx, id string, c matching.RawCandidate) error {
	skills, err := skillsColumn(c.SkillsText, c.SkillsList)
	if err != nil {
		return err
	}
	var yoe *int32
	if c.YearsExperience != nil {
		v := int32(*c.YearsExperience)
		yoe = &v
	}
	if _, err := tx.Exec(
		ctx,
		`INSERT INTO resumes (resume_id, current_job, yoe, tech_skills, file_path, file_url, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (resume_id) DO UPDATE SET
		   current_job = EXCLUDED.current_job,
		   yoe = EXCLUDED.yoe,
		   tech_skills = EXCLUDED.tech_skills,
		   file_path = EXCLUDED.file_path,
		   file_url = EXCLUDED.file_url,
		   updated_at = now()`,
		id, c.CurrentRole, yoe, skills, c.FilePath, c.FileURL,
	); err != nil {
		return fmt.Errorf("resume %s: %w", id, err)
	}
	return nil
}

// resumeID prefers the resume name; the candidate source derives the id from it again.
func resumeID(c matching.RawCandidate) string {
	if c.ResumeName != "" {
		return c.ResumeName
	}
	return c.ID
}

// skillsColumn stores list skills as a JSON array so the source keeps their boundaries.
func skillsColumn(text string, list []string) (string, error) {
	if len(list) == 0 {
		return text, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
