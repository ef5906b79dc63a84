package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"resume-matcher/internal/domain/matching"
)

// skillsField accepts either a JSON array of strings or free text. Anything else is
// kept verbatim as text so the normalizer can apply its malformed-input fallback.
type skillsField struct {
	Text string
	List []string
}

func (f *skillsField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &f.Text)
	case '[':
		var list []string
		if err := json.Unmarshal(b, &list); err == nil {
			f.List = list
			return nil
		}
	}
	f.Text = string(b)
	return nil
}

type jobRecord struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Skills      skillsField `json:"skills"`
	Description string      `json:"description"`
}

type candidateRecord struct {
	ID              string      `json:"id"`
	ResumeName      string      `json:"resume_name"`
	CurrentRole     string      `json:"current_role"`
	YearsExperience *int        `json:"years_experience"`
	Skills          skillsField `json:"skills"`
	FilePath        string      `json:"file_path"`
	FileURL         string      `json:"file_url"`
	JobIDs          []string    `json:"job_ids"`
}

// JobFile reads the job set from a JSON array on every call so edits between runs are picked up.
type JobFile struct {
	Path string
}

func NewJobFile(path string) *JobFile {
	return &JobFile{Path: strings.TrimSpace(path)}
}

func (f *JobFile) ListJobs(ctx context.Context) ([]matching.RawJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var recs []jobRecord
	if err := readJSON(f.Path, &recs); err != nil {
		return nil, err
	}
	out := make([]matching.RawJob, 0, len(recs))
	for _, r := range recs {
		out = append(out, matching.RawJob{
			ID:          r.ID,
			Title:       r.Title,
			Category:    r.Category,
			SkillsText:  r.Skills.Text,
			SkillsList:  r.Skills.List,
			Description: r.Description,
		})
	}
	return out, nil
}

// CandidateFile serves candidate pools from a JSON array. A record with no job_ids applied
// to every job. The parsed file is reused until its size or modification time changes.
type CandidateFile struct {
	Path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	recs    []candidateRecord
}

func NewCandidateFile(path string) *CandidateFile {
	return &CandidateFile{Path: strings.TrimSpace(path)}
}

func (f *CandidateFile) ListCandidates(ctx context.Context, jobID string) ([]matching.RawCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := f.load()
	if err != nil {
		return nil, err
	}

	out := make([]matching.RawCandidate, 0, len(recs))
	for _, r := range recs {
		if !appliesTo(r.JobIDs, jobID) {
			continue
		}
		out = append(out, matching.RawCandidate{
			ID:              r.ID,
			ResumeName:      r.ResumeName,
			CurrentRole:     r.CurrentRole,
			YearsExperience: r.YearsExperience,
			SkillsText:      r.Skills.Text,
			SkillsList:      r.Skills.List,
			FilePath:        r.FilePath,
			FileURL:         r.FileURL,
		})
	}
	return out, nil
}

func (f *CandidateFile) load() ([]candidateRecord, error) {
	st, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("candidate file: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recs != nil && st.ModTime().Equal(f.modTime) && st.Size() == f.size {
		return f.recs, nil
	}

	var recs []candidateRecord
	if err := readJSON(f.Path, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []candidateRecord{}
	}
	f.recs, f.modTime, f.size = recs, st.ModTime(), st.Size()
	return recs, nil
}

func appliesTo(jobIDs []string, jobID string) bool {
	if len(jobIDs) == 0 {
		return true
	}
	for _, id := range jobIDs {
		if strings.TrimSpace(id) == jobID {
			return true
		}
	}
	return false
}

func readJSON(path string, out any) error {
	if path == "" {
		return fmt.Errorf("source file: empty path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("source file: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("source file %s: %w", path, err)
	}
	return nil
}
