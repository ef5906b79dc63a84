package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resume-matcher/internal/app"
	"resume-matcher/internal/config"
	"resume-matcher/internal/domain"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type candidateItem struct {
	Rank           int    `json:"rank"`
	CandidateID    string `json:"candidate_id"`
	DisplayName    string `json:"display_name"`
	CurrentRole    string `json:"current_role"`
	MatchScore     int    `json:"match_score"`
	ResumeLocation string `json:"resume_location"`
}

type jobCandidates struct {
	JobID      string          `json:"job_id"`
	Candidates []candidateItem `json:"candidates"`
}

const jobsJSON = `[
	{"id":"J1","title":"Software Engineer","category":"IT","skills":["Python","AWS","Docker"]},
	{"id":"J2","title":"Process Engineer","category":"MECHANICALCHEMICALQUALITYENGINEERING","skills":"not-json["}
]`

const candidatesJSON = `[
	{"resume_name":"A.pdf","current_role":"Software Engineer","years_experience":5,"skills":["python","aws"],"file_url":"https://files.example/A.pdf"},
	{"resume_name":"B.pdf","current_role":"QA Tester","years_experience":1,"skills":["Java"],"file_path":"/resumes/B.pdf","job_ids":["J1"]}
]`

func TestIntegration_FileSources_MemoryStore_Viewer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir := t.TempDir()
	cfg := config.Config{
		App: config.AppConfig{AppName: "matcher-test", Environment: "test", StoreBackend: config.BackendMemory},
		Ingestion: config.IngestionConfig{
			SourceBackend:  config.BackendFile,
			JobsFile:       writeFile(t, dir, "jobs.json", jobsJSON),
			CandidatesFile: writeFile(t, dir, "candidates.json", candidatesJSON),
			Workers:        2,
			ExtractWorkers: 2,
		},
		Matching: config.DefaultMatching(),
	}

	a, cleanup, err := app.Bootstrap(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer func() { _ = cleanup() }()

	resp := call(t, a.Fiber, fiber.MethodPost, "/api/v1/ingestion/runs", fiber.StatusAccepted)
	var trig struct {
		RunID string `json:"run_id"`
	}
	decode(t, resp.Data, &trig)
	if trig.RunID == "" {
		t.Fatalf("trigger: empty run_id")
	}
	a.Coordinator.Wait()

	var st domain.RunStatus
	decode(t, call(t, a.Fiber, fiber.MethodGet, "/api/v1/ingestion/status", fiber.StatusOK).Data, &st)
	if st.RunID != trig.RunID || st.State != domain.RunStateSucceeded || st.Completed != 2 {
		t.Fatalf("unexpected run status: %+v", st)
	}
	if st.Diagnostics["skills_malformed"] != 1 {
		t.Fatalf("expected one malformed skills fallback, got %v", st.Diagnostics)
	}

	var cats struct {
		Categories []string `json:"categories"`
	}
	decode(t, call(t, a.Fiber, fiber.MethodGet, "/api/v1/categories", fiber.StatusOK).Data, &cats)
	if strings.Join(cats.Categories, ",") != "All,Core_Engg,Engineering" {
		t.Fatalf("unexpected categories: %v", cats.Categories)
	}

	var jobs []map[string]any
	decode(t, call(t, a.Fiber, fiber.MethodGet, "/api/v1/jobs?category=Engineering", fiber.StatusOK).Data, &jobs)
	if len(jobs) != 1 || jobs[0]["job_id"] != "J1" || jobs[0]["display_title"] != "Software Engineer (J1)" {
		t.Fatalf("unexpected filtered jobs: %v", jobs)
	}

	var jc jobCandidates
	decode(t, call(t, a.Fiber, fiber.MethodGet, "/api/v1/jobs/J1/candidates", fiber.StatusOK).Data, &jc)
	if len(jc.Candidates) != 2 {
		t.Fatalf("expected 2 candidates for J1, got %+v", jc)
	}
	first, second := jc.Candidates[0], jc.Candidates[1]
	if first.CandidateID != "A" || first.Rank != 1 || first.DisplayName != "Candidate A" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.ResumeLocation != "https://files.example/A.pdf" || second.ResumeLocation != "/resumes/B.pdf" {
		t.Fatalf("unexpected resume locations: %+v %+v", first, second)
	}
	if first.MatchScore < second.MatchScore {
		t.Fatalf("expected non-increasing scores: %d then %d", first.MatchScore, second.MatchScore)
	}

	// B is pooled to J1 only.
	decode(t, call(t, a.Fiber, fiber.MethodGet, "/api/v1/jobs/J2/candidates", fiber.StatusOK).Data, &jc)
	if len(jc.Candidates) != 1 || jc.Candidates[0].CandidateID != "A" {
		t.Fatalf("unexpected J2 candidates: %+v", jc.Candidates)
	}

	call(t, a.Fiber, fiber.MethodGet, "/api/v1/jobs/NOPE/candidates", fiber.StatusNotFound)

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	res, err := a.Fiber.Test(req)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if !strings.Contains(string(body), "matcher_matches_written_total 3") {
		t.Fatalf("metrics: expected 3 written matches in exposition")
	}
}

func TestIntegration_Postgres_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbcfg := testDBConfig(t)
	cfg := config.Config{
		App:      config.AppConfig{AppName: "matcher-test", Environment: "test", StoreBackend: config.BackendPostgres},
		Database: dbcfg,
		Ingestion: config.IngestionConfig{
			SourceBackend:  config.BackendPostgres,
			Workers:        2,
			ExtractWorkers: 2,
		},
		Matching: config.DefaultMatching(),
	}

	a, cleanup, err := app.Bootstrap(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer func() { _ = cleanup() }()
	db := a.Container.DB

	suffix := uuid.NewString()[:8]
	jobID := "IT-" + suffix
	resA, resB := "A-"+suffix, "B-"+suffix

	if _, err := db.Exec(ctx, `INSERT INTO job_postings (req_id, job_title, category, req_tech_skills) VALUES ($1,'Software Engineer','IT','["Python","AWS","Docker"]')`, jobID); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	if _, err := db.Exec(ctx, `INSERT INTO resumes (resume_id, current_job, yoe, tech_skills, file_path) VALUES ($1,'Software Engineer',5,'python, aws','/r/a.pdf'), ($2,'QA Tester',1,'Java','/r/b.pdf')`, resA, resB); err != nil {
		t.Fatalf("seed resumes: %v", err)
	}
	if _, err := db.Exec(ctx, `INSERT INTO job_candidate_pools (req_id, resume_id) VALUES ($1,$2), ($1,$3)`, jobID, resA, resB); err != nil {
		t.Fatalf("seed pool: %v", err)
	}
	defer func() {
		bg := context.Background()
		_, _ = db.Exec(bg, `DELETE FROM matches WHERE job_id = $1`, jobID)
		_, _ = db.Exec(bg, `DELETE FROM jobs WHERE job_id = $1`, jobID)
		_, _ = db.Exec(bg, `DELETE FROM candidates WHERE candidate_id = ANY($1)`, []string{resA, resB})
		_, _ = db.Exec(bg, `DELETE FROM job_postings WHERE req_id = $1`, jobID)
		_, _ = db.Exec(bg, `DELETE FROM resumes WHERE resume_id = ANY($1)`, []string{resA, resB})
	}()

	if _, err := a.Container.Pipeline(nil).Run(ctx, a.Container.DefaultParams()); err != nil {
		t.Fatalf("ranking run: %v", err)
	}

	var jc jobCandidates
	decode(t, call(t, a.Fiber, fiber.MethodGet, "/api/v1/jobs/"+jobID+"/candidates", fiber.StatusOK).Data, &jc)
	if len(jc.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", jc)
	}
	if jc.Candidates[0].CandidateID != resA || jc.Candidates[0].Rank != 1 || jc.Candidates[1].Rank != 2 {
		t.Fatalf("unexpected ranking: %+v", jc.Candidates)
	}
	if jc.Candidates[1].CurrentRole != "QA Tester" {
		t.Fatalf("unexpected role: %+v", jc.Candidates[1])
	}
}

func testDBConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	host := os.Getenv("MATCHER_TEST_DB_HOST")
	port := os.Getenv("MATCHER_TEST_DB_PORT")
	name := os.Getenv("MATCHER_TEST_DB_NAME")
	user := os.Getenv("MATCHER_TEST_DB_USER")
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set MATCHER_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}
	ssl := os.Getenv("MATCHER_TEST_DB_SSL_MODE")
	if ssl == "" {
		ssl = "disable"
	}
	return config.DatabaseConfig{
		DBHost:         host,
		DBPort:         port,
		DBName:         name,
		DBUser:         user,
		DBPassword:     os.Getenv("MATCHER_TEST_DB_PASSWORD"),
		DBSSLMode:      ssl,
		ConnectTimeout: 5 * time.Second,
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func call(t *testing.T, app *fiber.App, method, target string, wantStatus int) semanticResponse {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer res.Body.Close()

	if res.StatusCode != wantStatus {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", method, target, wantStatus, res.StatusCode, string(b))
	}

	var out semanticResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode: %v", method, target, err)
	}
	return out
}

func decode(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s: %v", string(raw), err)
	}
}
