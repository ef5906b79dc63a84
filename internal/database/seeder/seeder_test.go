package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"resume-matcher/internal/database"
	"resume-matcher/internal/domain/matching"
	"resume-matcher/internal/infrastructure/persistence/memory"
)

type fakeRows struct {
	pairs [][2]string
	i     int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.pairs)
}
func (r *fakeRows) Scan(dest ...any) error {
	p := r.pairs[r.i-1]
	*dest[0].(*string) = p[0]
	*dest[1].(*string) = p[1]
	return nil
}

type fakeTx struct {
	execs      []string
	execArgs   [][]any
	failOn     string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, query string, args ...any) (int64, error) {
	if t.failOn != "" && strings.Contains(query, t.failOn) {
		return 0, errors.New("insert refused")
	}
	t.execs = append(t.execs, query)
	t.execArgs = append(t.execArgs, args)
	return 1, nil
}
func (t *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not used")
}
func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row { return nil }
func (t *fakeTx) CopyFrom(context.Context, string, []string, [][]any) (int64, error) {
	return 0, errors.New("not used")
}
func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	columns    map[string][]string
	tx         *fakeTx
	begins     int
	queryNames []string
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close() error               { return nil }
func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not used")
}
func (d *fakeDB) Query(_ context.Context, _ string, args ...any) (database.Rows, error) {
	d.queryNames = args[0].([]string)
	rows := &fakeRows{}
	for _, table := range d.queryNames {
		for _, c := range d.columns[table] {
			rows.pairs = append(rows.pairs, [2]string{table, c})
		}
	}
	return rows, nil
}
func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }
func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	d.begins++
	return d.tx, nil
}
func (d *fakeDB) SQLDB() *sql.DB { return nil }

func fullSchema() map[string][]string {
	out := map[string][]string{}
	for _, s := range []Seeder{JobPostingsSeeder{}, ResumesSeeder{}} {
		for _, t := range s.Tables() {
			out[t.Name] = t.Columns
		}
	}
	return out
}

func intp(v int) *int { return &v }

func testSeeders() []Seeder {
	jobs := &memory.JobSource{Jobs: []matching.RawJob{
		{ID: "J1", Title: "Backend", Category: "IT", SkillsList: []string{"Go"}},
		{ID: "J2", Title: "Data", Category: "IT", SkillsText: "SQL"},
		{ID: ""},
	}}
	cands := &memory.CandidateSource{All: []matching.RawCandidate{
		{ID: "1", ResumeName: "1.pdf", YearsExperience: intp(3)},
		{ID: "2", ResumeName: "2.pdf"},
	}}
	return []Seeder{JobPostingsSeeder{Jobs: jobs}, ResumesSeeder{Jobs: jobs, Candidates: cands}}
}

func TestRunner_SeedsInOneTransaction(t *testing.T) {
	db := &fakeDB{columns: fullSchema(), tx: &fakeTx{}}
	counts, err := Runner{Seeders: testSeeders()}.Run(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if db.begins != 1 || !db.tx.committed {
		t.Fatalf("expected one committed transaction, begins=%d committed=%v", db.begins, db.tx.committed)
	}
	if counts["job_postings"] != 2 || counts["resumes"] != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}
	// 2 job upserts, 2 resume upserts, 4 pool rows.
	if len(db.tx.execs) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(db.tx.execs))
	}
	if len(db.queryNames) != 3 {
		t.Fatalf("expected schema checked for 3 tables in one query, got %v", db.queryNames)
	}
}

func TestRunner_MissingColumnsStopBeforeWriting(t *testing.T) {
	schema := fullSchema()
	schema["resumes"] = []string{"resume_id", "current_job"}
	delete(schema, "job_candidate_pools")
	db := &fakeDB{columns: schema, tx: &fakeTx{}}

	_, err := Runner{Seeders: testSeeders()}.Run(context.Background(), db)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	for _, col := range []string{"resumes.yoe", "resumes.file_url", "job_candidate_pools.req_id"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("expected %s reported, got %v", col, err)
		}
	}
	if db.begins != 0 {
		t.Fatalf("expected no transaction, got %d", db.begins)
	}
}

func TestRunner_FailedSeederRollsBack(t *testing.T) {
	db := &fakeDB{columns: fullSchema(), tx: &fakeTx{failOn: "job_candidate_pools"}}
	_, err := Runner{Seeders: testSeeders()}.Run(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "seed resumes") {
		t.Fatalf("expected seed resumes error, got %v", err)
	}
	if db.tx.committed || !db.tx.rolledBack {
		t.Fatalf("expected rollback without commit, committed=%v rolledBack=%v", db.tx.committed, db.tx.rolledBack)
	}
}

func TestJobPostingsSeeder_StoresSkillListAsJSON(t *testing.T) {
	tx := &fakeTx{}
	n, err := testSeeders()[0].Seed(context.Background(), tx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 jobs, got %d err=%v", n, err)
	}
	if got := tx.execArgs[0][3]; got != `["Go"]` {
		t.Fatalf("expected JSON skills column, got %v", got)
	}
	if got := tx.execArgs[1][3]; got != "SQL" {
		t.Fatalf("expected text skills kept, got %v", got)
	}
}

func TestSkillsColumn(t *testing.T) {
	got, err := skillsColumn("ignored", []string{"Go", "SQL, Server"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != `["Go","SQL, Server"]` {
		t.Fatalf("unexpected column: %s", got)
	}

	got, _ = skillsColumn("not-json[", nil)
	if got != "not-json[" {
		t.Fatalf("expected text kept verbatim, got %s", got)
	}
}

func TestResumeID(t *testing.T) {
	if id := resumeID(matching.RawCandidate{ID: "7", ResumeName: "dir/7.pdf"}); id != "dir/7.pdf" {
		t.Fatalf("expected resume name, got %q", id)
	}
	if id := resumeID(matching.RawCandidate{ID: "7"}); id != "7" {
		t.Fatalf("expected id fallback, got %q", id)
	}
}
