package matching

import (
	"sort"
	"sync"
)

const (
	DiagSkillsMalformed    = "skills_malformed"
	DiagCategoryMissing    = "category_missing"
	DiagRoleMissing        = "role_missing"
	DiagTitleMissing       = "title_missing"
	DiagDuplicateJob       = "duplicate_job"
	DiagDuplicateCandidate = "duplicate_candidate"
	DiagInvalidExperience  = "invalid_experience"
	DiagMissingID          = "missing_id"
)

// Diagnostics counts ingestion fallbacks. The zero value is ready to use and a nil
// *Diagnostics discards everything.
type Diagnostics struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{counts: map[string]int64{}}
}

func (d *Diagnostics) Add(kind string) {
	if d == nil || kind == "" {
		return
	}
	d.mu.Lock()
	if d.counts == nil {
		d.counts = map[string]int64{}
	}
	d.counts[kind]++
	d.mu.Unlock()
}

func (d *Diagnostics) Count(kind string) int64 {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[kind]
}

func (d *Diagnostics) Snapshot() map[string]int64 {
	out := map[string]int64{}
	if d == nil {
		return out
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}

// Kinds returns the recorded kinds in sorted order.
func (d *Diagnostics) Kinds() []string {
	snap := d.Snapshot()
	out := make([]string, 0, len(snap))
	for k := range snap {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
