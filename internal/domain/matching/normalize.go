package matching

import (
	"encoding/json"
	"path"
	"regexp"
	"strconv"
	"strings"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/skill"
)

const (
	UnspecifiedRole       = "unspecified"
	UncategorizedCategory = "Uncategorized"
)

var (
	reNonWord     = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	reNonSkill    = regexp.MustCompile(`[^\p{L}\p{N}+#.]+`)
	reSpaces      = regexp.MustCompile(`\s+`)
	skillSplitter = strings.NewReplacer(";", ",", "|", ",", "\n", ",", "\r", ",")
)

// Table holds the externally configured normalization mappings. Keys are folded on
// construction so lookups are case and whitespace insensitive.
type Table struct {
	categories   map[string]string
	skillAliases map[string]string
	roleAliases  map[string]string
}

func NewTable(categories, skillAliases, roleAliases map[string]string) Table {
	t := Table{
		categories:   make(map[string]string, len(categories)),
		skillAliases: make(map[string]string, len(skillAliases)),
		roleAliases:  make(map[string]string, len(roleAliases)),
	}
	for raw, canonical := range categories {
		k := foldCategory(raw)
		if k == "" {
			continue
		}
		t.categories[k] = strings.TrimSpace(canonical)
	}
	for raw, canonical := range skillAliases {
		k := skillKey(raw)
		if k == "" {
			continue
		}
		t.skillAliases[k] = skillKey(canonical)
	}
	for raw, canonical := range roleAliases {
		k := foldText(raw)
		if k == "" {
			continue
		}
		t.roleAliases[k] = foldText(canonical)
	}
	return t
}

type Normalizer struct {
	table Table
	diag  *Diagnostics
}

func NewNormalizer(t Table, diag *Diagnostics) *Normalizer {
	return &Normalizer{table: t, diag: diag}
}

func (n *Normalizer) NormalizeCategory(raw string) string {
	k := foldCategory(raw)
	if k == "" {
		n.diag.Add(DiagCategoryMissing)
		return UncategorizedCategory
	}
	if canonical, ok := n.table.categories[k]; ok && canonical != "" {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// NormalizeSkills accepts a JSON string array or a delimiter separated string. Text starting
// with "[" must decode as an array of strings (null elements and numbers are tolerated).
// Text starting with "{", an array holding objects or nested arrays, and delimited text with
// unbalanced brackets all degrade to the skills-unavailable placeholder. Balanced brackets
// inside delimited text ("SQL [advanced]") are kept as part of the token.
func (n *Normalizer) NormalizeSkills(raw string) []skill.Skill {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []skill.Skill{}
	}

	switch {
	case strings.HasPrefix(raw, "["):
		tokens, ok := decodeSkillArray(raw)
		if !ok {
			n.diag.Add(DiagSkillsMalformed)
			return unavailableSkills()
		}
		return n.NormalizeSkillList(tokens)
	case strings.HasPrefix(raw, "{"), !bracketsBalanced(raw):
		n.diag.Add(DiagSkillsMalformed)
		return unavailableSkills()
	}

	return n.NormalizeSkillList(strings.Split(skillSplitter.Replace(raw), ","))
}

func decodeSkillArray(raw string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	tokens := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
			continue
		case string:
			tokens = append(tokens, v)
		case float64:
			tokens = append(tokens, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			return nil, false
		}
	}
	return tokens, true
}

func bracketsBalanced(s string) bool {
	square, curly := 0, 0
	for _, r := range s {
		switch r {
		case '[':
			square++
		case ']':
			square--
		case '{':
			curly++
		case '}':
			curly--
		}
		if square < 0 || curly < 0 {
			return false
		}
	}
	return square == 0 && curly == 0
}

// NormalizeSkillList trims, drops empties and duplicates, and keeps insertion order.
func (n *Normalizer) NormalizeSkillList(raw []string) []skill.Skill {
	out := make([]skill.Skill, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		display := strings.Join(strings.Fields(r), " ")
		if display == "" {
			continue
		}
		key := skillKey(display)
		if key == "" {
			continue
		}
		if alias, ok := n.table.skillAliases[key]; ok && alias != "" {
			key = alias
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill.Skill{Display: display, Key: key})
	}
	return out
}

func (n *Normalizer) NormalizeRole(raw string) string {
	folded := foldText(strings.ReplaceAll(raw, "@", " at "))
	if folded == "" {
		return UnspecifiedRole
	}

	tokens := strings.Fields(folded)
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "at" {
			tokens = tokens[:i]
			break
		}
	}
	folded = strings.Join(tokens, " ")

	if alias, ok := n.table.roleAliases[folded]; ok && alias != "" {
		return alias
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if alias, ok := n.table.roleAliases[t]; ok && alias != "" {
			out = append(out, alias)
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return UnspecifiedRole
	}
	return strings.Join(out, " ")
}

func (n *Normalizer) Job(raw RawJob) job.Job {
	var skills []skill.Skill
	if len(raw.SkillsList) > 0 {
		skills = n.NormalizeSkillList(raw.SkillsList)
	} else {
		skills = n.NormalizeSkills(raw.SkillsText)
	}

	title := strings.Join(strings.Fields(raw.Title), " ")
	if title == "" {
		n.diag.Add(DiagTitleMissing)
	}

	return job.Job{
		ID:                 strings.TrimSpace(raw.ID),
		Title:              title,
		Category:           strings.TrimSpace(raw.Category),
		NormalizedCategory: n.NormalizeCategory(raw.Category),
		NormalizedTitle:    n.NormalizeRole(title),
		Skills:             skills,
		Description:        strings.TrimSpace(raw.Description),
	}
}

func (n *Normalizer) Candidate(raw RawCandidate) candidate.Candidate {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = CandidateIDFromResume(raw.ResumeName)
	}

	var skills []skill.Skill
	if len(raw.SkillsList) > 0 {
		skills = n.NormalizeSkillList(raw.SkillsList)
	} else {
		skills = n.NormalizeSkills(raw.SkillsText)
	}

	role := strings.Join(strings.Fields(raw.CurrentRole), " ")
	normRole := n.NormalizeRole(role)
	if normRole == UnspecifiedRole {
		n.diag.Add(DiagRoleMissing)
	}

	years, known := 0, false
	if raw.YearsExperience != nil {
		years, known = *raw.YearsExperience, true
		if years < 0 {
			n.diag.Add(DiagInvalidExperience)
			years, known = 0, false
		}
	}

	return candidate.Candidate{
		ID:              id,
		CurrentRole:     role,
		NormalizedRole:  normRole,
		YearsExperience: years,
		ExperienceKnown: known,
		Skills:          skills,
		ResumePath:      strings.TrimSpace(raw.FilePath),
		ResumeURL:       strings.TrimSpace(raw.FileURL),
	}
}

// CandidateIDFromResume derives a candidate id from a resume file name: "dir/1234.pdf" -> "1234".
func CandidateIDFromResume(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSpace(base)
}

func unavailableSkills() []skill.Skill {
	return []skill.Skill{{Display: skill.Unavailable, Key: skill.Unavailable, Placeholder: true}}
}

func foldCategory(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func foldText(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func skillKey(s string) string {
	s = strings.ToLower(s)
	s = reNonSkill.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.Trim(strings.TrimSpace(s), ".")
}
