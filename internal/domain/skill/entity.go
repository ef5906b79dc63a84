package skill

// Unavailable is shown in place of a skill list that could not be parsed.
const Unavailable = "skills unavailable"

// Skill keeps the text as it should be shown next to the key used for comparison.
type Skill struct {
	Display     string `json:"display"`
	Key         string `json:"key"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

func Displays(skills []Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Display)
	}
	return out
}

// Keys returns the comparison keys of every non-placeholder skill.
func Keys(skills []Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Placeholder || s.Key == "" {
			continue
		}
		out = append(out, s.Key)
	}
	return out
}
