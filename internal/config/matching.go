package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"resume-matcher/internal/domain/matching"

	"gopkg.in/yaml.v3"
)

var ErrInvalidMatchingConfig = errors.New("invalid matching config")

const DefaultTopKSkills = 3

type ExperienceConfig struct {
	SaturationYears float64            `yaml:"saturation_years"`
	RoleMinimums    map[string]float64 `yaml:"role_minimums"`
}

// MatchingConfig is the scoring and normalization data loaded once per run.
type MatchingConfig struct {
	Weights      matching.Weights  `yaml:"weights"`
	CategoryMap  map[string]string `yaml:"category_map"`
	SkillAliases map[string]string `yaml:"skill_aliases"`
	RoleAliases  map[string]string `yaml:"role_aliases"`
	Experience   ExperienceConfig  `yaml:"experience"`
	TopKSkills   int               `yaml:"top_k_skills"`
}

func DefaultMatching() MatchingConfig {
	return MatchingConfig{
		Weights: matching.DefaultWeights(),
		CategoryMap: map[string]string{
			"MECHANICALCHEMICALQUALITYENGINEERING": "Core_Engg",
			"IT":                                   "Engineering",
		},
		SkillAliases: map[string]string{},
		RoleAliases:  map[string]string{},
		Experience: ExperienceConfig{
			SaturationYears: matching.DefaultSaturationYears,
			RoleMinimums:    map[string]float64{},
		},
		TopKSkills: DefaultTopKSkills,
	}
}

// LoadMatching reads the YAML file at path on top of the defaults. An empty path returns
// the defaults. The result is always validated.
func LoadMatching(path string) (MatchingConfig, error) {
	cfg := DefaultMatching()
	path = strings.TrimSpace(path)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return MatchingConfig{}, fmt.Errorf("read matching config %s: %w", path, err)
		}
		if err := ParseMatching(b, &cfg); err != nil {
			return MatchingConfig{}, fmt.Errorf("parse matching config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return MatchingConfig{}, err
	}
	return cfg, nil
}

type matchingFile struct {
	Weights      *matching.Weights `yaml:"weights"`
	CategoryMap  map[string]string `yaml:"category_map"`
	SkillAliases map[string]string `yaml:"skill_aliases"`
	RoleAliases  map[string]string `yaml:"role_aliases"`
	Experience   *struct {
		SaturationYears *float64           `yaml:"saturation_years"`
		RoleMinimums    map[string]float64 `yaml:"role_minimums"`
	} `yaml:"experience"`
	TopKSkills *int `yaml:"top_k_skills"`
}

// ParseMatching overlays the sections present in b onto cfg. A section that is present
// replaces the default wholesale, so a file can also drop default mappings.
func ParseMatching(b []byte, cfg *MatchingConfig) error {
	var f matchingFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidMatchingConfig, err)
	}

	if f.Weights != nil {
		cfg.Weights = *f.Weights
	}
	if f.CategoryMap != nil {
		cfg.CategoryMap = f.CategoryMap
	}
	if f.SkillAliases != nil {
		cfg.SkillAliases = f.SkillAliases
	}
	if f.RoleAliases != nil {
		cfg.RoleAliases = f.RoleAliases
	}
	if f.Experience != nil {
		if f.Experience.SaturationYears != nil {
			cfg.Experience.SaturationYears = *f.Experience.SaturationYears
		}
		if f.Experience.RoleMinimums != nil {
			cfg.Experience.RoleMinimums = f.Experience.RoleMinimums
		}
	}
	if f.TopKSkills != nil {
		cfg.TopKSkills = *f.TopKSkills
	}
	return nil
}

func (c MatchingConfig) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.TopKSkills < 0 {
		return fmt.Errorf("%w: top_k_skills=%d is negative", ErrInvalidMatchingConfig, c.TopKSkills)
	}
	if !isFinite(c.Experience.SaturationYears) {
		return fmt.Errorf("%w: experience.saturation_years is not a finite number", ErrInvalidMatchingConfig)
	}
	if c.Experience.SaturationYears < 0 {
		return fmt.Errorf("%w: experience.saturation_years=%g is negative", ErrInvalidMatchingConfig, c.Experience.SaturationYears)
	}
	for token, years := range c.Experience.RoleMinimums {
		if !isFinite(years) {
			return fmt.Errorf("%w: experience.role_minimums[%s] is not a finite number", ErrInvalidMatchingConfig, token)
		}
		if years < 0 {
			return fmt.Errorf("%w: experience.role_minimums[%s]=%g is negative", ErrInvalidMatchingConfig, token, years)
		}
	}
	for raw, canonical := range c.CategoryMap {
		if strings.TrimSpace(raw) == "" || strings.TrimSpace(canonical) == "" {
			return fmt.Errorf("%w: category_map entries must be non-empty", ErrInvalidMatchingConfig)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c MatchingConfig) Table() matching.Table {
	return matching.NewTable(c.CategoryMap, c.SkillAliases, c.RoleAliases)
}

func (c MatchingConfig) ExperiencePolicy() matching.ExperiencePolicy {
	return matching.ExperiencePolicy{
		SaturationYears: c.Experience.SaturationYears,
		RoleMinimums:    c.Experience.RoleMinimums,
	}
}

// Engine builds the scoring engine. Invalid weights are reported, never replaced.
func (c MatchingConfig) Engine() (*matching.Engine, error) {
	scorer, err := matching.NewLinearScorer(c.Weights)
	if err != nil {
		return nil, err
	}
	return matching.NewEngine(matching.NewExtractor(c.ExperiencePolicy()), scorer), nil
}
