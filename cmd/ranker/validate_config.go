package main

import (
	"fmt"
	"os"

	"resume-matcher/internal/config"

	"github.com/spf13/cobra"
)

var matchingConfigPath string

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Load and validate the matching configuration without touching any backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := matchingConfigPath
		if path == "" {
			path = os.Getenv("MATCHING_CONFIG")
		}

		m, err := config.LoadMatching(path)
		if err != nil {
			return err
		}
		engine, err := m.Engine()
		if err != nil {
			return err
		}

		source := path
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config ok: %s\nscoring version: %s\ncategories mapped: %d\ntop_k_skills: %d\n",
			source, engine.Version(), len(m.CategoryMap), m.TopKSkills)
		return nil
	},
}

func init() {
	validateConfigCmd.Flags().StringVar(&matchingConfigPath, "config", "", "matching config YAML (default MATCHING_CONFIG, then built-in defaults)")
}
