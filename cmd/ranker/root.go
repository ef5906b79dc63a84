package main

import (
	"resume-matcher/internal/config"
	"resume-matcher/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "ranker"

var (
	debugLog bool
	jsonLog  bool

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "ranker scores candidate pools against job postings and stores the ranked matches",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")

	rootCmd.AddCommand(runCmd, validateConfigCmd, seedCmd)
}

// newLogger lets the flags override LOG_JSON / LOG_DEBUG.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	return logger.New(cfg.JSON || jsonLog, cfg.Debug || debugLog)
}
