package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sozercan/echarts-ai/internal/analyzer"
	"github.com/sozercan/echarts-ai/internal/config"
	"github.com/sozercan/echarts-ai/internal/llm"
	"github.com/sozercan/echarts-ai/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if !cmd.Flags().Changed("log-level") {
			if err := setupLogging(cfg.Log.Level); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		model, err := llm.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("failed to create LLM adapter: %w", err)
		}

		srv := server.New(*cfg, analyzer.New(model))
		return srv.Run()
	},
}
