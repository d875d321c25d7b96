// echarts-ai turns chart descriptions and tabular data into ECharts
// configs with the help of the DeepSeek chat-completion API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sozercan/echarts-ai/internal/config"
)

var (
	version    = "dev"
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "echarts-ai",
	Short: "ECharts config generation backed by DeepSeek",
	Long: `echarts-ai serves an HTTP API that asks DeepSeek for ECharts configs and
data analyses, parses uploaded JSON/CSV files and lists example templates.

  echarts-ai serve                 Start the HTTP server
  echarts-ai parse data.csv        Parse a file the way /upload-file does
  echarts-ai templates             Print the built-in chart templates`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	rootCmd.AddCommand(serveCmd, parseCmd, templatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
