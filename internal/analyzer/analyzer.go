package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"

	"github.com/sozercan/echarts-ai/apimodels"
	"github.com/sozercan/echarts-ai/internal/extract"
	"github.com/sozercan/echarts-ai/internal/jsonvalue"
	"github.com/sozercan/echarts-ai/internal/prompt"
)

const logPreviewLen = 500

type Analyzer struct {
	chartChain    chains.Chain
	analysisChain chains.Chain
}

func New(model llms.Model) *Analyzer {
	return &Analyzer{
		chartChain:    prompt.NewChartChain(model),
		analysisChain: prompt.NewAnalysisChain(model),
	}
}

// GenerateChartConfig asks the model for an ECharts option object
// describing req.Data as req.Description asks.
func (a *Analyzer) GenerateChartConfig(ctx context.Context, req apimodels.ChartRequest) (jsonvalue.Value, error) {
	slog.Info("Starting chart config generation", "rows", len(req.Rows()))
	return a.run(ctx, "chart", a.chartChain, prompt.ChartInputs(req.Text(), req.Rows()))
}

// AnalyzeData asks the model for statistics, trends and chart
// recommendations for req.Data.
func (a *Analyzer) AnalyzeData(ctx context.Context, req apimodels.DataAnalysisRequest) (jsonvalue.Value, error) {
	slog.Info("Starting data analysis", "rows", len(req.Rows()))
	return a.run(ctx, "analysis", a.analysisChain, prompt.AnalysisInputs(req.Rows()))
}

func (a *Analyzer) run(ctx context.Context, name string, chain chains.Chain, inputs map[string]any) (jsonvalue.Value, error) {
	startTime := time.Now()

	out, err := chains.Call(ctx, chain, inputs)
	if err != nil {
		slog.Error("LLM chain failed", "chain", name, "error", err, "duration", time.Since(startTime))
		return jsonvalue.Value{}, err
	}

	keys := chain.GetOutputKeys()
	if len(keys) == 0 {
		return jsonvalue.Value{}, fmt.Errorf("%s chain has no output key", name)
	}
	text, ok := out[keys[0]].(string)
	if !ok {
		return jsonvalue.Value{}, fmt.Errorf("%s chain returned %T, want string", name, out[keys[0]])
	}

	slog.Debug("LLM chain completed", "chain", name, "duration", time.Since(startTime), "response", truncateString(text, logPreviewLen))
	return extract.JSONSpan(text), nil
}

// truncateString cuts s to at most maxLen bytes without splitting a rune.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n[truncated]"
}
