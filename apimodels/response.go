package apimodels

import (
	"github.com/sozercan/echarts-ai/internal/catalog"
	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

type ChartConfigResponse struct {
	// The ECharts option object, or {"raw_text": ...} when the model
	// did not answer with JSON
	Config jsonvalue.Value `json:"config"`
}

type AnalysisResponse struct {
	// statistics, trends, recommended_charts, observations as returned
	// by the model, or the raw_text fallback
	Analysis jsonvalue.Value `json:"analysis"`
}

type UploadResponse struct {
	Data jsonvalue.Value `json:"data"`
}

type TemplatesResponse struct {
	Templates []catalog.ChartTemplate `json:"templates"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
