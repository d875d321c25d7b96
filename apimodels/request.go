package apimodels

import "github.com/sozercan/echarts-ai/internal/jsonvalue"

type ChartRequest struct {
	// Description is the natural language description of the chart
	Description *string `json:"description" validate:"required"`

	// Data is the rows the chart is drawn from
	Data *jsonvalue.Array `json:"data" validate:"required"`
}

type DataAnalysisRequest struct {
	Data *jsonvalue.Array `json:"data" validate:"required"`
}

// Rows returns the request data, or nil when absent.
func (r ChartRequest) Rows() jsonvalue.Array {
	if r.Data == nil {
		return nil
	}
	return *r.Data
}

func (r ChartRequest) Text() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

func (r DataAnalysisRequest) Rows() jsonvalue.Array {
	if r.Data == nil {
		return nil
	}
	return *r.Data
}
