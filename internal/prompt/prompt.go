// Package prompt renders the chart-generation and data-analysis prompts
// and binds them to a model as langchaingo chains.
package prompt

import (
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"

	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

// Input variable names shared by the templates and chain inputs.
const (
	VarDescription = "description"
	VarData        = "data"
)

const chartTemplate = `
    根据以下描述和数据，生成一个ECharts配置：
    
    描述: {{.description}}
    
    数据: {{.data}}
    
    请生成一个完整的、有效的ECharts配置JSON。只返回JSON格式的配置，不要包含任何解释或其他文本。
    确保配置包含适当的标题、图例、坐标轴标签和数据系列。
    `

const analysisTemplate = `
    分析以下数据并提供见解：
    
    数据: {{.data}}
    
    请提供以下信息：
    1. 数据的基本统计信息（如有数值型数据）
    2. 数据中的主要趋势或模式
    3. 推荐的可视化图表类型及理由
    4. 其他任何有价值的观察
    
    请以JSON格式返回结果，包含以下字段：statistics, trends, recommended_charts, observations
    `

var (
	Chart    = prompts.NewPromptTemplate(chartTemplate, []string{VarDescription, VarData})
	Analysis = prompts.NewPromptTemplate(analysisTemplate, []string{VarData})
)

// ChartInputs maps a chart request onto the chart template variables.
// data is embedded as compact JSON, description verbatim.
func ChartInputs(description string, data jsonvalue.Array) map[string]any {
	return map[string]any{
		VarDescription: description,
		VarData:        data.Compact(),
	}
}

func AnalysisInputs(data jsonvalue.Array) map[string]any {
	return map[string]any{
		VarData: data.Compact(),
	}
}

func ChartPrompt(description string, data jsonvalue.Array) (string, error) {
	return Chart.Format(ChartInputs(description, data))
}

func AnalysisPrompt(data jsonvalue.Array) (string, error) {
	return Analysis.Format(AnalysisInputs(data))
}

func NewChartChain(model llms.Model) *chains.LLMChain {
	return newChain(model, Chart)
}

func NewAnalysisChain(model llms.Model) *chains.LLMChain {
	return newChain(model, Analysis)
}

func newChain(model llms.Model, tmpl prompts.PromptTemplate) *chains.LLMChain {
	chain := chains.NewLLMChain(model, tmpl)
	chain.OutputParser = Verbatim{}
	return chain
}

// Verbatim is an output parser that hands the completion back untouched.
// The default parser trims whitespace, which would alter the raw_text
// fallback.
type Verbatim struct{}

var _ schema.OutputParser[any] = Verbatim{}

func (Verbatim) Parse(text string) (any, error) { return text, nil }

func (Verbatim) ParseWithPrompt(text string, _ llms.PromptValue) (any, error) { return text, nil }

func (Verbatim) GetFormatInstructions() string { return "" }

func (Verbatim) Type() string { return "verbatim" }
