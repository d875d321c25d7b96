// Package catalog holds the built-in ECharts example templates.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

// ChartTemplate is one example chart with a ready-to-render config.
type ChartTemplate struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	ExampleConfig jsonvalue.Value `json:"example_config"`
}

//go:embed templates.json
var templatesJSON []byte

var templates = mustLoad(templatesJSON)

func mustLoad(data []byte) []ChartTemplate {
	var out []ChartTemplate
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("catalog: invalid embedded templates: %v", err))
	}
	for _, tpl := range out {
		if kind := tpl.ExampleConfig.Kind(); kind != jsonvalue.KindObject {
			panic(fmt.Sprintf("catalog: template %q example_config is %s, want object", tpl.Name, kind))
		}
	}
	return out
}

// Templates returns the line, bar and pie chart templates. The result is
// a fresh slice on every call; the order never changes.
func Templates() []ChartTemplate {
	return append([]ChartTemplate(nil), templates...)
}
