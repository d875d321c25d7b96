package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/echarts-ai/internal/jsonvalue"
)

func TestTemplates(t *testing.T) {
	got := Templates()
	require.Len(t, got, 3)

	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Equal(t, []string{"折线图", "柱状图", "饼图"}, names)

	for _, tpl := range got {
		assert.NotEmpty(t, tpl.Description)
		assert.Equal(t, jsonvalue.KindObject, tpl.ExampleConfig.Kind(), tpl.Name)

		b, err := json.Marshal(tpl.ExampleConfig)
		require.NoError(t, err)
		assert.True(t, json.Valid(b))
	}
}

func TestTemplatesAreStable(t *testing.T) {
	first, err := json.Marshal(Templates())
	require.NoError(t, err)

	mutated := Templates()
	mutated[0].Name = "changed"

	second, err := json.Marshal(Templates())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPieTemplateKeepsKeyOrder(t *testing.T) {
	pie := Templates()[2]
	assert.Equal(t,
		`{"title":{"text":"销售占比"},"series":[{"type":"pie","data":[{"value":1048,"name":"产品A"},{"value":735,"name":"产品B"},{"value":580,"name":"产品C"},{"value":484,"name":"产品D"},{"value":300,"name":"产品E"}]}]}`,
		pie.ExampleConfig.Compact())
}

func TestMustLoadRejectsNonObjectConfig(t *testing.T) {
	assert.Panics(t, func() {
		mustLoad([]byte(`[{"name": "x", "description": "y", "example_config": [1]}]`))
	})
	assert.Panics(t, func() { mustLoad([]byte(`{`)) })
}
