package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/sozercan/echarts-ai/internal/config"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "deepseek-chat",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"title\": {\"text\": \"ok\"}}"}}
  ]
}`

type recordedRequest struct {
	Path  string
	Auth  string
	Body  map[string]json.RawMessage
	Calls int32
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rec.Calls, 1)
		rec.Path = r.URL.Path
		rec.Auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &rec.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, rec
}

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:      "sk-test",
		BaseURL:     baseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(config.LLMConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCompleteWireFormat(t *testing.T) {
	ts, rec := newUpstream(t, http.StatusOK, completionBody)

	d, err := New(testConfig(ts.URL + "/v1"))
	require.NoError(t, err)

	got, err := d.Complete(context.Background(), "画一个折线图")
	require.NoError(t, err)
	assert.Equal(t, `{"title": {"text": "ok"}}`, got)

	assert.Equal(t, "/v1/chat/completions", rec.Path)
	assert.Equal(t, "Bearer sk-test", rec.Auth)

	var model string
	require.NoError(t, json.Unmarshal(rec.Body["model"], &model))
	assert.Equal(t, "deepseek-chat", model)

	var temperature float64
	require.NoError(t, json.Unmarshal(rec.Body["temperature"], &temperature))
	assert.InDelta(t, 0.7, temperature, 1e-9)

	var messages []chatMessage
	require.NoError(t, json.Unmarshal(rec.Body["messages"], &messages))
	assert.Equal(t, []chatMessage{{Role: "user", Content: "画一个折线图"}}, messages)

	_, hasStop := rec.Body["stop"]
	assert.False(t, hasStop, "stop is omitted when empty")
}

func TestCompleteWithOptions(t *testing.T) {
	ts, rec := newUpstream(t, http.StatusOK, completionBody)

	d, err := New(testConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = d.Complete(context.Background(), "hi",
		WithModel("deepseek-reasoner"),
		WithTemperature(0.1),
		WithStop("\n\n", "END"),
	)
	require.NoError(t, err)

	var model string
	require.NoError(t, json.Unmarshal(rec.Body["model"], &model))
	assert.Equal(t, "deepseek-reasoner", model)

	var temperature float64
	require.NoError(t, json.Unmarshal(rec.Body["temperature"], &temperature))
	assert.InDelta(t, 0.1, temperature, 1e-9)

	var stop []string
	require.NoError(t, json.Unmarshal(rec.Body["stop"], &stop))
	assert.Equal(t, []string{"\n\n", "END"}, stop)
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	ts, rec := newUpstream(t, http.StatusOK, completionBody)

	d, err := New(testConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = d.Complete(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, atomic.LoadInt32(&rec.Calls))
}

func TestCompleteUpstreamError(t *testing.T) {
	const body = `{"error":{"message":"Authentication Fails (no such user)","type":"authentication_error"}}`
	ts, rec := newUpstream(t, http.StatusUnauthorized, body)

	d, err := New(testConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = d.Complete(context.Background(), "hi")
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr), "got %T: %v", err, err)
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, body, upErr.Body)
	assert.Contains(t, err.Error(), "Authentication Fails")
	assert.Equal(t, int32(1), atomic.LoadInt32(&rec.Calls), "no retries")
}

func TestCompleteTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	d, err := New(testConfig(url + "/v1/"))
	require.NoError(t, err)

	_, err = d.Complete(context.Background(), "hi")
	var trErr *TransportError
	assert.True(t, errors.As(err, &trErr), "got %T: %v", err, err)
}

func TestCompleteNoChoices(t *testing.T) {
	ts, _ := newUpstream(t, http.StatusOK, `{"choices": []}`)

	d, err := New(testConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = d.Complete(context.Background(), "hi")
	assert.ErrorContains(t, err, "no choices")
}

func TestGenerateContentAsLangchainModel(t *testing.T) {
	ts, rec := newUpstream(t, http.StatusOK, completionBody)

	d, err := New(testConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	out, err := llms.GenerateFromSinglePrompt(context.Background(), d, "describe the data",
		llms.WithStopWords([]string{"###"}))
	require.NoError(t, err)
	assert.Equal(t, `{"title": {"text": "ok"}}`, out)

	var messages []chatMessage
	require.NoError(t, json.Unmarshal(rec.Body["messages"], &messages))
	assert.Equal(t, []chatMessage{{Role: "user", Content: "describe the data"}}, messages)

	var stop []string
	require.NoError(t, json.Unmarshal(rec.Body["stop"], &stop))
	assert.Equal(t, []string{"###"}, stop)

	var temperature float64
	require.NoError(t, json.Unmarshal(rec.Body["temperature"], &temperature))
	assert.InDelta(t, 0.7, temperature, 1e-9, "zero call option keeps the default")
}

func TestGenerateContentRoles(t *testing.T) {
	ts, rec := newUpstream(t, http.StatusOK, completionBody)

	d, err := New(testConfig(ts.URL + "/v1/"))
	require.NoError(t, err)

	_, err = d.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, "you draw charts"),
		llms.TextParts(llms.ChatMessageTypeHuman, "a bar chart"),
	})
	require.NoError(t, err)

	var messages []chatMessage
	require.NoError(t, json.Unmarshal(rec.Body["messages"], &messages))
	assert.Equal(t, []chatMessage{
		{Role: "system", Content: "you draw charts"},
		{Role: "user", Content: "a bar chart"},
	}, messages)

	_, err = d.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, ""),
	})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
