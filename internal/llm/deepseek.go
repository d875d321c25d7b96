package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tmc/langchaingo/llms"

	"github.com/sozercan/echarts-ai/internal/config"
)

var _ llms.Model = (*DeepSeek)(nil)

// DeepSeek talks to the DeepSeek chat-completion API, which speaks the
// OpenAI wire format. It doubles as a langchaingo model so it can back
// an LLMChain.
type DeepSeek struct {
	client *openai.Client
	cfg    config.LLMConfig
}

// New builds the adapter. It fails when no API key is configured. Extra
// request options are appended after the defaults.
func New(cfg config.LLMConfig, opts ...option.RequestOption) (*DeepSeek, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
		option.WithMiddleware(classifyResponse),
	}
	client := openai.NewClient(append(reqOpts, opts...)...)

	slog.Info("DeepSeek adapter initialized", "base_url", cfg.BaseURL, "model", cfg.Model)
	return &DeepSeek{
		client: client,
		cfg:    cfg,
	}, nil
}

// Complete sends prompt as the only user message and returns the first
// choice's content.
func (d *DeepSeek) Complete(ctx context.Context, prompt string, opts ...Option) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	return d.chat(ctx, []chatMessage{{Role: "user", Content: prompt}}, opts...)
}

// GenerateContent implements llms.Model. Text parts of each message are
// joined; other part types are ignored.
func (d *DeepSeek) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var callOpts llms.CallOptions
	for _, opt := range options {
		opt(&callOpts)
	}

	msgs := make([]chatMessage, 0, len(messages))
	empty := true
	for _, m := range messages {
		var text strings.Builder
		for _, part := range m.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				text.WriteString(tc.Text)
			}
		}
		if text.Len() > 0 {
			empty = false
		}
		msgs = append(msgs, chatMessage{Role: roleFor(m.Role), Content: text.String()})
	}
	if empty {
		return nil, ErrEmptyPrompt
	}

	content, err := d.chat(ctx, msgs,
		WithModel(callOpts.Model),
		WithTemperature(callOpts.Temperature),
		WithStop(callOpts.StopWords...),
	)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

// Call implements llms.Model.
func (d *DeepSeek) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, d, prompt, options...)
}

func (d *DeepSeek) chat(ctx context.Context, msgs []chatMessage, opts ...Option) (string, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Model == "" {
		options.Model = d.cfg.Model
	}
	if options.Temperature == 0 {
		options.Temperature = d.cfg.Temperature
	}

	// messages and stop are written straight into the body so the API sees
	// plain string content and a bare stop list.
	reqOpts := []option.RequestOption{option.WithJSONSet("messages", msgs)}
	if len(options.Stop) > 0 {
		reqOpts = append(reqOpts, option.WithJSONSet("stop", options.Stop))
	}

	slog.Debug("Calling DeepSeek", "model", options.Model, "temperature", options.Temperature, "messages", len(msgs))
	resp, err := d.client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Model:       openai.F(options.Model),
			Temperature: openai.F(options.Temperature),
		},
		reqOpts...,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyResponse turns transport failures and non-200 answers into the
// package's error types before the SDK sees them.
func classifyResponse(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	res, err := next(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Err: err}
	}
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		body, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return nil, &TransportError{Err: readErr}
		}
		return nil, &UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return res, nil
}

func roleFor(t llms.ChatMessageType) string {
	switch t {
	case llms.ChatMessageTypeSystem:
		return "system"
	case llms.ChatMessageTypeAI:
		return "assistant"
	}
	return "user"
}
