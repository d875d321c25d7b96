package llm

import (
	"errors"
	"fmt"
)

const (
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.7
	DefaultBaseURL     = "https://api.deepseek.com/v1/"
)

var (
	ErrMissingAPIKey = errors.New("llm: API key is not configured")
	ErrEmptyPrompt   = errors.New("llm: prompt is empty")
)

type Option func(*Options)

// Options are per-call overrides. Zero values keep the adapter defaults.
type Options struct {
	Model       string
	Temperature float64
	Stop        []string
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithStop(stop ...string) Option {
	return func(o *Options) { o.Stop = stop }
}

// UpstreamError is a non-200 answer from the chat-completion API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("error from DeepSeek API (status %d): %s", e.StatusCode, e.Body)
}

// TransportError is a failure to reach the chat-completion API at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("calling DeepSeek API: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// chatMessage is the plain {role, content} shape the API expects.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
