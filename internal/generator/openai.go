package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-3.5-turbo"
	defaultTimeout       = 60 * time.Second
)

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAI talks to the chat completions endpoint.
type OpenAI struct {
	client      *resty.Client
	endpoint    string
	apiKey      string
	model       string
	temperature float32
}

// NewOpenAI creates an OpenAI chat completions generator.
func NewOpenAI(opts Options) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &OpenAI{
		client:      httpclient.NewRestyHTTPClient(timeout),
		endpoint:    base + "/chat/completions",
		apiKey:      opts.APIKey,
		model:       model,
		temperature: opts.temperature(),
	}, nil
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Close() error { return nil }

// Generate sends role as the system message and prompt as the user message and
// returns the first choice with surrounding whitespace removed.
func (o *OpenAI) Generate(ctx context.Context, prompt, role string) (string, error) {
	var (
		out    openAIResponse
		apiErr openAIErrorResponse
	)
	resp, err := o.client.R().
		SetContext(ctx).
		SetAuthToken(o.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(openAIRequest{
			Model: o.model,
			Messages: []openAIMessage{
				{Role: "system", Content: role},
				{Role: "user", Content: prompt},
			},
			Temperature: o.temperature,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(o.endpoint)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = snippet(resp.Body())
		}
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai response has no content")
	}
	return text, nil
}

func snippet(body []byte) string {
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
