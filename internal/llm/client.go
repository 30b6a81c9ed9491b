// Package llm wraps the Anthropic Messages API behind a narrow interface so
// pipeline code can be tested with fakes and never touches SDK types.
package llm

import (
	"context"
	"errors"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Image is one attachment forwarded to the model, already base64-encoded.
type Image struct {
	Filename  string
	MediaType string
	Data      string
}

// Caller is a single request/response against a language model. There is no
// retry or backoff inside; a failed call surfaces to the caller.
type Caller interface {
	GenerateJSON(ctx context.Context, system, prompt string, images []Image) (string, error)
}

type AnthropicCaller struct {
	messages AnthropicMessager
	model    anthropic.Model
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// NewAnthropicCallerFromEnv builds a caller keyed by ANTHROPIC_API_KEY,
// with ANTHROPIC_MODEL optionally overriding the default model.
func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	model := anthropic.ModelClaudeSonnet4_20250514
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_MODEL")); v != "" {
		model = anthropic.Model(v)
	}
	return &AnthropicCaller{messages: newAnthropicClient(apiKey), model: model}, nil
}

func (a *AnthropicCaller) GenerateJSON(ctx context.Context, system, prompt string, images []Image) (string, error) {
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)}
	for _, img := range images {
		if img.Filename != "" {
			blocks = append(blocks, anthropic.NewTextBlock("Image filename: "+img.Filename))
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MediaType, img.Data))
	}

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   4096,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// StripCodeFences removes a markdown code fence an LLM sometimes wraps its
// JSON in.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
