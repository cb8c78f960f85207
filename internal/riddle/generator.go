package riddle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var errBadGeneration = errors.New("riddle: generator returned unusable payload")

// ChatGenerator asks an OpenAI-compatible chat-completions endpoint for
// a riddle. The endpoint is fully untrusted: no availability, latency,
// or JSON-validity guarantees, so every anomaly becomes an error for the
// provider's fallback branch. One round trip, no retries.
type ChatGenerator struct {
	client *openai.Client
	model  string
}

// NewChatGenerator builds a generator for the given endpoint. baseURL
// may point at any OpenAI-compatible router.
func NewChatGenerator(baseURL, apiKey, model string) *ChatGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ChatGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (Riddle, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.8,
		TopP:        0.9,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return Riddle{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Riddle{}, errBadGeneration
	}
	return ParseGenerated(resp.Choices[0].Message.Content)
}

// ParseGenerated extracts a riddle/answer pair from model output. The
// model is told to emit bare JSON but often wraps it in code fences or
// prose, so the first {...} object in the text is what gets parsed.
func ParseGenerated(content string) (Riddle, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Riddle{}, errBadGeneration
	}

	var r Riddle
	if err := json.Unmarshal([]byte(content[start:end+1]), &r); err != nil {
		return Riddle{}, fmt.Errorf("parsing generated riddle: %w", err)
	}
	r.Text = strings.TrimSpace(r.Text)
	r.Answer = strings.TrimSpace(r.Answer)
	if r.Text == "" || r.Answer == "" {
		return Riddle{}, errBadGeneration
	}
	return r, nil
}
