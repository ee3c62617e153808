// Package summary is glue around the core pipeline: it asks an LLM for a
// short digest of the rendered document. The document itself stays
// byte-stable; the digest only ever lands in the journal file.
package summary

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

const systemPrompt = "You summarize one day of Slack activity. " +
	"Produce a few short bullet points covering decisions, open questions, " +
	"and anything that needs follow-up. Do not invent content."

// Config holds the summarizer's API settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Summarizer produces a digest of a rendered recap document.
type Summarizer struct {
	client openai.Client
	model  string
}

// New creates a Summarizer.
func New(cfg Config) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("an OpenAI API key is required for summarization")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Summarizer{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Summarize returns a short digest of the document.
func (s *Summarizer) Summarize(ctx context.Context, document string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(document),
		},
		MaxCompletionTokens: openai.Int(1024),
	})
	if err != nil {
		return "", errors.Wrap(err, "summarization request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summarization returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
