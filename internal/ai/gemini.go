package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini generates completions through the Gemini generative-language
// API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini fails fast when the API key is absent; that is a
// configuration error, not a per-query one.
func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, logger: logger}, nil
}

func (g *Gemini) GenerateInsights(ctx context.Context, query string, queryContext QueryContext) (string, error) {
	prompt, err := BuildPrompt(query, queryContext)
	if err != nil {
		return "", err
	}

	g.logger.Debug("invoking gemini", "model", g.model, "prompt_len", len(prompt))

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("empty response from gemini")
	}

	g.logger.Debug("gemini response", "model", g.model, "response_len", len(text))
	return text, nil
}
