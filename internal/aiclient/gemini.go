// Package aiclient implements the summarizer used by the insight service on
// top of the Gemini API (google.golang.org/genai).
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/services"
	"google.golang.org/genai"
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrNoAPIKey      = errors.New("api key is empty")
)

// contentGenerator is the part of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGenaiClient = genai.NewClient

type GeminiClient struct {
	models contentGenerator
}

// NewGemini builds a client for the Gemini Developer API.
func NewGemini(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c, err := newGenaiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiClient{models: c.Models}, nil
}

// Factory adapts NewGemini to services.SummarizerFactory.
func Factory(ctx context.Context, apiKey string) (services.Summarizer, error) {
	c, err := NewGemini(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (g *GeminiClient) Summarize(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
