package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Generator produces a JSON document for a prompt, shaped by a JSON Schema
// document.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error)
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
	logger      *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, temperature float32, logger *zap.Logger) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("gemini client ready",
		zap.String("model", modelName),
		zap.Float32("temperature", temperature),
	)

	return &geminiService{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
		logger:      logger.Named("gemini"),
	}, nil
}

// GenerateJSON implements Generator. It makes exactly one call.
func (g *geminiService) GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:        &temperature,
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			g.logger.Warn("empty candidate text",
				zap.String("finish_reason", string(resp.Candidates[0].FinishReason)),
			)
		}
		return "", fmt.Errorf("no text content in response")
	}

	g.logger.Debug("gemini response received", zap.Int("characters", len(text)))
	return text, nil
}
