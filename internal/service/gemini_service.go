package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"empenho-ia/internal/models"
	"empenho-ia/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiService talks to the Google Gemini API. The document travels as
// inline data alongside the instruction prompt in a single user turn.
type GeminiService struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, temperature float64, logger *zap.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Info("Using Gemini model", zap.String("model", cfg.Model))

	return &GeminiService{
		client:      client,
		model:       cfg.Model,
		temperature: float32(temperature),
		logger:      logger,
	}, nil
}

func (s *GeminiService) GenerateDescription(ctx context.Context, prompt string, doc models.EncodedDocument) (string, error) {
	data, err := base64.StdEncoding.DecodeString(doc.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode document payload: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{
					MIMEType: doc.MimeType,
					Data:     data,
				}},
			},
		},
	}

	temperature := s.temperature
	generateCfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	res, err := s.client.Models.GenerateContent(ctx, s.model, contents, generateCfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return res.Text(), nil
}

func (s *GeminiService) Close() error {
	return nil
}
