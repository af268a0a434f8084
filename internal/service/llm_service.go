package service

import (
	"context"
	"strings"
	"time"

	"empenho-ia/internal/models"

	"go.uber.org/zap"
)

// DescriptionModel is the boundary to a remote generative model. A
// provider receives the fixed instruction prompt plus the encoded document
// and returns the raw model text, which may be empty.
type DescriptionModel interface {
	GenerateDescription(ctx context.Context, prompt string, doc models.EncodedDocument) (string, error)
	Close() error
}

// buildDescriptionPrompt creates the instruction sent with every document.
func buildDescriptionPrompt() string {
	return `Você é um assistente especializado em contabilidade pública brasileira.

Analise o documento anexado (nota fiscal, contrato, ordem de serviço, requisição ou documento equivalente) e gere a descrição da despesa para uma Nota de Empenho.

REGRAS OBRIGATÓRIAS:
1. Responda APENAS com o texto da descrição, sem comentários, explicações ou formatação markdown.
2. Escreva em LETRAS MAIÚSCULAS.
3. O texto deve começar exatamente com: PELA DESPESA EMPENHADA REFERENTE A
4. Descreva o objeto da despesa de forma concisa, porém completa.
5. Inclua números de processo, licitação, contrato ou nota fiscal quando visíveis no documento.
6. Não invente informações que não estejam no documento.`
}

// LLMService runs the single blocking model call of a generation attempt.
type LLMService struct {
	model       DescriptionModel
	prompt      string
	callTimeout time.Duration
	logger      *zap.Logger
}

func NewLLMService(model DescriptionModel, callTimeout time.Duration, logger *zap.Logger) *LLMService {
	return &LLMService{
		model:       model,
		prompt:      buildDescriptionPrompt(),
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// GenerateDescription sends the encoded document to the model and returns
// the raw response text. Transport and model failures come back as a
// GenerationError carrying the fixed user-facing message; the cause is
// only logged.
func (s *LLMService) GenerateDescription(ctx context.Context, doc models.EncodedDocument) (string, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.model.GenerateDescription(ctx, s.prompt, doc)
	if err != nil {
		s.logger.Error("Description generation failed",
			zap.String("mime_type", doc.MimeType),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return "", NewGenerationError(err)
	}

	raw = strings.TrimSpace(raw)
	s.logger.Info("Description generated",
		zap.String("mime_type", doc.MimeType),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("text_length", len(raw)),
	)

	return raw, nil
}

func (s *LLMService) Close() error {
	return s.model.Close()
}
