package service

import (
	"context"
	"testing"
	"time"

	"empenho-ia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModel struct {
	text      string
	err       error
	calls     int
	gotPrompt string
	gotDoc    models.EncodedDocument
	closed    bool
}

func (m *stubModel) GenerateDescription(_ context.Context, prompt string, doc models.EncodedDocument) (string, error) {
	m.calls++
	m.gotPrompt = prompt
	m.gotDoc = doc
	return m.text, m.err
}

func (m *stubModel) Close() error {
	m.closed = true
	return nil
}

func TestGenerateDescriptionPassesPromptAndDocument(t *testing.T) {
	model := &stubModel{text: "PELA DESPESA EMPENHADA REFERENTE A TESTE"}
	svc := NewLLMService(model, time.Second, zap.NewNop())

	doc := models.EncodedDocument{Payload: "YWJj", MimeType: "application/pdf"}
	text, err := svc.GenerateDescription(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "PELA DESPESA EMPENHADA REFERENTE A TESTE", text)
	assert.Equal(t, doc, model.gotDoc)
	assert.Contains(t, model.gotPrompt, "PELA DESPESA EMPENHADA REFERENTE A")
	assert.Contains(t, model.gotPrompt, "LETRAS MAIÚSCULAS")
}

func TestGenerateDescriptionMapsFailures(t *testing.T) {
	model := &stubModel{err: assert.AnError}
	svc := NewLLMService(model, time.Second, zap.NewNop())

	text, err := svc.GenerateDescription(context.Background(), models.EncodedDocument{})
	require.Error(t, err)
	assert.Empty(t, text)

	var generationErr *GenerationError
	require.ErrorAs(t, err, &generationErr)
	assert.Equal(t, MsgGenerationFailed, generationErr.Message)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGenerateDescriptionTrimsResponse(t *testing.T) {
	model := &stubModel{text: "  texto com espaços  \n"}
	svc := NewLLMService(model, time.Second, zap.NewNop())

	text, err := svc.GenerateDescription(context.Background(), models.EncodedDocument{})
	require.NoError(t, err)
	assert.Equal(t, "texto com espaços", text)
}

func TestGenerateDescriptionEmptyResponse(t *testing.T) {
	model := &stubModel{text: ""}
	svc := NewLLMService(model, time.Second, zap.NewNop())

	text, err := svc.GenerateDescription(context.Background(), models.EncodedDocument{})
	require.NoError(t, err, "an empty model response is not an error")
	assert.Empty(t, text)
}

func TestCloseForwardsToModel(t *testing.T) {
	model := &stubModel{}
	svc := NewLLMService(model, time.Second, zap.NewNop())

	require.NoError(t, svc.Close())
	assert.True(t, model.closed)
}
