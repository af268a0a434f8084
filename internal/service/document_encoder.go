package service

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"empenho-ia/internal/models"
)

type DocumentEncoder struct{}

func NewDocumentEncoder() *DocumentEncoder {
	return &DocumentEncoder{}
}

// Encode reads the candidate's full content and produces the transport
// form sent to the model: a base64 payload paired with the declared MIME
// type.
func (e *DocumentEncoder) Encode(r io.Reader, mimeType string) (models.EncodedDocument, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return models.EncodedDocument{}, NewEncodingError(err)
	}

	return models.EncodedDocument{
		Payload:  base64.StdEncoding.EncodeToString(content),
		MimeType: mimeType,
	}, nil
}

// DecodeDataURL accepts a base64 payload as produced by browser file
// readers. A data URL scheme prefix is stripped when present, and the MIME
// type embedded in it is returned (empty when the payload carries none).
func DecodeDataURL(payload string) ([]byte, string, error) {
	var mimeType string
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		header := payload[len("data:"):comma]
		mimeType = strings.TrimSuffix(header, ";base64")
		payload = payload[comma+1:]
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return content, mimeType, nil
}
