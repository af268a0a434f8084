package service

import (
	"strings"

	"empenho-ia/internal/models"

	"go.uber.org/zap"
)

// MaxUploadSize is the hard cap for an upload candidate. A file of exactly
// this size still passes.
const MaxUploadSize = 20 * 1024 * 1024

// Preview locations handed to the client along with an accepted candidate.
// Images are streamed back from the session; PDFs get a static placeholder.
const (
	ImagePreviewURL       = "/api/v1/session/preview"
	PDFPlaceholderPreview = "/static/pdf-placeholder.svg"
)

var acceptedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/webp":      {},
}

type UploadValidator struct {
	logger *zap.Logger
}

func NewUploadValidator(logger *zap.Logger) *UploadValidator {
	return &UploadValidator{
		logger: logger,
	}
}

// Validate gates a candidate on declared size and declared MIME type, in
// that order. The declared type is trusted as-is; file bytes are never
// inspected.
func (v *UploadValidator) Validate(content []byte, declaredSize int64, declaredMimeType string) (*models.UploadCandidate, error) {
	if declaredSize > MaxUploadSize {
		v.logger.Warn("Upload rejected",
			zap.String("reason", ReasonTooLarge),
			zap.Int64("size", declaredSize),
		)
		return nil, &ValidationError{Reason: ReasonTooLarge, Message: MsgFileTooLarge}
	}

	if _, ok := acceptedMimeTypes[declaredMimeType]; !ok {
		v.logger.Warn("Upload rejected",
			zap.String("reason", ReasonInvalidType),
			zap.String("mime_type", declaredMimeType),
		)
		return nil, &ValidationError{Reason: ReasonInvalidType, Message: MsgInvalidFileType}
	}

	candidate := &models.UploadCandidate{
		Content:  content,
		MimeType: declaredMimeType,
		Size:     declaredSize,
	}
	if strings.HasPrefix(declaredMimeType, "image/") {
		candidate.PreviewURL = ImagePreviewURL
	} else {
		candidate.PreviewURL = PDFPlaceholderPreview
	}

	return candidate, nil
}
