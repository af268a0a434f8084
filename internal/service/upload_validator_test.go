package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidateSizeBoundary(t *testing.T) {
	validator := NewUploadValidator(zap.NewNop())

	candidate, err := validator.Validate([]byte("x"), MaxUploadSize, "application/pdf")
	require.NoError(t, err, "a file of exactly 20MB must pass")
	assert.Equal(t, int64(MaxUploadSize), candidate.Size)

	_, err = validator.Validate([]byte("x"), MaxUploadSize+1, "application/pdf")
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ReasonTooLarge, validationErr.Reason)
	assert.Equal(t, MsgFileTooLarge, validationErr.Message)
}

func TestValidateSizeCheckedBeforeType(t *testing.T) {
	validator := NewUploadValidator(zap.NewNop())

	// Oversized file with an invalid type still reports the size problem
	_, err := validator.Validate([]byte("x"), MaxUploadSize+1, "text/plain")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ReasonTooLarge, validationErr.Reason)
}

func TestValidateMimeTypes(t *testing.T) {
	validator := NewUploadValidator(zap.NewNop())

	accepted := []string{
		"application/pdf",
		"image/png",
		"image/jpeg",
		"image/jpg",
		"image/webp",
	}
	for _, mimeType := range accepted {
		_, err := validator.Validate([]byte("x"), 100, mimeType)
		assert.NoError(t, err, "type %s must be accepted", mimeType)
	}

	rejected := []string{
		"image/gif",
		"text/plain",
		"application/zip",
		"",
	}
	for _, mimeType := range rejected {
		_, err := validator.Validate([]byte("x"), 100, mimeType)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "type %q must be rejected", mimeType)
		assert.Equal(t, ReasonInvalidType, validationErr.Reason)
		assert.Equal(t, MsgInvalidFileType, validationErr.Message)
	}
}

func TestValidatePreviewURL(t *testing.T) {
	validator := NewUploadValidator(zap.NewNop())

	image, err := validator.Validate([]byte("x"), 100, "image/png")
	require.NoError(t, err)
	assert.Equal(t, ImagePreviewURL, image.PreviewURL)

	pdf, err := validator.Validate([]byte("x"), 100, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, PDFPlaceholderPreview, pdf.PreviewURL)
}
