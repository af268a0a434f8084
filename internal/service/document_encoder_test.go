package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestEncodeProducesBase64Payload(t *testing.T) {
	encoder := NewDocumentEncoder()
	content := []byte("%PDF-1.7 conteudo do documento")

	doc, err := encoder.Encode(bytes.NewReader(content), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, base64.StdEncoding.EncodeToString(content), doc.Payload)
	assert.Equal(t, "application/pdf", doc.MimeType)

	decoded, err := base64.StdEncoding.DecodeString(doc.Payload)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestEncodeReadFailure(t *testing.T) {
	encoder := NewDocumentEncoder()

	doc, err := encoder.Encode(failingReader{}, "image/png")
	require.Error(t, err)

	var encodingErr *EncodingError
	require.ErrorAs(t, err, &encodingErr)
	assert.Empty(t, doc.Payload)
}

func TestDecodeDataURL(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := base64.StdEncoding.EncodeToString(content)

	t.Run("with data URL prefix", func(t *testing.T) {
		decoded, mimeType, err := DecodeDataURL("data:image/png;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)
		assert.Equal(t, "image/png", mimeType)
	})

	t.Run("bare base64", func(t *testing.T) {
		decoded, mimeType, err := DecodeDataURL(encoded)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)
		assert.Empty(t, mimeType)
	})

	t.Run("malformed data URL", func(t *testing.T) {
		_, _, err := DecodeDataURL("data:image/png;base64")
		require.Error(t, err)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, _, err := DecodeDataURL("not base64!!!")
		require.Error(t, err)
	})
}
