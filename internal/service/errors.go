package service

import "errors"

// User-facing messages, in Brazilian Portuguese. These exact strings are
// part of the product contract; do not reword them.
const (
	MsgFileTooLarge     = "O arquivo é muito grande. O tamanho máximo permitido é 20MB."
	MsgInvalidFileType  = "Tipo de arquivo inválido. Envie um PDF ou uma imagem (PNG, JPEG ou WEBP)."
	MsgGenerationFailed = "Falha ao processar o documento. Verifique se o arquivo é válido e tente novamente."
	MsgUnknownError     = "Ocorreu um erro inesperado. Tente novamente."
)

// Rejection reasons attached to validation errors.
const (
	ReasonTooLarge    = "too large"
	ReasonInvalidType = "invalid type"
)

var (
	ErrGenerationInFlight = errors.New("generation already in progress")
	ErrNoCandidate        = errors.New("no accepted document")
	ErrNoResult           = errors.New("no result available")
)

// ValidationError rejects an upload candidate before any processing
// happens. It is recoverable: the session keeps its state and the user may
// retry with a corrected file.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// EncodingError reports a failed read while preparing the candidate for
// transport. It aborts the generation attempt.
type EncodingError struct {
	err error
}

func NewEncodingError(err error) error {
	return &EncodingError{err: err}
}

func (e *EncodingError) Error() string {
	return "document encoding failed: " + e.err.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.err
}

// GenerationError reports a failed model call. Message carries the fixed
// user-facing text; the underlying cause stays in the logs.
type GenerationError struct {
	Message string
	err     error
}

func NewGenerationError(err error) error {
	return &GenerationError{Message: MsgGenerationFailed, err: err}
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.err
}

// UserMessage translates an attempt error into the text shown to the user.
// Typed errors carry their own message; anything unexpected falls back to
// the generic one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var generationErr *GenerationError
	if errors.As(err, &generationErr) {
		return generationErr.Message
	}

	var encodingErr *EncodingError
	if errors.As(err, &encodingErr) {
		return MsgGenerationFailed
	}

	return MsgUnknownError
}
