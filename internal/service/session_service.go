package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"empenho-ia/internal/models"
	"empenho-ia/pkg/metrics"

	"go.uber.org/zap"
)

// DownloadFileName is the fixed name of the exported description artifact.
const DownloadFileName = "descricao_empenho.txt"

// SessionService owns the single active session and sequences the
// upload -> generate -> edit/export workflow. All state changes go through
// the mutex; the model call itself runs unlocked and its outcome is applied
// only if the session was not reset in the meantime.
type SessionService struct {
	validator *UploadValidator
	encoder   *DocumentEncoder
	llm       *LLMService
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu        sync.Mutex
	state     models.SessionState
	candidate *models.UploadCandidate
	result    string
	errorMsg  string
	editMode  bool
	attempt   uint64
}

func NewSessionService(
	validator *UploadValidator,
	encoder *DocumentEncoder,
	llm *LLMService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		validator: validator,
		encoder:   encoder,
		llm:       llm,
		metrics:   m,
		logger:    logger,
		state:     models.SessionStateIdle,
	}
}

// AcceptUpload validates a candidate and, on acceptance, replaces the
// current one, clearing any previous result or error. On rejection the
// session keeps its state and only the rejection message is attached, so
// the user can retry with a corrected file.
func (s *SessionService) AcceptUpload(content []byte, declaredSize int64, declaredMimeType, fileName string) (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SessionStateProcessing {
		return s.snapshotLocked(), ErrGenerationInFlight
	}

	candidate, err := s.validator.Validate(content, declaredSize, declaredMimeType)
	if err != nil {
		s.errorMsg = UserMessage(err)
		s.metrics.RecordUpload("rejected")
		return s.snapshotLocked(), err
	}
	candidate.FileName = fileName

	s.candidate = candidate
	s.state = models.SessionStateIdle
	s.result = ""
	s.errorMsg = ""
	s.editMode = false
	s.metrics.RecordUpload("accepted")
	s.logger.Info("Upload accepted",
		zap.String("file_name", fileName),
		zap.String("mime_type", declaredMimeType),
		zap.Int64("size", declaredSize),
	)

	return s.snapshotLocked(), nil
}

// StartGeneration runs one full generation attempt: encode, remote call,
// normalize. It blocks until the attempt finishes. A second call while one
// is in flight is rejected, and a reset during the attempt discards the
// outcome.
func (s *SessionService) StartGeneration(ctx context.Context) (models.SessionSnapshot, error) {
	s.mu.Lock()
	if s.state == models.SessionStateProcessing {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrGenerationInFlight
	}
	if s.candidate == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrNoCandidate
	}
	candidate := s.candidate
	s.state = models.SessionStateProcessing
	s.errorMsg = ""
	s.attempt++
	attempt := s.attempt
	s.mu.Unlock()

	started := time.Now()
	text, err := s.runAttempt(ctx, candidate)
	elapsed := time.Since(started)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A reset bumps the attempt counter; an outcome from before the reset
	// must not resurrect the old session.
	if s.attempt != attempt || s.state != models.SessionStateProcessing {
		s.logger.Warn("Discarding stale generation outcome", zap.Uint64("attempt", attempt))
		s.metrics.RecordGeneration("discarded", elapsed)
		return s.snapshotLocked(), nil
	}

	if err != nil {
		s.state = models.SessionStateError
		s.result = ""
		s.editMode = false
		s.errorMsg = UserMessage(err)
		s.metrics.RecordGeneration("error", elapsed)
		return s.snapshotLocked(), err
	}

	s.state = models.SessionStateSuccess
	s.result = text
	s.editMode = true
	s.errorMsg = ""
	s.metrics.RecordGeneration("success", elapsed)

	return s.snapshotLocked(), nil
}

func (s *SessionService) runAttempt(ctx context.Context, candidate *models.UploadCandidate) (string, error) {
	doc, err := s.encoder.Encode(bytes.NewReader(candidate.Content), candidate.MimeType)
	if err != nil {
		return "", err
	}

	raw, err := s.llm.GenerateDescription(ctx, doc)
	if err != nil {
		return "", err
	}

	return NormalizeDescription(raw), nil
}

// EditResult replaces the result text while in success. Live edits only
// re-apply the upper-case rule; the prefix and marker rules run solely on
// model output.
func (s *SessionService) EditResult(text string) (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionStateSuccess {
		return s.snapshotLocked(), ErrNoResult
	}

	s.result = strings.ToUpper(text)
	s.metrics.RecordAction("edit")
	return s.snapshotLocked(), nil
}

// Result returns the current description for the clipboard.
func (s *SessionService) Result() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionStateSuccess {
		return "", ErrNoResult
	}

	s.metrics.RecordAction("copy")
	return s.result, nil
}

// DownloadArtifact returns the current description plus the fixed file name
// for the export attachment.
func (s *SessionService) DownloadArtifact() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionStateSuccess {
		return "", "", ErrNoResult
	}

	s.metrics.RecordAction("download")
	return s.result, DownloadFileName, nil
}

// CandidatePreview exposes the accepted candidate's bytes for the preview
// endpoint.
func (s *SessionService) CandidatePreview() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return nil, "", ErrNoCandidate
	}

	return s.candidate.Content, s.candidate.MimeType, nil
}

// Reset returns the session to a pristine idle from any state. A reset
// during processing orphans the in-flight attempt; its outcome is discarded
// when it completes.
func (s *SessionService) Reset() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt++
	s.state = models.SessionStateIdle
	s.candidate = nil
	s.result = ""
	s.errorMsg = ""
	s.editMode = false
	s.metrics.RecordAction("reset")

	return s.snapshotLocked()
}

// Snapshot returns a copy of the current session state.
func (s *SessionService) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		State:        s.state,
		Result:       s.result,
		ErrorMessage: s.errorMsg,
		EditMode:     s.editMode,
	}
	if s.candidate != nil {
		snap.Candidate = &models.CandidateInfo{
			FileName:   s.candidate.FileName,
			MimeType:   s.candidate.MimeType,
			Size:       s.candidate.Size,
			PreviewURL: s.candidate.PreviewURL,
		}
	}
	return snap
}
