package models

type SessionState string

const (
	SessionStateIdle       SessionState = "idle"
	SessionStateProcessing SessionState = "processing"
	SessionStateSuccess    SessionState = "success"
	SessionStateError      SessionState = "error"
)

// UploadCandidate is an accepted document held in memory for the lifetime
// of the session. It is immutable after acceptance.
type UploadCandidate struct {
	Content    []byte
	FileName   string
	MimeType   string
	Size       int64
	PreviewURL string
}

// EncodedDocument is the transport form of a candidate: base64 payload
// plus the declared MIME type. Built fresh for every generation attempt.
type EncodedDocument struct {
	Payload  string
	MimeType string
}

// CandidateInfo describes the current candidate without exposing its bytes.
type CandidateInfo struct {
	FileName   string
	MimeType   string
	Size       int64
	PreviewURL string
}

// SessionSnapshot is a point-in-time copy of the session handed to the
// transport layer.
type SessionSnapshot struct {
	State        SessionState
	Candidate    *CandidateInfo
	Result       string
	ErrorMessage string
	EditMode     bool
}
