package dto

type UploadRequest struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64 payload, with or without a data URL prefix
}

type EditResultRequest struct {
	Text string `json:"text"`
}

type CandidateResponse struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	PreviewURL string `json:"preview_url"`
}

type SessionResponse struct {
	State     string             `json:"state"`
	Candidate *CandidateResponse `json:"candidate,omitempty"`
	Result    string             `json:"result"`
	Error     string             `json:"error,omitempty"`
	EditMode  bool               `json:"edit_mode"`
}
