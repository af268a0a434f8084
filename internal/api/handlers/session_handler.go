package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"empenho-ia/internal/dto"
	"empenho-ia/internal/models"
	"empenho-ia/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessionService *service.SessionService
	logger         *zap.Logger
}

func NewSessionHandler(sessionService *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// Upload godoc
// @Summary Attach a document to the session
// @Description Upload a PDF or image (multipart field "file", or a JSON body with a base64 payload) to become the session's candidate document
// @Tags session
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param file formData file false "Document file (PDF, PNG, JPEG or WEBP)"
// @Param document body dto.UploadRequest false "Base64-encoded document, alternative to multipart"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.SessionResponse
// @Failure 409 {object} map[string]string
// @Router /api/v1/session/upload [post]
func (h *SessionHandler) Upload(c *fiber.Ctx) error {
	content, size, mimeType, fileName, err := h.readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Envie o arquivo no campo 'file' ou um corpo JSON com o documento.",
		})
	}

	snap, err := h.sessionService.AcceptUpload(content, size, mimeType, fileName)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			// Rejection details travel in the snapshot's error field
			return c.Status(fiber.StatusBadRequest).JSON(toSessionResponse(snap))
		}
		if errors.Is(err, service.ErrGenerationInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Há um processamento em andamento. Aguarde a conclusão.",
			})
		}
		h.logger.Error("Failed to accept upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": service.MsgUnknownError,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(snap))
}

// State godoc
// @Summary Get the current session state
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /api/v1/session [get]
func (h *SessionHandler) State(c *fiber.Ctx) error {
	return c.JSON(toSessionResponse(h.sessionService.Snapshot()))
}

// Generate godoc
// @Summary Generate the empenho description
// @Description Run one blocking generation attempt over the attached document
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} map[string]string
// @Failure 500 {object} dto.SessionResponse
// @Router /api/v1/session/generate [post]
func (h *SessionHandler) Generate(c *fiber.Ctx) error {
	snap, err := h.sessionService.StartGeneration(c.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGenerationInFlight):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Há um processamento em andamento. Aguarde a conclusão.",
			})
		case errors.Is(err, service.ErrNoCandidate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Nenhum documento anexado. Envie um arquivo antes de gerar a descrição.",
			})
		default:
			// The session is in the error state; the snapshot carries the
			// user-facing message
			return c.Status(fiber.StatusInternalServerError).JSON(toSessionResponse(snap))
		}
	}

	return c.JSON(toSessionResponse(snap))
}

// EditResult godoc
// @Summary Edit the generated description
// @Description Replace the result text; live edits keep the upper-case rule
// @Tags session
// @Accept json
// @Produce json
// @Param body body dto.EditResultRequest true "New description text"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/session/result [put]
func (h *SessionHandler) EditResult(c *fiber.Ctx) error {
	var req dto.EditResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido.",
		})
	}

	snap, err := h.sessionService.EditResult(req.Text)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Nenhuma descrição disponível.",
		})
	}

	return c.JSON(toSessionResponse(snap))
}

// CopyResult godoc
// @Summary Get the description as plain text
// @Description Returns the current result verbatim, for clipboard use
// @Tags session
// @Produce plain
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /api/v1/session/result [get]
func (h *SessionHandler) CopyResult(c *fiber.Ctx) error {
	text, err := h.sessionService.Result()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Nenhuma descrição disponível.",
		})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(text)
}

// DownloadResult godoc
// @Summary Download the description as a text file
// @Tags session
// @Produce plain
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /api/v1/session/result/download [get]
func (h *SessionHandler) DownloadResult(c *fiber.Ctx) error {
	text, fileName, err := h.sessionService.DownloadArtifact()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Nenhuma descrição disponível.",
		})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.SendString(text)
}

// Preview godoc
// @Summary Stream the attached document for preview
// @Tags session
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /api/v1/session/preview [get]
func (h *SessionHandler) Preview(c *fiber.Ctx) error {
	content, mimeType, err := h.sessionService.CandidatePreview()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Nenhum documento anexado.",
		})
	}

	c.Set(fiber.HeaderContentType, mimeType)
	return c.Send(content)
}

// Reset godoc
// @Summary Reset the session
// @Description Discard the candidate, result and error; a running generation is orphaned
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /api/v1/session/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	return c.JSON(toSessionResponse(h.sessionService.Reset()))
}

// readUpload extracts the document from either a multipart form or a JSON
// body with a base64 payload.
func (h *SessionHandler) readUpload(c *fiber.Ctx) ([]byte, int64, string, string, error) {
	file, err := c.FormFile("file")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, 0, "", "", err
		}
		defer src.Close()

		content, err := io.ReadAll(src)
		if err != nil {
			return nil, 0, "", "", err
		}

		mimeType := file.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = mime.TypeByExtension(filepath.Ext(file.Filename))
		}

		return content, file.Size, mimeType, file.Filename, nil
	}

	var req dto.UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, 0, "", "", err
	}

	content, embeddedMime, err := service.DecodeDataURL(req.Data)
	if err != nil {
		return nil, 0, "", "", err
	}

	mimeType := req.MimeType
	if embeddedMime != "" {
		mimeType = embeddedMime
	}

	return content, int64(len(content)), mimeType, req.FileName, nil
}

func toSessionResponse(snap models.SessionSnapshot) dto.SessionResponse {
	resp := dto.SessionResponse{
		State:    string(snap.State),
		Result:   snap.Result,
		Error:    snap.ErrorMessage,
		EditMode: snap.EditMode,
	}
	if snap.Candidate != nil {
		resp.Candidate = &dto.CandidateResponse{
			FileName:   snap.Candidate.FileName,
			MimeType:   snap.Candidate.MimeType,
			Size:       snap.Candidate.Size,
			PreviewURL: snap.Candidate.PreviewURL,
		}
	}
	return resp
}
