package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"empenho-ia/internal/models"
	"empenho-ia/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GigaChat endpoints.
// Documentation: https://developers.sber.ru/docs/ru/gigachat/api/main
const (
	gigaChatOAuthURL   = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	gigaChatAPIBaseURL = "https://gigachat.devices.sberbank.ru/api/v1"
)

// GigaChatService sends documents to the GigaChat API. Attachments are not
// inlined: the document goes through the files endpoint first and the
// completion request references the returned file ID. The SDK client
// validates credentials at startup; completions with attachments use the
// REST API directly because the SDK does not support them.
type GigaChatService struct {
	client      *gigago.Client
	config      *config.GigaChatConfig
	temperature float64
	logger      *zap.Logger
	httpClient  *http.Client
	baseURL     string
	oauthURL    string
	accessToken string
}

func NewGigaChatService(ctx context.Context, cfg *config.GigaChatConfig, temperature float64, logger *zap.Logger) (*GigaChatService, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	accessToken, err := gigaChatAccessToken(ctx, gigaChatOAuthURL, cfg, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &GigaChatService{
		client:      client,
		config:      cfg,
		temperature: temperature,
		logger:      logger,
		httpClient:  httpClient,
		accessToken: accessToken,
		baseURL:     gigaChatAPIBaseURL,
		oauthURL:    gigaChatOAuthURL,
	}, nil
}

// gigaChatAccessToken obtains an access token from the GigaChat OAuth
// endpoint. The API key is expected to be Base64-encoded already.
func gigaChatAccessToken(ctx context.Context, oauthURL string, cfg *config.GigaChatConfig, httpClient *http.Client, logger *zap.Logger) (string, error) {
	// RqUID is required by the GigaChat API
	rqUID := uuid.New().String()

	formData := url.Values{}
	formData.Set("scope", cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, "POST", oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", rqUID)
	req.Header.Set("Authorization", "Basic "+cfg.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
			zap.String("rq_uid", rqUID),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	logger.Info("Access token obtained", zap.Int("expires_in", oauthResp.ExpiresIn))
	return oauthResp.AccessToken, nil
}

func (s *GigaChatService) GenerateDescription(ctx context.Context, prompt string, doc models.EncodedDocument) (string, error) {
	content, err := base64.StdEncoding.DecodeString(doc.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode document payload: %w", err)
	}

	fileID, err := s.uploadDocument(ctx, content, doc.MimeType)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return s.completeWithAttachment(ctx, prompt, fileID)
}

// send posts a request body to the GigaChat API. Access tokens expire
// after about 30 minutes; a 401 response triggers a token refresh and the
// request is retried once with the new token.
func (s *GigaChatService) send(ctx context.Context, path, contentType string, body []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+s.accessToken)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized || attempt > 0 {
			return resp, nil
		}
		resp.Body.Close()

		// Token might have expired, try to refresh it
		s.logger.Info("Access token expired, refreshing")
		token, err := gigaChatAccessToken(ctx, s.oauthURL, s.config, s.httpClient, s.logger)
		if err != nil {
			return nil, fmt.Errorf("request failed with 401, token refresh also failed: %w", err)
		}
		s.accessToken = token
	}
}

// uploadDocument pushes the document to the GigaChat files endpoint and
// returns the file ID used to reference it in completion requests.
// Endpoint: POST /files
func (s *GigaChatService) uploadDocument(ctx context.Context, content []byte, mimeType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// "general" purpose allows the file in generation requests
	if err := writer.WriteField("purpose", "general"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}

	fileName := "documento" + extensionForMimeType(mimeType)
	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {mimeType},
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	resp, err := s.send(ctx, "/files", writer.FormDataContentType(), body.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("file too large (413): %s", string(bodyBytes))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	s.logger.Info("File uploaded to GigaChat", zap.String("file_id", uploadResp.ID))
	return uploadResp.ID, nil
}

// completeWithAttachment requests a completion that references an uploaded
// file. Attachments format per the API docs: [["file_id"]].
// Endpoint: POST /chat/completions
func (s *GigaChatService) completeWithAttachment(ctx context.Context, prompt, fileID string) (string, error) {
	requestBody := map[string]interface{}{
		"model": s.config.Model,
		"messages": []map[string]interface{}{
			{
				"role":        "user",
				"content":     prompt,
				"attachments": [][]string{{fileID}},
			},
		},
		"temperature": s.temperature,
		"stream":      false,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.send(ctx, "/chat/completions", "application/json", jsonData)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var completionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completionResp.Choices) == 0 {
		return "", nil
	}
	return completionResp.Choices[0].Message.Content, nil
}

func (s *GigaChatService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
