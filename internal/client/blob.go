package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/competa-arena/contest-service/internal/config"
)

// BlobUploader stores a binary payload under a destination folder and
// returns a durable URL for it.
type BlobUploader interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (string, error)
}

// BlobClient uploads files to the remote blob storage service as
// multipart form posts. Calls are bounded by the configured upstream
// timeout and never retried.
type BlobClient struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewBlobClient creates a BlobClient from configuration.
func NewBlobClient(cfg *config.Config, log zerolog.Logger) *BlobClient {
	return &BlobClient{
		baseURL: cfg.BlobServiceURL,
		httpc:   &http.Client{Timeout: cfg.UpstreamTimeout},
		log:     log.With().Str("component", "blob_client").Logger(),
	}
}

// Upload posts the payload as a multipart form (folder + file fields)
// and returns the URL assigned by the storage service.
func (c *BlobClient) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("folder", folder); err != nil {
		return "", fmt.Errorf("write folder field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write file payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call blob service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return "", fmt.Errorf("blob service returned status %d", res.StatusCode)
	}

	var uploaded struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.URL == "" {
		return "", fmt.Errorf("blob service returned empty url")
	}

	c.log.Debug().Str("folder", folder).Str("url", uploaded.URL).Msg("File uploaded")
	return uploaded.URL, nil
}
