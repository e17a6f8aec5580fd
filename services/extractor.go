package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmbeddingExtractor turns raw image bytes into a fixed-length embedding.
// The extraction model runs as an external service; this subsystem only
// consumes its output.
type EmbeddingExtractor interface {
	Extract(ctx context.Context, imageData []byte) ([]float64, error)
}

// HTTPExtractor calls an external embedding service over HTTP
type HTTPExtractor struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPExtractor creates an extractor client for the given base URL
func NewHTTPExtractor(baseURL string) *HTTPExtractor {
	return &HTTPExtractor{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type extractResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Extract posts the image to the embedding service. Rejected inputs come
// back as ErrNoFaceDetected or ErrDecodeFailed; anything else is an
// infrastructure failure.
func (e *HTTPExtractor) Extract(ctx context.Context, imageData []byte) ([]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/embeddings", bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read extractor response: %w", err)
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode extractor response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest {
		switch parsed.Error {
		case "no_face_detected":
			return nil, ErrNoFaceDetected
		case "decode_failed":
			return nil, ErrDecodeFailed
		default:
			return nil, fmt.Errorf("embedding service rejected input: %s", parsed.Error)
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty embedding")
	}

	return parsed.Embedding, nil
}
