package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// UploadError reports a non-2xx response to an upload.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload failed: status %d: %s", e.StatusCode, e.Body)
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadAsset uploads an image given as a data URL (or bare base64) and
// returns its public URL. When no remote service is configured the input is
// returned unchanged.
func (a *Authority) UploadAsset(ctx context.Context, encoded string) (string, error) {
	if !a.Configured() {
		return encoded, nil
	}
	mime, data, err := DecodeDataURL(encoded)
	if err != nil {
		return "", err
	}
	return a.Upload(ctx, mime, data)
}

// Upload PUTs raw bytes to the service and returns the stored asset URL.
func (a *Authority) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	if !a.Configured() {
		return "", errors.New("remote service not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.baseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set(SecretKeyHeader, a.secretKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}
	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("upload response missing url")
	}
	a.log.Info("asset uploaded", zap.String("url", out.URL), zap.Int("bytes", len(data)))
	return out.URL, nil
}
