package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/lumina/internal/models"
)

// AssetService defines the operations required by AssetHandler.
type AssetService interface {
	Store(ctx context.Context, contentType string, data []byte) (*models.Asset, error)
	Get(ctx context.Context, id string) (*models.Asset, error)
}

// AssetHandler accepts image uploads and serves them back.
type AssetHandler struct {
	AssetService AssetService
	// PublicURL prefixes returned asset URLs.
	PublicURL string
	// MaxBytes caps the upload body size.
	MaxBytes int64
	Logger   *zap.Logger
}

// Upload handles PUT on the base path. The body is the raw image and
// Content-Type its mime type. It responds with {"url": "..."}.
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		return
	}

	body := r.Body
	if h.MaxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "asset too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty body", http.StatusBadRequest)
		return
	}

	asset, err := h.AssetService.Store(r.Context(), mediaType, data)
	if err != nil {
		h.logger().Error("asset store failed", zap.Error(err))
		http.Error(w, "failed to store asset", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": strings.TrimRight(h.PublicURL, "/") + "/assets/" + asset.ID,
	})
}

// Serve handles GET /assets/{id}.
func (h *AssetHandler) Serve(w http.ResponseWriter, r *http.Request) {
	asset, err := h.AssetService.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger().Error("asset fetch failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(asset.Data)
}

func (h *AssetHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
