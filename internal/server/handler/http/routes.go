package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/lumina/internal/middleware"
)

// NewRouter constructs the edge service handler.
//
// Routes:
//
//	GET  /?action=auth-check    → authHandler.Check
//	POST /?action=auth-setup    → authHandler.Setup   (JSON only)
//	POST /?action=auth-verify   → authHandler.Verify  (JSON only)
//	PUT  /                      → assetHandler.Upload (X-Secret-Key required)
//	GET  /assets/{id}           → assetHandler.Serve
func NewRouter(
	authHandler *AuthHandler,
	assetHandler *AssetHandler,
	secretKey string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/", authHandler.Dispatch)
	r.With(chiMiddleware.AllowContentType("application/json")).Post("/", authHandler.Dispatch)
	r.With(middleware.RequireSecretKey(secretKey)).Put("/", assetHandler.Upload)
	r.Get("/assets/{id}", assetHandler.Serve)

	return r
}
