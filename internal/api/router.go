package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter serves the document chat contract. The trailing slashes on the
// endpoints are part of that contract, so slashes are not stripped.
func NewRouter(apiHandler *APIHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", apiHandler.HealthHandler)

	r.Get("/status/", apiHandler.StatusHandler)
	r.Post("/upload-pdfs/", apiHandler.UploadHandler)
	r.Post("/query/", apiHandler.QueryHandler)

	return r
}
