package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
)

// NewRouter registers the API routes. Upload bodies are capped at
// maxUploadBytes when it is positive.
func NewRouter(h *Handler, maxUploadBytes int64, logger logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", h.Status)
	mux.HandleFunc("GET /stats", h.Stats)

	mux.HandleFunc("GET /connect", h.Connect)
	mux.HandleFunc("GET /disconnect", h.Disconnect)

	mux.HandleFunc("POST /users", limitBody(64<<10, h.Register))
	mux.HandleFunc("GET /users/me", h.Me)

	mux.HandleFunc("POST /files", limitBody(maxUploadBytes, h.requireAuth(h.Upload)))
	mux.HandleFunc("GET /files", h.requireAuth(h.Index))
	mux.HandleFunc("GET /files/{id}", h.requireAuth(h.Show))
	mux.HandleFunc("PUT /files/{id}/publish", h.requireAuth(h.Publish))
	mux.HandleFunc("PUT /files/{id}/unpublish", h.requireAuth(h.Unpublish))
	mux.HandleFunc("GET /files/{id}/data", h.Data)

	return WithRequestID(Logging(logger.With("module", "access"))(mux))
}
