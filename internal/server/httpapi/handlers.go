// Package httpapi exposes the auth and file services over HTTP with JSON
// bodies. Errors are rendered as {"error":"<reason>"}.
package httpapi

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/zeebo/blake3"
)

// AuthAPI is the part of services.AuthService the handlers use.
type AuthAPI interface {
	Connect(ctx context.Context, header string) (string, error)
	Disconnect(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (string, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

// FileAPI is the part of services.FileService the handlers use.
type FileAPI interface {
	Upload(ctx context.Context, userID string, req models.UploadRequest) (*models.File, error)
	Show(ctx context.Context, userID, fileID string) (*models.File, error)
	Index(ctx context.Context, userID, parentID string, page int) ([]*models.File, error)
	Publish(ctx context.Context, userID, fileID string) (*models.File, error)
	Unpublish(ctx context.Context, userID, fileID string) (*models.File, error)
	Content(ctx context.Context, fileID, size, token string) (*services.FileContent, error)
	Stats(ctx context.Context) (*services.Stats, error)
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler serves every route of the API.
type Handler struct {
	auth   AuthAPI
	files  FileAPI
	redis  Pinger
	db     Pinger
	logger logging.Logger
}

func NewHandler(auth AuthAPI, files FileAPI, redis, db Pinger, logger logging.Logger) *Handler {
	return &Handler{auth: auth, files: files, redis: redis, db: db, logger: logger.With("module", "http")}
}

type tokenResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := mapError(err); status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "req_id", RequestIDFromCtx(r.Context()), "error", err)
	}
	writeError(w, err)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errRequestTooLarge
		}
		return common.ErrValidationFailed
	}
	return nil
}

func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Connect(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Disconnect(r.Context(), r.Header.Get(common.TokenHeaderName)); err != nil {
		h.internal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u.View())
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.Me(r.Context(), r.Header.Get(common.TokenHeaderName))
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := h.files.Upload(r.Context(), userIDFromCtx(r.Context()), req)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.View())
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	f, err := h.files.Show(r.Context(), userIDFromCtx(r.Context()), r.PathValue("id"))
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.View())
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 0
	}

	list, err := h.files.Index(r.Context(), userIDFromCtx(r.Context()), q.Get("parentId"), page)
	if err != nil {
		h.internal(w, r, err)
		return
	}

	views := make([]models.FileView, 0, len(list))
	for _, f := range list {
		views = append(views, f.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, h.files.Publish)
}

func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, h.files.Unpublish)
}

func (h *Handler) setPublic(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, userID, fileID string) (*models.File, error)) {
	f, err := fn(r.Context(), userIDFromCtx(r.Context()), r.PathValue("id"))
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f.View())
}

// Data serves raw content. The token is optional; public files are
// readable by anyone.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	fc, err := h.files.Content(r.Context(), r.PathValue("id"), r.URL.Query().Get("size"), r.Header.Get(common.TokenHeaderName))
	if err != nil {
		h.internal(w, r, err)
		return
	}

	sum := blake3.Sum256(fc.Data)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", fc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(fc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fc.Data)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, statusResponse{
		Redis: h.redis != nil && h.redis.Ping(ctx) == nil,
		DB:    h.db != nil && h.db.Ping(ctx) == nil,
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.files.Stats(r.Context())
	if err != nil {
		h.internal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
