package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"mime"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/content"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// enqueueTimeout bounds a background thumbnail dispatch.
const enqueueTimeout = 10 * time.Second

// TokenResolver maps a session token to a user id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// FileContent is the payload served for a file or one of its variants.
type FileContent struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileServiceOptions tunes listing and publishing.
type FileServiceOptions struct {
	PageSize                int
	EnforcePublishOwnership bool
}

// FileService manages the file hierarchy of every user.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       content.Store
	queue       thumbnails.Queue
	resolver    TokenResolver
	opts        FileServiceOptions
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store content.Store, queue thumbnails.Queue,
	resolver TokenResolver, opts FileServiceOptions, logger logging.Logger) *FileService {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		queue:       queue,
		resolver:    resolver,
		opts:        opts,
		logger:      logger.With("module", "files"),
	}
}

// lookup loads a file by id. Ids that cannot be uuids are reported as
// unknown without reaching the database.
func (s *FileService) lookup(ctx context.Context, id string) (*models.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}

	f, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "file lookup failed", "file_id", id, "error", err)
		return nil, common.ErrorInternal
	}
	return f, nil
}

func (s *FileService) checkParent(ctx context.Context, parentID string) error {
	if models.IsRootParent(parentID) {
		return nil
	}

	parent, err := s.lookup(ctx, parentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrParentNotFound
		}
		return err
	}
	if parent.Type != models.FileTypeFolder {
		return common.ErrParentNotAFolder
	}
	return nil
}

// Upload validates req, stores its content and records the new node. The
// checks run in the order name, type, data, parent and stop at the first
// failure. Images are queued for thumbnails once the record exists.
func (s *FileService) Upload(ctx context.Context, userID string, req models.UploadRequest) (*models.File, error) {

	if req.Name == "" {
		return nil, common.ErrMissingName
	}
	if !req.Type.Valid() {
		return nil, common.ErrMissingType
	}
	var data []byte
	if req.Type != models.FileTypeFolder {
		var err error
		data, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil || len(data) == 0 {
			return nil, common.ErrMissingData
		}
	}

	parentID := string(req.ParentID)
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}
	if models.IsRootParent(parentID) {
		parentID = models.RootParentID
	}

	file := &models.File{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentID,
		IsPublic: req.IsPublic,
	}

	if req.Type != models.FileTypeFolder {
		path, err := s.store.Write(ctx, uuid.New().String(), data, req.Type)
		if err != nil {
			s.logger.Error(ctx, "content write failed", "error", err)
			return nil, common.ErrorInternal
		}
		file.LocalPath = path
	}

	if err := s.repomanager.Files(s.db).Create(ctx, file); err != nil {
		s.logger.Error(ctx, "file insert failed", "error", err)
		if file.LocalPath != "" {
			if err := s.store.Delete(context.WithoutCancel(ctx), file.LocalPath); err != nil {
				s.logger.Warn(ctx, "orphan content left behind", "path", file.LocalPath, "error", err)
			}
		}
		return nil, common.ErrorInternal
	}

	if file.Type == models.FileTypeImage {
		s.enqueueThumbnails(ctx, thumbnails.Job{FileID: file.ID, UserID: userID})
	}

	s.logger.Debug(ctx, "file stored", "file_id", file.ID, "type", file.Type)
	return file, nil
}

// enqueueThumbnails dispatches job in the background. The dispatch outlives
// the request; a failure is only logged.
func (s *FileService) enqueueThumbnails(ctx context.Context, job thumbnails.Job) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
		defer cancel()
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.logger.Warn(ctx, "thumbnail job not queued", "file_id", job.FileID, "error", err)
		}
	}()
}

// Show returns any file by id. Ownership is not checked.
func (s *FileService) Show(ctx context.Context, userID, fileID string) (*models.File, error) {
	return s.lookup(ctx, fileID)
}

// Index lists one page of userID's files under parentID.
func (s *FileService) Index(ctx context.Context, userID, parentID string, page int) ([]*models.File, error) {
	if models.IsRootParent(parentID) {
		parentID = models.RootParentID
	}
	if page < 0 {
		page = 0
	}

	list, err := s.repomanager.Files(s.db).ListByParent(ctx, userID, parentID, page, s.opts.PageSize)
	if err != nil {
		s.logger.Error(ctx, "file listing failed", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Publish makes fileID readable without a token.
func (s *FileService) Publish(ctx context.Context, userID, fileID string) (*models.File, error) {
	return s.setPublic(ctx, userID, fileID, true)
}

// Unpublish restricts fileID to its owner.
func (s *FileService) Unpublish(ctx context.Context, userID, fileID string) (*models.File, error) {
	return s.setPublic(ctx, userID, fileID, false)
}

func (s *FileService) setPublic(ctx context.Context, userID, fileID string, isPublic bool) (*models.File, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return nil, common.ErrNotFound
	}

	ownerID := ""
	if s.opts.EnforcePublishOwnership {
		ownerID = userID
	}

	f, err := s.repomanager.Files(s.db).SetPublic(ctx, fileID, ownerID, isPublic)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "visibility update failed", "file_id", fileID, "error", err)
		return nil, common.ErrorInternal
	}
	return f, nil
}

// Content reads the bytes of fileID, or of its size variant when size is
// set. Private files are served only to their owner; everyone else gets
// common.ErrNotFound.
func (s *FileService) Content(ctx context.Context, fileID, size, token string) (*FileContent, error) {

	f, err := s.lookup(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if !f.IsPublic && !s.isOwner(ctx, f, token) {
		return nil, common.ErrNotFound
	}

	if f.Type == models.FileTypeFolder {
		return nil, common.ErrInvalidOperation
	}

	path := f.LocalPath
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 0 || strconv.Itoa(n) != size {
			return nil, common.ErrNotFound
		}
		path = content.VariantPath(path, n)
	}

	data, err := s.store.Read(ctx, path, f.Type)
	if err != nil {
		if errors.Is(err, content.ErrContentNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "content read failed", "file_id", f.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return &FileContent{Name: f.Name, ContentType: contentType(f.Name, data), Data: data}, nil
}

func (s *FileService) isOwner(ctx context.Context, f *models.File, token string) bool {
	if token == "" {
		return false
	}
	userID, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return false
	}
	return userID == f.UserID
}

// contentType derives the type from the name's extension, falling back to
// sniffing the bytes.
func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}

// Stats are the global counters reported by the stats endpoint.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// Stats counts users and files.
func (s *FileService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).Count(ctx)
	if err != nil {
		s.logger.Error(ctx, "user count failed", "error", err)
		return nil, common.ErrorInternal
	}
	files, err := s.repomanager.Files(s.db).Count(ctx)
	if err != nil {
		s.logger.Error(ctx, "file count failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &Stats{Users: users, Files: files}, nil
}
