package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/filesmanager/internal/filex"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// FilesystemStore writes content as flat files under a root folder and
// returns absolute paths.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates root when missing.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	dir, err := filex.EnsureDir(root)
	if err != nil {
		return nil, err
	}
	return &FilesystemStore{root: dir}, nil
}

func (s *FilesystemStore) Write(_ context.Context, contentID string, data []byte, _ models.FileType) (string, error) {
	if contentID == "" || contentID != filepath.Base(contentID) {
		return "", fmt.Errorf("invalid content id %q", contentID)
	}
	path := filepath.Join(s.root, contentID)
	if err := filex.WriteFile(path, data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FilesystemStore) WriteVariant(_ context.Context, path string, size int, data []byte) error {
	return filex.WriteFile(VariantPath(path, size), data, 0o640)
}

func (s *FilesystemStore) Read(_ context.Context, path string, _ models.FileType) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func (s *FilesystemStore) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Ping checks that the root folder is still a reachable directory.
func (s *FilesystemStore) Ping(context.Context) error {
	fi, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}
	return nil
}
