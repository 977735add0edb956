// Package models defines server-side data models persisted in the database
// and the projections sent over the wire.
package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// FileType is the kind of a node in the file hierarchy.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the three known kinds.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// RootParentID is the parent id of top-level nodes.
const RootParentID = "0"

// File is a node of a user's hierarchy. Folders never carry a LocalPath;
// files and images always do.
type File struct {
	ID        string
	UserID    string
	Name      string
	Type      FileType
	ParentID  string
	IsPublic  bool
	LocalPath string
	CreatedAt time.Time
}

// IsRootParent reports whether id designates the hierarchy root. Absent,
// empty and "0" are all treated as root.
func IsRootParent(id string) bool {
	return id == "" || id == RootParentID
}

// ParentRef is a parent id on the wire: the root is the number 0, anything
// else a string.
type ParentRef string

func (p ParentRef) MarshalJSON() ([]byte, error) {
	if IsRootParent(string(p)) {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentRef) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*p = RootParentID
	case string:
		*p = ParentRef(value)
	case float64:
		*p = ParentRef(strconv.FormatInt(int64(value), 10))
	case bool:
		if value {
			return errors.New("invalid parent id")
		}
		*p = RootParentID
	default:
		return errors.New("invalid parent id")
	}
	return nil
}

// FileView is the public projection of a File. The stored path and the
// payload are never part of it.
type FileView struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Type     FileType  `json:"type"`
	IsPublic bool      `json:"isPublic"`
	ParentID ParentRef `json:"parentId"`
}

func (f *File) View() FileView {
	return FileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: ParentRef(f.ParentID),
	}
}

// UploadRequest is the body of a file creation. Data is base64 and is
// required for everything but folders.
type UploadRequest struct {
	Name     string    `json:"name"`
	Type     FileType  `json:"type"`
	ParentID ParentRef `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	Data     string    `json:"data"`
}
