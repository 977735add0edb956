package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileView_ParentRendering(t *testing.T) {
	root := &File{ID: "f1", UserID: "u1", Name: "a.txt", Type: FileTypeFile, ParentID: RootParentID, LocalPath: "/tmp/x"}
	b, err := json.Marshal(root.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f1","userId":"u1","name":"a.txt","type":"file","isPublic":false,"parentId":0}`, string(b))
	assert.NotContains(t, string(b), "/tmp/x")

	child := &File{ID: "f2", UserID: "u1", Name: "img", Type: FileTypeImage, ParentID: "p1", IsPublic: true}
	b, err = json.Marshal(child.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f2","userId":"u1","name":"img","type":"image","isPublic":true,"parentId":"p1"}`, string(b))
}

func TestParentRef_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want ParentRef
	}{
		{`{"parentId":0}`, "0"},
		{`{"parentId":"0"}`, "0"},
		{`{"parentId":"abc"}`, "abc"},
		{`{}`, ""},
		{`{"parentId":false}`, "0"},
	}
	for _, tt := range tests {
		var req UploadRequest
		require.NoError(t, json.Unmarshal([]byte(tt.in), &req), tt.in)
		assert.Equal(t, tt.want, req.ParentID, tt.in)
		assert.True(t, tt.want == "abc" || IsRootParent(string(req.ParentID)), tt.in)
	}

	var req UploadRequest
	require.Error(t, json.Unmarshal([]byte(`{"parentId":true}`), &req))
	require.Error(t, json.Unmarshal([]byte(`{"parentId":[]}`), &req))
}

func TestFileType_Valid(t *testing.T) {
	assert.True(t, FileTypeFolder.Valid())
	assert.True(t, FileTypeFile.Valid())
	assert.True(t, FileTypeImage.Valid())
	assert.False(t, FileType("video").Valid())
	assert.False(t, FileType("").Valid())
}
