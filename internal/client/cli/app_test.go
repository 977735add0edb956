package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
	"github.com/dmitrijs2005/filesmanager/internal/client/state"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuth struct {
	token      string
	loggedIn   string
	registered string
	password   string
	loginErr   error
}

func (f *fakeAuth) Register(_ context.Context, email string, password []byte) (*models.UserView, error) {
	f.registered = email
	f.password = string(password)
	return &models.UserView{ID: "u-1", Email: email}, nil
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = email
	f.password = string(password)
	f.token = "tok"
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.token = ""
	return nil
}

func (f *fakeAuth) Token(context.Context) (string, error) {
	if f.token == "" {
		return "", state.ErrNoSession
	}
	return f.token, nil
}

type fakeClient struct {
	uploads   []models.UploadRequest
	listArgs  []any
	dataToken string
	dataSize  string
	tokens    []string
}

func (f *fakeClient) Register(context.Context, string, string) (*models.UserView, error) {
	return nil, nil
}
func (f *fakeClient) Connect(context.Context, string, string) (string, error) { return "", nil }
func (f *fakeClient) Disconnect(context.Context, string) error               { return nil }

func (f *fakeClient) Me(_ context.Context, token string) (*models.UserView, error) {
	f.tokens = append(f.tokens, token)
	return &models.UserView{ID: "u-1", Email: "bob@dylan.com"}, nil
}

func (f *fakeClient) Upload(_ context.Context, token string, req models.UploadRequest) (*models.FileView, error) {
	f.tokens = append(f.tokens, token)
	f.uploads = append(f.uploads, req)
	return &models.FileView{ID: "f-1", UserID: "u-1", Name: req.Name, Type: req.Type, IsPublic: req.IsPublic, ParentID: req.ParentID}, nil
}

func (f *fakeClient) Show(_ context.Context, _, id string) (*models.FileView, error) {
	if id != "f-1" {
		return nil, &client.APIError{StatusCode: 404, Reason: "Not found"}
	}
	return &models.FileView{ID: id, Name: "a.txt", Type: models.FileTypeFile, ParentID: "0"}, nil
}

func (f *fakeClient) List(_ context.Context, _, parentID string, page int) ([]models.FileView, error) {
	f.listArgs = []any{parentID, page}
	return []models.FileView{
		{ID: "f-1", Name: "a.txt", Type: models.FileTypeFile, ParentID: "0"},
		{ID: "f-2", Name: "pics", Type: models.FileTypeFolder, ParentID: "p-9", IsPublic: true},
	}, nil
}

func (f *fakeClient) Publish(_ context.Context, _, id string) (*models.FileView, error) {
	return &models.FileView{ID: id, Name: "a.txt", IsPublic: true}, nil
}

func (f *fakeClient) Unpublish(_ context.Context, _, id string) (*models.FileView, error) {
	return &models.FileView{ID: id, Name: "a.txt"}, nil
}

func (f *fakeClient) Data(_ context.Context, token, _, size string) (*client.Content, error) {
	f.dataToken = token
	f.dataSize = size
	return &client.Content{ContentType: "text/plain", Data: []byte("hello")}, nil
}

func (f *fakeClient) Status(context.Context) (*client.Status, error) {
	return &client.Status{Redis: true, DB: false}, nil
}

func newTestApp(input string) (*App, *fakeClient, *fakeAuth, *bytes.Buffer) {
	fc := &fakeClient{}
	fa := &fakeAuth{}
	out := &bytes.Buffer{}
	return newApp(fc, fa, strings.NewReader(input), out), fc, fa, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })
	getPassword = func(w io.Writer) ([]byte, error) {
		return []byte(pw), nil
	}
}

// ---- tests ----

func TestRun_Usage(t *testing.T) {
	app, _, _, out := newTestApp("")
	ctx := context.Background()

	assert.ErrorIs(t, app.Run(ctx, nil), ErrUsage)
	assert.Contains(t, out.String(), "Available commands")

	assert.NoError(t, app.Run(ctx, []string{"help"}))

	out.Reset()
	assert.ErrorIs(t, app.Run(ctx, []string{"frobnicate"}), ErrUsage)
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	assert.ErrorIs(t, app.Run(ctx, []string{"show"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"ls", "--bogus"}), ErrUsage)
	assert.ErrorIs(t, app.Run(ctx, []string{"status", "extra"}), ErrUsage)
}

func TestRegisterAndLogin(t *testing.T) {
	stubPassword(t, "pw")
	app, _, fa, out := newTestApp("bob@dylan.com\n")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"register"}))
	assert.Equal(t, "bob@dylan.com", fa.registered)
	assert.Equal(t, "pw", fa.password)
	assert.Contains(t, out.String(), "Registered bob@dylan.com (u-1)")

	require.NoError(t, app.Run(ctx, []string{"login", "--email", "alice@x.com"}))
	assert.Equal(t, "alice@x.com", fa.loggedIn)
	assert.Contains(t, out.String(), "Login successful")

	require.NoError(t, app.Run(ctx, []string{"logout"}))
	assert.ErrorIs(t, app.Run(ctx, []string{"logout"}), ErrNotLoggedIn)
}

func TestLogin_Failure(t *testing.T) {
	stubPassword(t, "bad")
	app, _, fa, _ := newTestApp("")
	fa.loginErr = common.ErrInvalidCredentials

	err := app.Run(context.Background(), []string{"login", "--email", "bob@dylan.com"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestCommandsNeedSession(t *testing.T) {
	app, _, _, _ := newTestApp("")
	ctx := context.Background()

	for _, args := range [][]string{{"me"}, {"ls"}, {"mkdir", "x"}, {"show", "f-1"}, {"publish", "f-1"}, {"unpublish", "f-1"}} {
		assert.ErrorIs(t, app.Run(ctx, args), ErrNotLoggedIn, args[0])
	}
}

func TestMeAndStatus(t *testing.T) {
	app, fc, fa, out := newTestApp("")
	fa.token = "tok"
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"me"}))
	assert.Equal(t, []string{"tok"}, fc.tokens)
	assert.Contains(t, out.String(), "bob@dylan.com")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"status"}))
	assert.Equal(t, "redis: true\ndb: false\n", out.String())
}

func TestUpload(t *testing.T) {
	app, fc, fa, out := newTestApp("")
	fa.token = "tok"
	ctx := context.Background()

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o600))
	png := filepath.Join(dir, "dot.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), 0o600))

	require.NoError(t, app.Run(ctx, []string{"upload", "--parent", "p-1", "--public", txt}))
	require.NoError(t, app.Run(ctx, []string{"upload", png}))
	require.NoError(t, app.Run(ctx, []string{"upload", "-t", "file", png}))

	require.Len(t, fc.uploads, 3)
	assert.Equal(t, models.UploadRequest{
		Name: "notes.txt", Type: models.FileTypeFile, ParentID: "p-1", IsPublic: true,
		Data: base64.StdEncoding.EncodeToString([]byte("hi")),
	}, fc.uploads[0])
	assert.Equal(t, models.FileTypeImage, fc.uploads[1].Type)
	assert.Equal(t, models.FileTypeFile, fc.uploads[2].Type)
	assert.Contains(t, out.String(), "notes.txt")

	assert.Error(t, app.Run(ctx, []string{"upload", filepath.Join(dir, "missing")}))
}

func TestMkdirAndList(t *testing.T) {
	app, fc, fa, out := newTestApp("")
	fa.token = "tok"
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"mkdir", "pics"}))
	assert.Equal(t, models.UploadRequest{Name: "pics", Type: models.FileTypeFolder}, fc.uploads[0])

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"ls", "-p", "p-9", "--page", "2"}))
	assert.Equal(t, []any{"p-9", 2}, fc.listArgs)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "a.txt")
	assert.Contains(t, lines[2], "p-9")
}

func TestShowPublishUnpublish(t *testing.T) {
	app, _, fa, out := newTestApp("")
	fa.token = "tok"
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"show", "f-1"}))
	assert.ErrorIs(t, app.Run(ctx, []string{"show", "nope"}), common.ErrNotFound)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"publish", "f-1"}))
	assert.Contains(t, out.String(), "true")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"unpublish", "f-1"}))
	assert.Contains(t, out.String(), "false")
}

func TestGet(t *testing.T) {
	app, fc, fa, out := newTestApp("")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"get", "f-1"}))
	assert.Equal(t, "", fc.dataToken)
	assert.Equal(t, "hello", out.String())

	fa.token = "tok"
	dst := filepath.Join(t.TempDir(), "out.txt")
	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"get", "--size", "250", "-o", dst, "f-1"}))
	assert.Equal(t, "tok", fc.dataToken)
	assert.Equal(t, "250", fc.dataSize)
	assert.Contains(t, out.String(), "Saved 5 bytes (text/plain)")

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestCredentials_PromptsForEmail(t *testing.T) {
	stubPassword(t, "pw")
	app, _, _, out := newTestApp("carol@x.com\n")
	app.reader = bufio.NewReader(strings.NewReader("carol@x.com\n"))

	email, pw, err := app.credentials("login", nil)
	require.NoError(t, err)
	assert.Equal(t, "carol@x.com", email)
	assert.Equal(t, []byte("pw"), pw)
	assert.Contains(t, out.String(), "Enter email")
}
