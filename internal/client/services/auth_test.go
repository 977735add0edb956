package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
	"github.com/dmitrijs2005/filesmanager/internal/client/state"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

type fakeClient struct {
	client.Client

	connectToken string
	connectErr   error
	disconnErr   error
	disconnected []string
}

func (f *fakeClient) Register(_ context.Context, email, _ string) (*models.UserView, error) {
	return &models.UserView{ID: "u-1", Email: email}, nil
}

func (f *fakeClient) Connect(context.Context, string, string) (string, error) {
	return f.connectToken, f.connectErr
}

func (f *fakeClient) Disconnect(_ context.Context, token string) error {
	f.disconnected = append(f.disconnected, token)
	return f.disconnErr
}

func newStore(t *testing.T) state.Store {
	t.Helper()
	db, err := state.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return state.NewSQLiteStore(db)
}

func TestLoginTokenLogout(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{connectToken: "tok"}
	store := newStore(t)
	a := NewAuthService(fc, store, "http://srv")

	_, err := a.Token(ctx)
	assert.ErrorIs(t, err, state.ErrNoSession)

	require.NoError(t, a.Login(ctx, "bob@dylan.com", []byte("pw")))

	tok, err := a.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	other := NewAuthService(fc, store, "http://elsewhere")
	_, err = other.Token(ctx)
	assert.ErrorIs(t, err, state.ErrNoSession)

	require.NoError(t, a.Logout(ctx))
	assert.Equal(t, []string{"tok"}, fc.disconnected)

	_, err = a.Token(ctx)
	assert.ErrorIs(t, err, state.ErrNoSession)

	assert.ErrorIs(t, a.Logout(ctx), state.ErrNoSession)
}

func TestLogin_Failure(t *testing.T) {
	fc := &fakeClient{connectErr: &client.APIError{StatusCode: 403, Reason: "Invalid credentials"}}
	a := NewAuthService(fc, newStore(t), "http://srv")

	err := a.Login(context.Background(), "bob@dylan.com", []byte("bad"))
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogout_ExpiredTokenIsForgotten(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{connectToken: "tok", disconnErr: &client.APIError{StatusCode: 401}}
	a := NewAuthService(fc, newStore(t), "http://srv")

	require.NoError(t, a.Login(ctx, "e", []byte("p")))
	require.NoError(t, a.Logout(ctx))

	_, err := a.Token(ctx)
	assert.ErrorIs(t, err, state.ErrNoSession)
}

func TestLogout_ServerDownKeepsSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{connectToken: "tok", disconnErr: errors.New("server unavailable")}
	a := NewAuthService(fc, newStore(t), "http://srv")

	require.NoError(t, a.Login(ctx, "e", []byte("p")))
	assert.Error(t, a.Logout(ctx))

	tok, err := a.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestRegister(t *testing.T) {
	a := NewAuthService(&fakeClient{}, newStore(t), "http://srv")
	u, err := a.Register(context.Background(), "a@b.c", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)
}
