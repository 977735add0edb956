// Package services contains the application services behind filesctl
// commands. The auth service logs in and out against the server and keeps
// the resulting session in the local state store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/client/client"
	"github.com/dmitrijs2005/filesmanager/internal/client/state"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// AuthService defines authentication operations for the CLI.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) (*models.UserView, error)
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	// Token returns the saved token for the configured server, or
	// state.ErrNoSession.
	Token(ctx context.Context) (string, error)
}

type authService struct {
	client client.Client
	store  state.Store
	server string
}

// NewAuthService binds the service to the API client of server and the
// local state store.
func NewAuthService(c client.Client, store state.Store, server string) AuthService {
	return &authService{client: c, store: store, server: server}
}

func (a *authService) Register(ctx context.Context, email string, password []byte) (*models.UserView, error) {
	return a.client.Register(ctx, email, string(password))
}

// Login replaces any saved session with a fresh one.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	token, err := a.client.Connect(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.store.Save(ctx, &state.Session{Server: a.server, Email: email, Token: token}); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Token(ctx context.Context) (string, error) {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if sess.Server != a.server {
		return "", state.ErrNoSession
	}
	return sess.Token, nil
}

// Logout revokes the saved token and forgets it. A token the server no
// longer knows is forgotten as well.
func (a *authService) Logout(ctx context.Context) error {
	token, err := a.Token(ctx)
	if err != nil {
		return err
	}

	if err := a.client.Disconnect(ctx, token); err != nil && !errors.Is(err, common.ErrUnauthorized) {
		return fmt.Errorf("logout error: %w", err)
	}

	return a.store.Clear(ctx)
}
