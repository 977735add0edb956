package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
)

// basicPrefixLen is the length of "Basic ", dropped from the header
// without looking at it.
const basicPrefixLen = 6

// AuthService issues, resolves and revokes session tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Store
	hasher      PasswordHasher
	ttl         time.Duration
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, store sessions.Store, hasher PasswordHasher, ttl time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		sessions:    store,
		hasher:      hasher,
		ttl:         ttl,
		logger:      logger.With("module", "auth"),
	}
}

// parseBasic extracts email and password from a Basic authorization header.
func parseBasic(header string) (string, string, bool) {
	if len(header) < basicPrefixLen {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[basicPrefixLen:])
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(decoded), ":")
}

// Connect signs a user in with a Basic authorization header and returns a
// fresh token. An unreadable header or an unknown email is
// common.ErrUnauthorized; a wrong password is common.ErrInvalidCredentials.
func (s *AuthService) Connect(ctx context.Context, header string) (string, error) {

	email, password, ok := parseBasic(header)
	if !ok {
		return "", common.ErrUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	match, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		s.logger.Warn(ctx, "password verification failed", "user_id", user.ID, "error", err)
		return "", common.ErrInvalidCredentials
	}
	if !match {
		return "", common.ErrInvalidCredentials
	}

	token, err := common.MakeRandHexString(common.TokenSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.sessions.Set(ctx, token, user.ID, s.ttl); err != nil {
		s.logger.Error(ctx, "session store failed", "error", err)
		return "", common.ErrorInternal
	}

	s.logger.Debug(ctx, "user connected", "user_id", user.ID)
	return token, nil
}

// Resolve returns the user id bound to token.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthorized
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrSessionNotFound) {
			return "", common.ErrUnauthorized
		}
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	return userID, nil
}

// Disconnect revokes token.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {

	if _, err := s.Resolve(ctx, token); err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.Error(ctx, "session delete failed", "error", err)
		return common.ErrorInternal
	}

	return nil
}

// Register creates an account with a hashed password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {

	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if password == "" {
		return nil, common.ErrMissingPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Email: email, Password: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Me returns the user owning token.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {

	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	return user, nil
}
