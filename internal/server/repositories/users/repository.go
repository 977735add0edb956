package users

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository is the credential store: lookups by email for login and by id
// for session resolution.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
