package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository is the file metadata store. Only is_public is ever updated
// after insertion.
type Repository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	ListByParent(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error)
	// SetPublic updates the visibility of file id and returns the updated
	// row. A non-empty ownerID restricts the update to that owner.
	SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
