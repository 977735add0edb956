// Package files implements the PostgreSQL file metadata store.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

var columns = []string{"id", "user_id", "name", "type", "parent_id", "is_public", "local_path", "created_at"}

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Create inserts file. Folders are stored with a NULL local_path.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, user_id, name, type, parent_id, is_public, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var localPath sql.NullString
	if file.LocalPath != "" {
		localPath = sql.NullString{String: file.LocalPath, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.UserID, file.Name, string(file.Type), file.ParentID, file.IsPublic, localPath).Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns the file or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query, args, err := r.qb().Select(columns...).From("files").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	f, err := scanFile(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListByParent returns one page of userID's files under parentID in
// insertion order. page is zero-based.
func (r *PostgresRepository) ListByParent(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}

	query, args, err := r.qb().Select(columns...).
		From("files").
		Where(sq.Eq{"user_id": userID, "parent_id": parentID}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(pageSize)).
		Offset(uint64(page * pageSize)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0, pageSize)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// SetPublic is a single UPDATE ... RETURNING, so concurrent calls resolve
// last-writer-wins.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error) {
	ub := r.qb().Update("files").Set("is_public", isPublic).Where(sq.Eq{"id": id})
	if ownerID != "" {
		ub = ub.Where(sq.Eq{"user_id": ownerID})
	}

	query, args, err := ub.Suffix("RETURNING id, user_id, name, type, parent_id, is_public, local_path, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	f, err := scanFile(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	var (
		f         models.File
		fileType  string
		localPath sql.NullString
	)
	if err := s.Scan(&f.ID, &f.UserID, &f.Name, &fileType, &f.ParentID, &f.IsPublic, &localPath, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Type = models.FileType(fileType)
	f.LocalPath = localPath.String
	return &f, nil
}
