package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"roadside/pkg/apperr"
	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/storage"
)

const userColumns = `id, name, email, password_hash, role, status, created_at, updated_at`

type userRepo struct {
	db  querier
	log logger.ILogger
}

func NewUserRepo(db querier, log logger.ILogger) storage.IUserStorage {
	return &userRepo{db: db, log: log}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Validation("email", "already in use")
		}
		r.log.Error("failed to create user", logger.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *userRepo) get(ctx context.Context, query, key string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", key, apperr.ErrNotFound)
		}
		r.log.Error("failed to get user", logger.String("key", key), logger.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepo) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *userRepo) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY name, id`
	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		r.log.Error("failed to list users", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepo) update(ctx context.Context, query, id string, value any) error {
	tag, err := r.db.Exec(ctx, query, value, id)
	if err != nil {
		r.log.Error("failed to update user", logger.String("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *userRepo) UpdateStatus(ctx context.Context, id string, status models.MechanicStatus) error {
	return r.update(ctx, `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`, id, status)
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.update(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, id, role)
}
