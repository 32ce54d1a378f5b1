package memory

import (
	"context"
	"fmt"
	"sort"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

type userRepo struct {
	c *conn
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.c.lock()()
	st := r.c.state()

	if _, ok := st.users[user.ID]; ok {
		return nil, fmt.Errorf("user %s already exists", user.ID)
	}
	for _, u := range st.users {
		if u.Email == user.Email {
			return nil, apperr.Validation("email", "already in use")
		}
	}
	st.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.c.lock()()
	u, ok := r.c.state().users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.c.lock()()
	for _, u := range r.c.state().users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
}

// GetForUpdate needs no row lock here: Tx already holds the store mutex.
func (r *userRepo) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	defer r.c.lock()()

	users := make([]*models.User, 0)
	for _, u := range r.c.state().users {
		if u.Role == role {
			users = append(users, copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *userRepo) UpdateStatus(ctx context.Context, id string, status models.MechanicStatus) error {
	defer r.c.lock()()
	u, ok := r.c.state().users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	u.Status = status
	return nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role models.Role) error {
	defer r.c.lock()()
	u, ok := r.c.state().users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	u.Role = role
	return nil
}
