package memory

import (
	"context"

	"github.com/google/uuid"

	"roadside/pkg/models"
)

type problemTypeRepo struct {
	c *conn
}

func (r *problemTypeRepo) GetAll(ctx context.Context) ([]*models.ProblemType, error) {
	defer r.c.lock()()

	list := make([]*models.ProblemType, 0, len(r.c.state().problemTypes))
	for _, pt := range r.c.state().problemTypes {
		pt := *pt
		list = append(list, &pt)
	}
	return list, nil
}

func (r *problemTypeRepo) Upsert(ctx context.Context, pt *models.ProblemType) error {
	defer r.c.lock()()
	st := r.c.state()

	for _, existing := range st.problemTypes {
		if existing.Name == pt.Name {
			return nil
		}
	}
	c := *pt
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	st.problemTypes = append(st.problemTypes, &c)
	return nil
}
