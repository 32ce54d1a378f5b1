package memory

import (
	"context"
	"fmt"
	"sort"

	"roadside/pkg/apperr"
	"roadside/pkg/lifecycle"
	"roadside/pkg/models"
)

type requestRepo struct {
	c *conn
}

func (r *requestRepo) Create(ctx context.Context, req *models.AssistanceRequest) (*models.AssistanceRequest, error) {
	defer r.c.lock()()
	st := r.c.state()

	if _, ok := st.requests[req.ID]; ok {
		return nil, fmt.Errorf("request %s already exists", req.ID)
	}
	if _, ok := st.users[req.DriverID]; !ok {
		return nil, fmt.Errorf("driver %s: %w", req.DriverID, apperr.ErrNotFound)
	}
	st.requests[req.ID] = copyRequest(req)
	st.order = append(st.order, req.ID)
	return copyRequest(req), nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*models.AssistanceRequest, error) {
	defer r.c.lock()()
	st := r.c.state()

	req, ok := st.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, apperr.ErrNotFound)
	}
	return st.withSummaries(req), nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*models.AssistanceRequest, error) {
	defer r.c.lock()()

	req, ok := r.c.state().requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, apperr.ErrNotFound)
	}
	return copyRequest(req), nil
}

func (r *requestRepo) List(ctx context.Context, filter models.RequestFilter) ([]*models.AssistanceRequest, error) {
	defer r.c.lock()()
	st := r.c.state()

	list := make([]*models.AssistanceRequest, 0)
	for i := len(st.order) - 1; i >= 0; i-- {
		req := st.requests[st.order[i]]
		if lifecycle.Matches(filter, req) {
			list = append(list, st.withSummaries(req))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (r *requestRepo) UpdateLifecycle(ctx context.Context, req *models.AssistanceRequest) error {
	defer r.c.lock()()

	current, ok := r.c.state().requests[req.ID]
	if !ok {
		return fmt.Errorf("request %s: %w", req.ID, apperr.ErrNotFound)
	}
	updated := copyRequest(req)
	current.Status = updated.Status
	current.MechanicID = updated.MechanicID
	current.UpdatedAt = updated.UpdatedAt
	current.CompletedAt = updated.CompletedAt
	return nil
}

func (r *requestRepo) CountActiveByMechanic(ctx context.Context, mechanicID string) (int, error) {
	defer r.c.lock()()

	n := 0
	for _, req := range r.c.state().requests {
		if req.AssignedTo(mechanicID) && req.Status.Active() {
			n++
		}
	}
	return n, nil
}

func (st *state) withSummaries(req *models.AssistanceRequest) *models.AssistanceRequest {
	c := copyRequest(req)
	if u, ok := st.users[c.DriverID]; ok {
		c.Driver = u.Summary()
	}
	if c.MechanicID != nil {
		if u, ok := st.users[*c.MechanicID]; ok {
			c.Mechanic = u.Summary()
		}
	}
	return c
}
