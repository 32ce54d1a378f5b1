package memory

import (
	"context"
	"sort"

	"roadside/pkg/models"
)

type reportRepo struct {
	c *conn
}

func (r *reportRepo) CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error) {
	defer r.c.lock()()

	counts := make(map[models.RequestStatus]int)
	for _, req := range r.c.state().requests {
		counts[req.Status]++
	}
	return counts, nil
}

func (r *reportRepo) CountByProblemType(ctx context.Context) ([]models.Count, error) {
	defer r.c.lock()()

	byType := make(map[string]int)
	for _, req := range r.c.state().requests {
		byType[req.ProblemType]++
	}
	counts := make([]models.Count, 0, len(byType))
	for key, n := range byType {
		counts = append(counts, models.Count{Key: key, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Key < counts[j].Key
	})
	return counts, nil
}

func (r *reportRepo) CountByMechanic(ctx context.Context) ([]models.MechanicCount, error) {
	defer r.c.lock()()
	st := r.c.state()

	byMechanic := make(map[string]int)
	for _, req := range st.requests {
		if req.MechanicID != nil {
			byMechanic[*req.MechanicID]++
		}
	}
	counts := make([]models.MechanicCount, 0)
	for _, u := range st.users {
		if u.Role == models.RoleMechanic {
			counts = append(counts, models.MechanicCount{MechanicID: u.ID, Name: u.Name, Count: byMechanic[u.ID]})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts, nil
}

func (r *reportRepo) CountUsersByRole(ctx context.Context) (map[models.Role]int, error) {
	defer r.c.lock()()

	counts := make(map[models.Role]int)
	for _, u := range r.c.state().users {
		counts[u.Role]++
	}
	return counts, nil
}
