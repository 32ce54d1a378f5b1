package lifecycle

import (
	"fmt"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

// CanCreate allows only drivers to open requests.
func CanCreate(actor models.Actor) error {
	if actor.Role != models.RoleDriver {
		return fmt.Errorf("%w: only drivers can request assistance", apperr.ErrForbidden)
	}
	return nil
}

// CanView applies the per-role visibility rule to a single request.
func CanView(actor models.Actor, req *models.AssistanceRequest) error {
	switch actor.Role {
	case models.RoleManager:
		return nil
	case models.RoleDriver:
		if req.DriverID == actor.ID {
			return nil
		}
	case models.RoleMechanic:
		if req.AssignedTo(actor.ID) || (req.MechanicID == nil && req.Status == models.StatusPending) {
			return nil
		}
	}
	return fmt.Errorf("%w: you cannot view request %s", apperr.ErrForbidden, req.ID)
}

// VisibleFilter turns the visibility rule into a storage filter, narrowed
// by an optional status.
func VisibleFilter(actor models.Actor, status models.RequestStatus) (models.RequestFilter, error) {
	if status != "" && !status.Valid() {
		return models.RequestFilter{}, apperr.Validation("status", "%q is not a request status", status)
	}

	filter := models.RequestFilter{Status: status}
	switch actor.Role {
	case models.RoleManager:
	case models.RoleDriver:
		filter.DriverID = actor.ID
	case models.RoleMechanic:
		filter.MechanicID = actor.ID
		filter.IncludeOpen = true
	default:
		return models.RequestFilter{}, fmt.Errorf("%w: unknown role %q", apperr.ErrForbidden, actor.Role)
	}
	return filter, nil
}

// Matches reports whether req passes filter. The memory store uses it; the
// Postgres store expresses the same predicate in SQL.
func Matches(filter models.RequestFilter, req *models.AssistanceRequest) bool {
	if filter.Status != "" && req.Status != filter.Status {
		return false
	}
	if filter.DriverID != "" && req.DriverID != filter.DriverID {
		return false
	}
	if filter.MechanicID != "" {
		open := filter.IncludeOpen && req.MechanicID == nil && req.Status == models.StatusPending
		if !req.AssignedTo(filter.MechanicID) && !open {
			return false
		}
	}
	return true
}

func RequireManager(actor models.Actor) error {
	if actor.Role != models.RoleManager {
		return fmt.Errorf("%w: managers only", apperr.ErrForbidden)
	}
	return nil
}
