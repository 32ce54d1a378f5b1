// Package lifecycle is the assistance-request state machine. It decides
// whether a transition is allowed for a given actor and what it implies for
// the assigned mechanic, but never touches storage: callers load the rows,
// ask for an Outcome and persist it inside one transaction.
package lifecycle

import (
	"fmt"
	"time"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

// MechanicEffect is what a transition does to the assigned mechanic.
type MechanicEffect int

const (
	MechanicUnchanged MechanicEffect = iota
	MechanicOccupy
	MechanicRelease
)

func (e MechanicEffect) String() string {
	switch e {
	case MechanicOccupy:
		return "occupy"
	case MechanicRelease:
		return "release"
	default:
		return "unchanged"
	}
}

type edge struct {
	from, to models.RequestStatus
}

var transitions = map[edge]MechanicEffect{
	{models.StatusPending, models.StatusAssigned}:     MechanicOccupy,
	{models.StatusAssigned, models.StatusInProgress}:  MechanicUnchanged,
	{models.StatusAssigned, models.StatusCancelled}:   MechanicRelease,
	{models.StatusInProgress, models.StatusCompleted}: MechanicRelease,
	{models.StatusInProgress, models.StatusCancelled}: MechanicRelease,
}

// Allowed reports whether from -> to is an edge of the state machine,
// regardless of who performs it.
func Allowed(from, to models.RequestStatus) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// Outcome is the result of a validated transition.
type Outcome struct {
	From       models.RequestStatus
	To         models.RequestStatus
	MechanicID string
	Mechanic   MechanicEffect
	Completes  bool
}

// Apply writes the outcome onto req. MechanicID is only ever set, never
// cleared.
func (o Outcome) Apply(req *models.AssistanceRequest, now time.Time) {
	req.Status = o.To
	if o.Mechanic == MechanicOccupy {
		id := o.MechanicID
		req.MechanicID = &id
	}
	if o.Completes {
		completedAt := now
		req.CompletedAt = &completedAt
	}
	req.UpdatedAt = now
}

// Assign binds mechanic to a pending request. A manager may pick any
// mechanic; a mechanic may only pick itself. Availability is always checked.
func Assign(actor models.Actor, req *models.AssistanceRequest, mechanic *models.User) (Outcome, error) {
	if err := CanAssign(actor, mechanic.ID); err != nil {
		return Outcome{}, err
	}
	if req.MechanicID != nil {
		return Outcome{}, fmt.Errorf("%w: request %s is held by mechanic %s", apperr.ErrAlreadyAssigned, req.ID, *req.MechanicID)
	}
	if !Allowed(req.Status, models.StatusAssigned) {
		return Outcome{}, fmt.Errorf("%w: cannot assign a %s request", apperr.ErrInvalidTransition, req.Status)
	}
	if mechanic.Role != models.RoleMechanic {
		return Outcome{}, fmt.Errorf("mechanic %s: %w", mechanic.ID, apperr.ErrNotFound)
	}
	if mechanic.Status != models.MechanicAvailable {
		return Outcome{}, fmt.Errorf("%w: mechanic %s is %s", apperr.ErrMechanicUnavailable, mechanic.ID, mechanic.Status)
	}

	return Outcome{
		From:       req.Status,
		To:         models.StatusAssigned,
		MechanicID: mechanic.ID,
		Mechanic:   MechanicOccupy,
	}, nil
}

// Advance moves an assigned request forward or cancels it. Permission is
// checked before the edge so that a stranger never learns the state.
func Advance(actor models.Actor, req *models.AssistanceRequest, to models.RequestStatus) (Outcome, error) {
	if !to.Valid() {
		return Outcome{}, apperr.Validation("status", "%q is not a request status", to)
	}
	if err := canMutate(actor, req, to); err != nil {
		return Outcome{}, err
	}

	effect, ok := transitions[edge{req.Status, to}]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: cannot move request from %s to %s", apperr.ErrInvalidTransition, req.Status, to)
	}
	if effect == MechanicOccupy {
		return Outcome{}, fmt.Errorf("%w: %s requires the assign action", apperr.ErrInvalidTransition, to)
	}

	out := Outcome{
		From:      req.Status,
		To:        to,
		Mechanic:  effect,
		Completes: to == models.StatusCompleted,
	}
	if req.MechanicID != nil {
		out.MechanicID = *req.MechanicID
	}
	return out, nil
}

// CanAssign is the permission half of Assign, usable before the target
// mechanic has been loaded.
func CanAssign(actor models.Actor, mechanicID string) error {
	switch actor.Role {
	case models.RoleManager:
		return nil
	case models.RoleMechanic:
		if actor.ID != mechanicID {
			return fmt.Errorf("%w: mechanics can only assign requests to themselves", apperr.ErrForbidden)
		}
		return nil
	case models.RoleDriver:
		return fmt.Errorf("%w: drivers cannot assign requests", apperr.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role %q", apperr.ErrForbidden, actor.Role)
	}
}

func canMutate(actor models.Actor, req *models.AssistanceRequest, to models.RequestStatus) error {
	switch actor.Role {
	case models.RoleManager:
		if to == models.StatusInProgress {
			return fmt.Errorf("%w: only the assigned mechanic can start work", apperr.ErrForbidden)
		}
		return nil
	case models.RoleMechanic:
		if !req.AssignedTo(actor.ID) {
			return fmt.Errorf("%w: request %s is not assigned to you", apperr.ErrForbidden, req.ID)
		}
		return nil
	case models.RoleDriver:
		return fmt.Errorf("%w: drivers cannot change request status", apperr.ErrForbidden)
	default:
		return fmt.Errorf("%w: unknown role %q", apperr.ErrForbidden, actor.Role)
	}
}

// Action names the redirect-style endpoints.
type Action string

const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

func (a Action) Target() (models.RequestStatus, error) {
	switch a {
	case ActionStart:
		return models.StatusInProgress, nil
	case ActionComplete:
		return models.StatusCompleted, nil
	case ActionCancel:
		return models.StatusCancelled, nil
	default:
		return "", apperr.Validation("action", "%q is not supported", a)
	}
}

// StatusAfterRelease is the availability of a mechanic that just let go of
// a request and still holds remaining active ones.
func StatusAfterRelease(remaining int) models.MechanicStatus {
	if remaining > 0 {
		return models.MechanicBusy
	}
	return models.MechanicAvailable
}

// Toggle flips a mechanic's availability by hand. Going off duty is always
// allowed; coming back is refused while the mechanic still holds work.
func Toggle(actor models.Actor, mechanic *models.User, active int) (models.MechanicStatus, error) {
	if err := RequireManager(actor); err != nil {
		return "", err
	}
	if mechanic.Role != models.RoleMechanic {
		return "", fmt.Errorf("mechanic %s: %w", mechanic.ID, apperr.ErrNotFound)
	}
	if mechanic.Status == models.MechanicAvailable {
		return models.MechanicBusy, nil
	}
	if active > 0 {
		return "", fmt.Errorf("%w: mechanic %s holds %d active request(s)", apperr.ErrInvalidTransition, mechanic.ID, active)
	}
	return models.MechanicAvailable, nil
}
