package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

var (
	manager  = models.Actor{ID: "manager-1", Role: models.RoleManager}
	driver   = models.Actor{ID: "driver-1", Role: models.RoleDriver}
	mechanic = models.Actor{ID: "mech-1", Role: models.RoleMechanic}
	stranger = models.Actor{ID: "mech-2", Role: models.RoleMechanic}
)

func strPtr(s string) *string { return &s }

func pendingRequest() *models.AssistanceRequest {
	return &models.AssistanceRequest{ID: "req-1", Status: models.StatusPending, DriverID: driver.ID}
}

func requestIn(status models.RequestStatus) *models.AssistanceRequest {
	req := pendingRequest()
	req.Status = status
	req.MechanicID = strPtr(mechanic.ID)
	return req
}

func availableMechanic(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleMechanic, Status: models.MechanicAvailable}
}

func TestAllowed_TransitionTable(t *testing.T) {
	allowed := map[[2]models.RequestStatus]bool{
		{models.StatusPending, models.StatusAssigned}:     true,
		{models.StatusAssigned, models.StatusInProgress}:  true,
		{models.StatusAssigned, models.StatusCancelled}:   true,
		{models.StatusInProgress, models.StatusCompleted}: true,
		{models.StatusInProgress, models.StatusCancelled}: true,
	}

	for _, from := range models.RequestStatuses {
		for _, to := range models.RequestStatuses {
			want := allowed[[2]models.RequestStatus{from, to}]
			assert.Equal(t, want, Allowed(from, to), "%s -> %s", from, to)
		}
	}
}

func TestAssign(t *testing.T) {
	busy := availableMechanic(mechanic.ID)
	busy.Status = models.MechanicBusy
	notMechanic := &models.User{ID: "driver-9", Role: models.RoleDriver, Status: models.MechanicAvailable}

	tests := []struct {
		name     string
		actor    models.Actor
		req      *models.AssistanceRequest
		mechanic *models.User
		wantErr  error
	}{
		{"manager assigns available mechanic", manager, pendingRequest(), availableMechanic(mechanic.ID), nil},
		{"mechanic assigns itself", mechanic, pendingRequest(), availableMechanic(mechanic.ID), nil},
		{"mechanic assigns someone else", mechanic, pendingRequest(), availableMechanic(stranger.ID), apperr.ErrForbidden},
		{"driver cannot assign", driver, pendingRequest(), availableMechanic(mechanic.ID), apperr.ErrForbidden},
		{"already assigned", manager, requestIn(models.StatusAssigned), availableMechanic(stranger.ID), apperr.ErrAlreadyAssigned},
		{"completed request keeps its mechanic", manager, requestIn(models.StatusCompleted), availableMechanic(stranger.ID), apperr.ErrAlreadyAssigned},
		{"busy mechanic", manager, pendingRequest(), busy, apperr.ErrMechanicUnavailable},
		{"self-assign while busy", mechanic, pendingRequest(), busy, apperr.ErrMechanicUnavailable},
		{"target is not a mechanic", manager, pendingRequest(), notMechanic, apperr.ErrNotFound},
		{"unknown role", models.Actor{ID: "x", Role: "ADMIN"}, pendingRequest(), availableMechanic(mechanic.ID), apperr.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Assign(tt.actor, tt.req, tt.mechanic)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusPending, out.From)
			assert.Equal(t, models.StatusAssigned, out.To)
			assert.Equal(t, tt.mechanic.ID, out.MechanicID)
			assert.Equal(t, MechanicOccupy, out.Mechanic)
			assert.False(t, out.Completes)
		})
	}
}

func TestAssign_CancelledWithoutMechanicIsInvalid(t *testing.T) {
	req := pendingRequest()
	req.Status = models.StatusCancelled

	_, err := Assign(manager, req, availableMechanic(mechanic.ID))
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name       string
		actor      models.Actor
		from       models.RequestStatus
		to         models.RequestStatus
		wantErr    error
		wantEffect MechanicEffect
	}{
		{"mechanic starts", mechanic, models.StatusAssigned, models.StatusInProgress, nil, MechanicUnchanged},
		{"mechanic completes", mechanic, models.StatusInProgress, models.StatusCompleted, nil, MechanicRelease},
		{"manager completes", manager, models.StatusInProgress, models.StatusCompleted, nil, MechanicRelease},
		{"manager cancels assigned", manager, models.StatusAssigned, models.StatusCancelled, nil, MechanicRelease},
		{"mechanic cancels in progress", mechanic, models.StatusInProgress, models.StatusCancelled, nil, MechanicRelease},
		{"manager cannot start", manager, models.StatusAssigned, models.StatusInProgress, apperr.ErrForbidden, 0},
		{"stranger cannot cancel", stranger, models.StatusAssigned, models.StatusCancelled, apperr.ErrForbidden, 0},
		{"driver cannot cancel", driver, models.StatusAssigned, models.StatusCancelled, apperr.ErrForbidden, 0},
		{"skip in progress", mechanic, models.StatusAssigned, models.StatusCompleted, apperr.ErrInvalidTransition, 0},
		{"reopen completed", manager, models.StatusCompleted, models.StatusInProgress, apperr.ErrForbidden, 0},
		{"cancel completed", manager, models.StatusCompleted, models.StatusCancelled, apperr.ErrInvalidTransition, 0},
		{"complete cancelled", mechanic, models.StatusCancelled, models.StatusCompleted, apperr.ErrInvalidTransition, 0},
		{"back to assigned", mechanic, models.StatusInProgress, models.StatusAssigned, apperr.ErrInvalidTransition, 0},
		{"unknown status", mechanic, models.StatusAssigned, "DONE", apperr.ErrValidation, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Advance(tt.actor, requestIn(tt.from), tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, out.From)
			assert.Equal(t, tt.to, out.To)
			assert.Equal(t, mechanic.ID, out.MechanicID)
			assert.Equal(t, tt.wantEffect, out.Mechanic)
			assert.Equal(t, tt.to == models.StatusCompleted, out.Completes)
		})
	}
}

func TestAdvance_PendingRequests(t *testing.T) {
	t.Run("manager cannot complete directly", func(t *testing.T) {
		_, err := Advance(manager, pendingRequest(), models.StatusCompleted)
		require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("manager cannot cancel unassigned", func(t *testing.T) {
		_, err := Advance(manager, pendingRequest(), models.StatusCancelled)
		require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("update to assigned must use assign", func(t *testing.T) {
		_, err := Advance(manager, pendingRequest(), models.StatusAssigned)
		require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("unassigned mechanic is forbidden", func(t *testing.T) {
		_, err := Advance(mechanic, pendingRequest(), models.StatusCancelled)
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestOutcome_Apply(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	req := pendingRequest()

	out, err := Assign(manager, req, availableMechanic(mechanic.ID))
	require.NoError(t, err)
	out.Apply(req, now)

	assert.Equal(t, models.StatusAssigned, req.Status)
	require.NotNil(t, req.MechanicID)
	assert.Equal(t, mechanic.ID, *req.MechanicID)
	assert.Nil(t, req.CompletedAt)
	assert.Equal(t, now, req.UpdatedAt)

	out, err = Advance(mechanic, req, models.StatusInProgress)
	require.NoError(t, err)
	out.Apply(req, now.Add(time.Minute))

	out, err = Advance(mechanic, req, models.StatusCompleted)
	require.NoError(t, err)
	out.Apply(req, now.Add(time.Hour))

	assert.Equal(t, models.StatusCompleted, req.Status)
	require.NotNil(t, req.CompletedAt)
	assert.Equal(t, now.Add(time.Hour), *req.CompletedAt)
	require.NotNil(t, req.MechanicID, "mechanic is never cleared")
	assert.Equal(t, mechanic.ID, *req.MechanicID)
}

func TestActionTarget(t *testing.T) {
	for action, want := range map[Action]models.RequestStatus{
		ActionStart:    models.StatusInProgress,
		ActionComplete: models.StatusCompleted,
		ActionCancel:   models.StatusCancelled,
	} {
		got, err := action.Target()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Action("reopen").Target()
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStatusAfterRelease(t *testing.T) {
	assert.Equal(t, models.MechanicAvailable, StatusAfterRelease(0))
	assert.Equal(t, models.MechanicBusy, StatusAfterRelease(1))
}

func TestToggle(t *testing.T) {
	t.Run("available goes off duty", func(t *testing.T) {
		status, err := Toggle(manager, availableMechanic(mechanic.ID), 0)
		require.NoError(t, err)
		assert.Equal(t, models.MechanicBusy, status)
	})

	t.Run("idle busy comes back", func(t *testing.T) {
		m := availableMechanic(mechanic.ID)
		m.Status = models.MechanicBusy
		status, err := Toggle(manager, m, 0)
		require.NoError(t, err)
		assert.Equal(t, models.MechanicAvailable, status)
	})

	t.Run("busy with work stays busy", func(t *testing.T) {
		m := availableMechanic(mechanic.ID)
		m.Status = models.MechanicBusy
		_, err := Toggle(manager, m, 1)
		require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("managers only", func(t *testing.T) {
		_, err := Toggle(mechanic, availableMechanic(mechanic.ID), 0)
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("target must be a mechanic", func(t *testing.T) {
		_, err := Toggle(manager, &models.User{ID: "d", Role: models.RoleDriver}, 0)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
