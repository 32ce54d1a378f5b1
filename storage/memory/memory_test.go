package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
	"roadside/storage"
)

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	t.Cleanup(s.Close)
	return s
}

func addUser(t *testing.T, s storage.IStorage, id string, role models.Role) *models.User {
	t.Helper()
	u, err := s.User().Create(context.Background(), &models.User{
		ID:     id,
		Name:   "User " + id,
		Email:  id + "@example.com",
		Role:   role,
		Status: models.MechanicAvailable,
	})
	require.NoError(t, err)
	return u
}

func addRequest(t *testing.T, s storage.IStorage, id, driverID string, at time.Time) *models.AssistanceRequest {
	t.Helper()
	req, err := s.Request().Create(context.Background(), &models.AssistanceRequest{
		ID:          id,
		ProblemType: "Pneu furado",
		Description: "flat tyre on the highway",
		Location:    "BR-101 km 12",
		Status:      models.StatusPending,
		DriverID:    driverID,
		CreatedAt:   at,
		UpdatedAt:   at,
	})
	require.NoError(t, err)
	return req
}

func assign(t *testing.T, s storage.IStorage, reqID, mechanicID string, status models.RequestStatus) {
	t.Helper()
	ctx := context.Background()
	req, err := s.Request().GetForUpdate(ctx, reqID)
	require.NoError(t, err)
	req.Status = status
	req.MechanicID = &mechanicID
	require.NoError(t, s.Request().UpdateLifecycle(ctx, req))
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	addUser(t, s, "d1", models.RoleDriver)
	addUser(t, s, "m2", models.RoleMechanic)
	addUser(t, s, "m1", models.RoleMechanic)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.User().Create(ctx, &models.User{ID: "x", Email: "d1@example.com", Role: models.RoleDriver})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Contains(t, err.Error(), "email already in use")
	})

	t.Run("lookups", func(t *testing.T) {
		u, err := s.User().GetByEmail(ctx, "m1@example.com")
		require.NoError(t, err)
		assert.Equal(t, "m1", u.ID)

		_, err = s.User().GetByID(ctx, "nope")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = s.User().GetByEmail(ctx, "nope@example.com")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("list by role is sorted by name", func(t *testing.T) {
		mechanics, err := s.User().ListByRole(ctx, models.RoleMechanic)
		require.NoError(t, err)
		require.Len(t, mechanics, 2)
		assert.Equal(t, "m1", mechanics[0].ID)
		assert.Equal(t, "m2", mechanics[1].ID)
	})

	t.Run("updates", func(t *testing.T) {
		require.NoError(t, s.User().UpdateStatus(ctx, "m1", models.MechanicBusy))
		require.NoError(t, s.User().UpdateRole(ctx, "d1", models.RoleManager))

		m1, err := s.User().GetByID(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, models.MechanicBusy, m1.Status)

		d1, err := s.User().GetByID(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, models.RoleManager, d1.Role)

		assert.ErrorIs(t, s.User().UpdateStatus(ctx, "nope", models.MechanicBusy), apperr.ErrNotFound)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		u, err := s.User().GetByID(ctx, "m2")
		require.NoError(t, err)
		u.Status = models.MechanicBusy

		again, err := s.User().GetByID(ctx, "m2")
		require.NoError(t, err)
		assert.Equal(t, models.MechanicAvailable, again.Status)
	})
}

func TestRequestRepo(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	addUser(t, s, "d1", models.RoleDriver)
	addUser(t, s, "d2", models.RoleDriver)
	addUser(t, s, "m1", models.RoleMechanic)

	addRequest(t, s, "r1", "d1", t0)
	addRequest(t, s, "r2", "d2", t0.Add(time.Minute))
	addRequest(t, s, "r3", "d1", t0.Add(2*time.Minute))
	assign(t, s, "r2", "m1", models.StatusInProgress)

	t.Run("unknown driver", func(t *testing.T) {
		_, err := s.Request().Create(ctx, &models.AssistanceRequest{ID: "r9", DriverID: "ghost", Status: models.StatusPending})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("get attaches summaries", func(t *testing.T) {
		req, err := s.Request().GetByID(ctx, "r2")
		require.NoError(t, err)
		require.NotNil(t, req.Driver)
		require.NotNil(t, req.Mechanic)
		assert.Equal(t, "d2", req.Driver.ID)
		assert.Equal(t, "User m1", req.Mechanic.Name)

		_, err = s.Request().GetByID(ctx, "nope")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := s.Request().List(ctx, models.RequestFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"r3", "r2", "r1"}, ids(list))
	})

	t.Run("list by driver", func(t *testing.T) {
		list, err := s.Request().List(ctx, models.RequestFilter{DriverID: "d1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"r3", "r1"}, ids(list))
	})

	t.Run("list for mechanic includes open requests", func(t *testing.T) {
		list, err := s.Request().List(ctx, models.RequestFilter{MechanicID: "m1", IncludeOpen: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"r3", "r2", "r1"}, ids(list))

		list, err = s.Request().List(ctx, models.RequestFilter{MechanicID: "m1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"r2"}, ids(list))
	})

	t.Run("list with status and limit", func(t *testing.T) {
		list, err := s.Request().List(ctx, models.RequestFilter{Status: models.StatusPending, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"r3"}, ids(list))
	})

	t.Run("active count", func(t *testing.T) {
		n, err := s.Request().CountActiveByMechanic(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		req, err := s.Request().GetForUpdate(ctx, "r2")
		require.NoError(t, err)
		completed := t0.Add(time.Hour)
		req.Status = models.StatusCompleted
		req.CompletedAt = &completed
		require.NoError(t, s.Request().UpdateLifecycle(ctx, req))

		n, err = s.Request().CountActiveByMechanic(ctx, "m1")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	addUser(t, s, "d1", models.RoleDriver)
	addUser(t, s, "m1", models.RoleMechanic)
	addRequest(t, s, "r1", "d1", t0)

	boom := errors.New("boom")
	err := s.Tx(ctx, func(tx storage.IStorage) error {
		assign(t, tx, "r1", "m1", models.StatusAssigned)
		require.NoError(t, tx.User().UpdateStatus(ctx, "m1", models.MechanicBusy))
		return boom
	})
	require.ErrorIs(t, err, boom)

	req, err := s.Request().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Nil(t, req.MechanicID)

	m1, err := s.User().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MechanicAvailable, m1.Status)
}

func TestTx_CommitsAndNests(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	addUser(t, s, "m1", models.RoleMechanic)

	err := s.Tx(ctx, func(tx storage.IStorage) error {
		return tx.Tx(ctx, func(inner storage.IStorage) error {
			return inner.User().UpdateStatus(ctx, "m1", models.MechanicBusy)
		})
	})
	require.NoError(t, err)

	m1, err := s.User().GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MechanicBusy, m1.Status)
}

func TestProblemTypes(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	all, err := s.ProblemType().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(models.DefaultProblemTypes))
	assert.Equal(t, "Pneu furado", all[0].Name)
	assert.NotEmpty(t, all[0].ID)

	require.NoError(t, s.ProblemType().Upsert(ctx, &models.ProblemType{Name: "Outro", Description: "changed"}))
	require.NoError(t, s.ProblemType().Upsert(ctx, &models.ProblemType{Name: "Vidro quebrado"}))

	all, err = s.ProblemType().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(models.DefaultProblemTypes)+1)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	addUser(t, s, "d1", models.RoleDriver)
	addUser(t, s, "m1", models.RoleMechanic)
	addUser(t, s, "m2", models.RoleMechanic)
	addRequest(t, s, "r1", "d1", t0)
	addRequest(t, s, "r2", "d1", t0)
	assign(t, s, "r1", "m2", models.StatusAssigned)

	byStatus, err := s.Report().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.RequestStatus]int{models.StatusPending: 1, models.StatusAssigned: 1}, byStatus)

	byType, err := s.Report().CountByProblemType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Count{{Key: "Pneu furado", Count: 2}}, byType)

	byMechanic, err := s.Report().CountByMechanic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.MechanicCount{
		{MechanicID: "m2", Name: "User m2", Count: 1},
		{MechanicID: "m1", Name: "User m1", Count: 0},
	}, byMechanic)

	byRole, err := s.Report().CountUsersByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.Role]int{models.RoleDriver: 1, models.RoleMechanic: 2}, byRole)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	addUser(t, s, "d1", models.RoleDriver)
	addRequest(t, s, "r1", "d1", t0)

	require.NoError(t, s.Reset(ctx))

	_, err := s.User().GetByID(ctx, "d1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	list, err := s.Request().List(ctx, models.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	all, err := s.ProblemType().GetAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func ids(list []*models.AssistanceRequest) []string {
	out := make([]string, 0, len(list))
	for _, req := range list {
		out = append(out, req.ID)
	}
	return out
}
