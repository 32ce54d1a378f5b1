package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"roadside/pkg/apperr"
	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/storage"
)

const requestColumns = `r.id, r.problem_type, r.description, r.location, r.status, r.driver_id, r.mechanic_id,
		r.created_at, r.updated_at, r.completed_at`

const requestView = `
	SELECT ` + requestColumns + `,
		d.name, d.email, m.name, m.email
	FROM assistance_requests r
	JOIN users d ON d.id = r.driver_id
	LEFT JOIN users m ON m.id = r.mechanic_id`

type requestRepo struct {
	db  querier
	log logger.ILogger
}

func NewRequestRepo(db querier, log logger.ILogger) storage.IRequestStorage {
	return &requestRepo{db: db, log: log}
}

func scanRequest(row pgx.Row) (*models.AssistanceRequest, error) {
	var req models.AssistanceRequest
	err := row.Scan(
		&req.ID, &req.ProblemType, &req.Description, &req.Location, &req.Status, &req.DriverID, &req.MechanicID,
		&req.CreatedAt, &req.UpdatedAt, &req.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func scanRequestView(row pgx.Row) (*models.AssistanceRequest, error) {
	var (
		req                         models.AssistanceRequest
		driverName, driverEmail     string
		mechanicName, mechanicEmail *string
	)
	err := row.Scan(
		&req.ID, &req.ProblemType, &req.Description, &req.Location, &req.Status, &req.DriverID, &req.MechanicID,
		&req.CreatedAt, &req.UpdatedAt, &req.CompletedAt,
		&driverName, &driverEmail, &mechanicName, &mechanicEmail,
	)
	if err != nil {
		return nil, err
	}
	req.Driver = &models.UserSummary{ID: req.DriverID, Name: driverName, Email: driverEmail}
	if req.MechanicID != nil && mechanicName != nil && mechanicEmail != nil {
		req.Mechanic = &models.UserSummary{ID: *req.MechanicID, Name: *mechanicName, Email: *mechanicEmail}
	}
	return &req, nil
}

func (r *requestRepo) Create(ctx context.Context, req *models.AssistanceRequest) (*models.AssistanceRequest, error) {
	query := `
		INSERT INTO assistance_requests AS r (id, problem_type, description, location, status, driver_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + requestColumns
	created, err := scanRequest(r.db.QueryRow(ctx, query,
		req.ID,
		req.ProblemType,
		req.Description,
		req.Location,
		req.Status,
		req.DriverID,
		req.CreatedAt,
		req.UpdatedAt,
	))
	if err != nil {
		r.log.Error("failed to create assistance request", logger.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*models.AssistanceRequest, error) {
	req, err := scanRequestView(r.db.QueryRow(ctx, requestView+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("request %s: %w", id, apperr.ErrNotFound)
		}
		r.log.Error("failed to get assistance request", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return req, nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*models.AssistanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM assistance_requests r WHERE r.id = $1 FOR UPDATE`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("request %s: %w", id, apperr.ErrNotFound)
		}
		r.log.Error("failed to lock assistance request", logger.String("id", id), logger.Error(err))
		return nil, err
	}
	return req, nil
}

// listQuery renders filter as the SQL form of lifecycle.Matches.
func listQuery(filter models.RequestFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "r.status = "+arg(filter.Status))
	}
	if filter.DriverID != "" {
		where = append(where, "r.driver_id = "+arg(filter.DriverID))
	}
	if filter.MechanicID != "" {
		cond := "r.mechanic_id = " + arg(filter.MechanicID)
		if filter.IncludeOpen {
			cond = "(" + cond + " OR (r.mechanic_id IS NULL AND r.status = 'PENDING'))"
		}
		where = append(where, cond)
	}

	query := requestView
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	return query, args
}

func (r *requestRepo) List(ctx context.Context, filter models.RequestFilter) ([]*models.AssistanceRequest, error) {
	query, args := listQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list assistance requests", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.AssistanceRequest, 0)
	for rows.Next() {
		req, err := scanRequestView(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *requestRepo) UpdateLifecycle(ctx context.Context, req *models.AssistanceRequest) error {
	query := `
		UPDATE assistance_requests
		SET status = $1, mechanic_id = $2, updated_at = $3, completed_at = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, req.Status, req.MechanicID, req.UpdatedAt, req.CompletedAt, req.ID)
	if err != nil {
		r.log.Error("failed to update assistance request", logger.String("id", req.ID), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request %s: %w", req.ID, apperr.ErrNotFound)
	}
	return nil
}

func (r *requestRepo) CountActiveByMechanic(ctx context.Context, mechanicID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM assistance_requests
		WHERE mechanic_id = $1 AND status IN ('ASSIGNED', 'IN_PROGRESS')
	`
	var n int
	if err := r.db.QueryRow(ctx, query, mechanicID).Scan(&n); err != nil {
		r.log.Error("failed to count active requests", logger.String("mechanic_id", mechanicID), logger.Error(err))
		return 0, err
	}
	return n, nil
}
