package postgres

import (
	"context"

	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/storage"
)

type reportRepo struct {
	db  querier
	log logger.ILogger
}

func NewReportRepo(db querier, log logger.ILogger) storage.IReportStorage {
	return &reportRepo{db: db, log: log}
}

func (r *reportRepo) CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM assistance_requests GROUP BY status`)
	if err != nil {
		r.log.Error("failed to count requests by status", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.RequestStatus]int)
	for rows.Next() {
		var (
			status models.RequestStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *reportRepo) CountByProblemType(ctx context.Context) ([]models.Count, error) {
	query := `
		SELECT problem_type, COUNT(*) FROM assistance_requests
		GROUP BY problem_type
		ORDER BY COUNT(*) DESC, problem_type
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to count requests by problem type", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.Count, 0)
	for rows.Next() {
		var c models.Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *reportRepo) CountByMechanic(ctx context.Context) ([]models.MechanicCount, error) {
	query := `
		SELECT u.id, u.name, COUNT(r.id)
		FROM users u
		LEFT JOIN assistance_requests r ON r.mechanic_id = u.id
		WHERE u.role = 'MECHANIC'
		GROUP BY u.id, u.name
		ORDER BY COUNT(r.id) DESC, u.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to count requests by mechanic", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.MechanicCount, 0)
	for rows.Next() {
		var c models.MechanicCount
		if err := rows.Scan(&c.MechanicID, &c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *reportRepo) CountUsersByRole(ctx context.Context) (map[models.Role]int, error) {
	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		r.log.Error("failed to count users by role", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Role]int)
	for rows.Next() {
		var (
			role models.Role
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
