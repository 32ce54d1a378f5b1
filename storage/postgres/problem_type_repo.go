package postgres

import (
	"context"

	"github.com/google/uuid"

	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/storage"
)

type problemTypeRepo struct {
	db  querier
	log logger.ILogger
}

func NewProblemTypeRepo(db querier, log logger.ILogger) storage.IProblemTypeStorage {
	return &problemTypeRepo{db: db, log: log}
}

func (r *problemTypeRepo) GetAll(ctx context.Context) ([]*models.ProblemType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM problem_types ORDER BY name`)
	if err != nil {
		r.log.Error("failed to list problem types", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*models.ProblemType, 0)
	for rows.Next() {
		var pt models.ProblemType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.Description); err != nil {
			return nil, err
		}
		list = append(list, &pt)
	}
	return list, rows.Err()
}

func (r *problemTypeRepo) Upsert(ctx context.Context, pt *models.ProblemType) error {
	id := pt.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
		INSERT INTO problem_types (id, name, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, id, pt.Name, pt.Description); err != nil {
		r.log.Error("failed to upsert problem type", logger.String("name", pt.Name), logger.Error(err))
		return err
	}
	return nil
}
