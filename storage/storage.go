package storage

import (
	"context"

	"roadside/pkg/models"
)

// IStorage is the persistence aggregate. Repositories returned from the
// storage passed to a Tx callback run inside that unit of work.
type IStorage interface {
	User() IUserStorage
	Request() IRequestStorage
	ProblemType() IProblemTypeStorage
	Report() IReportStorage

	// Tx runs fn atomically. If fn returns an error nothing it wrote is
	// kept. Calling Tx on the storage handed to fn runs inline.
	Tx(ctx context.Context, fn func(tx IStorage) error) error

	// Reset deletes every request and user. The problem-type catalog stays.
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}

type IUserStorage interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetForUpdate loads the user and locks it until the end of the
	// surrounding Tx.
	GetForUpdate(ctx context.Context, id string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.MechanicStatus) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
}

type IRequestStorage interface {
	Create(ctx context.Context, req *models.AssistanceRequest) (*models.AssistanceRequest, error)
	// GetByID returns the request with driver and mechanic summaries.
	GetByID(ctx context.Context, id string) (*models.AssistanceRequest, error)
	GetForUpdate(ctx context.Context, id string) (*models.AssistanceRequest, error)
	// List returns matching requests, newest first, with summaries.
	List(ctx context.Context, filter models.RequestFilter) ([]*models.AssistanceRequest, error)
	// UpdateLifecycle persists status, mechanic, updatedAt and completedAt.
	UpdateLifecycle(ctx context.Context, req *models.AssistanceRequest) error
	CountActiveByMechanic(ctx context.Context, mechanicID string) (int, error)
}

type IProblemTypeStorage interface {
	GetAll(ctx context.Context) ([]*models.ProblemType, error)
	// Upsert inserts the problem type unless one with the same name exists.
	Upsert(ctx context.Context, pt *models.ProblemType) error
}

type IReportStorage interface {
	CountByStatus(ctx context.Context) (map[models.RequestStatus]int, error)
	CountByProblemType(ctx context.Context) ([]models.Count, error)
	CountByMechanic(ctx context.Context) ([]models.MechanicCount, error)
	CountUsersByRole(ctx context.Context) (map[models.Role]int, error)
}
