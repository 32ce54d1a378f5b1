package service

import (
	"context"

	"roadside/pkg/lifecycle"
	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/storage"
)

// RecentRequests is how many of the newest requests a report carries.
const RecentRequests = 5

type ReportService interface {
	Summary(ctx context.Context, actor models.Actor) (*models.Report, error)
}

type reportService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewReportService(stg storage.IStorage, log logger.ILogger) ReportService {
	return &reportService{stg: stg, log: log}
}

func (s *reportService) Summary(ctx context.Context, actor models.Actor) (*models.Report, error) {
	if err := lifecycle.RequireManager(actor); err != nil {
		return nil, err
	}

	byStatus, err := s.stg.Report().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range models.RequestStatuses {
		if _, ok := byStatus[status]; !ok {
			byStatus[status] = 0
		}
	}
	byProblemType, err := s.stg.Report().CountByProblemType(ctx)
	if err != nil {
		return nil, err
	}
	byMechanic, err := s.stg.Report().CountByMechanic(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.stg.Report().CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.stg.Request().List(ctx, models.RequestFilter{Limit: RecentRequests})
	if err != nil {
		return nil, err
	}

	return &models.Report{
		ByStatus:      byStatus,
		ByProblemType: byProblemType,
		ByMechanic:    byMechanic,
		Mechanics:     byRole[models.RoleMechanic],
		Drivers:       byRole[models.RoleDriver],
		Recent:        recent,
	}, nil
}
