package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roadside/pkg/apperr"
	"roadside/pkg/lifecycle"
	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/pkg/notify"
	"roadside/storage"
)

type RequestService interface {
	Create(ctx context.Context, actor models.Actor, in models.NewAssistanceRequest) (*models.AssistanceRequest, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.AssistanceRequest, error)
	List(ctx context.Context, actor models.Actor, status models.RequestStatus) ([]*models.AssistanceRequest, error)
	// Assign binds mechanicID to the request. A mechanic may leave
	// mechanicID empty to assign itself.
	Assign(ctx context.Context, actor models.Actor, id, mechanicID string) (*models.AssistanceRequest, error)
	Transition(ctx context.Context, actor models.Actor, id string, to models.RequestStatus) (*models.AssistanceRequest, error)
	Perform(ctx context.Context, actor models.Actor, id string, action lifecycle.Action) (*models.AssistanceRequest, error)
	Patch(ctx context.Context, actor models.Actor, id string, in models.RequestPatch) (*models.AssistanceRequest, error)
	ProblemTypes(ctx context.Context) ([]*models.ProblemType, error)
}

type requestService struct {
	stg    storage.IStorage
	events *eventSink
	log    logger.ILogger
	now    func() time.Time
}

func NewRequestService(stg storage.IStorage, pub notify.Publisher, log logger.ILogger, now func() time.Time) RequestService {
	return &requestService{
		stg:    stg,
		events: &eventSink{pub: pub, log: log},
		log:    log,
		now:    now,
	}
}

func (s *requestService) Create(ctx context.Context, actor models.Actor, in models.NewAssistanceRequest) (*models.AssistanceRequest, error) {
	if err := lifecycle.CanCreate(actor); err != nil {
		return nil, err
	}
	in, err := validateNewRequest(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.stg.Request().Create(ctx, &models.AssistanceRequest{
		ID:          uuid.NewString(),
		ProblemType: in.ProblemType,
		Description: in.Description,
		Location:    in.Location,
		Status:      models.StatusPending,
		DriverID:    actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("assistance request created",
		logger.String("request_id", created.ID),
		logger.String("driver_id", actor.ID),
		logger.String("problem_type", created.ProblemType),
	)
	s.events.emit(ctx, notify.RequestEvent(created, actor, now))

	return s.stg.Request().GetByID(ctx, created.ID)
}

func (s *requestService) Get(ctx context.Context, actor models.Actor, id string) (*models.AssistanceRequest, error) {
	req, err := s.stg.Request().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanView(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context, actor models.Actor, status models.RequestStatus) ([]*models.AssistanceRequest, error) {
	filter, err := lifecycle.VisibleFilter(actor, status)
	if err != nil {
		return nil, err
	}
	return s.stg.Request().List(ctx, filter)
}

func (s *requestService) Assign(ctx context.Context, actor models.Actor, id, mechanicID string) (*models.AssistanceRequest, error) {
	if mechanicID == "" && actor.Role == models.RoleMechanic {
		mechanicID = actor.ID
	}
	if err := lifecycle.CanAssign(actor, mechanicID); err != nil {
		return nil, err
	}
	if mechanicID == "" {
		return nil, apperr.Validation("mechanicId", "is required")
	}

	var (
		updated *models.AssistanceRequest
		now     = s.now()
	)
	err := s.stg.Tx(ctx, func(tx storage.IStorage) error {
		req, err := tx.Request().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		mechanic, err := tx.User().GetForUpdate(ctx, mechanicID)
		if err != nil {
			return err
		}

		out, err := lifecycle.Assign(actor, req, mechanic)
		if err != nil {
			return err
		}
		out.Apply(req, now)

		if err := tx.Request().UpdateLifecycle(ctx, req); err != nil {
			return err
		}
		if err := tx.User().UpdateStatus(ctx, mechanic.ID, models.MechanicBusy); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("assistance request assigned",
		logger.String("request_id", id),
		logger.String("mechanic_id", mechanicID),
		logger.String("actor_id", actor.ID),
	)
	s.events.emit(ctx, notify.RequestEvent(updated, actor, now))

	return s.stg.Request().GetByID(ctx, id)
}

func (s *requestService) Transition(ctx context.Context, actor models.Actor, id string, to models.RequestStatus) (*models.AssistanceRequest, error) {
	var (
		updated *models.AssistanceRequest
		out     lifecycle.Outcome
		now     = s.now()
	)
	err := s.stg.Tx(ctx, func(tx storage.IStorage) error {
		req, err := tx.Request().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		out, err = lifecycle.Advance(actor, req, to)
		if err != nil {
			return err
		}
		out.Apply(req, now)

		if err := tx.Request().UpdateLifecycle(ctx, req); err != nil {
			return err
		}
		if out.Mechanic == lifecycle.MechanicRelease {
			if err := release(ctx, tx, out.MechanicID); err != nil {
				return err
			}
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("assistance request status changed",
		logger.String("request_id", id),
		logger.String("from", string(out.From)),
		logger.String("to", string(out.To)),
		logger.String("mechanic", out.Mechanic.String()),
		logger.String("actor_id", actor.ID),
	)
	s.events.emit(ctx, notify.RequestEvent(updated, actor, now))

	return s.stg.Request().GetByID(ctx, id)
}

// release frees a mechanic that let go of a request, unless it still holds
// other active ones. The caller must already have written the request.
func release(ctx context.Context, tx storage.IStorage, mechanicID string) error {
	if _, err := tx.User().GetForUpdate(ctx, mechanicID); err != nil {
		return err
	}
	remaining, err := tx.Request().CountActiveByMechanic(ctx, mechanicID)
	if err != nil {
		return err
	}
	return tx.User().UpdateStatus(ctx, mechanicID, lifecycle.StatusAfterRelease(remaining))
}

func (s *requestService) Perform(ctx context.Context, actor models.Actor, id string, action lifecycle.Action) (*models.AssistanceRequest, error) {
	to, err := action.Target()
	if err != nil {
		return nil, err
	}
	return s.Transition(ctx, actor, id, to)
}

func (s *requestService) Patch(ctx context.Context, actor models.Actor, id string, in models.RequestPatch) (*models.AssistanceRequest, error) {
	switch in.Action {
	case "assign":
		return s.Assign(ctx, actor, id, in.MechanicID)
	case "update", "":
		if in.Status == "" {
			return nil, apperr.Validation("status", "is required")
		}
		return s.Transition(ctx, actor, id, in.Status)
	default:
		return nil, apperr.Validation("action", "%q is not supported", in.Action)
	}
}

func (s *requestService) ProblemTypes(ctx context.Context) ([]*models.ProblemType, error) {
	list, err := s.stg.ProblemType().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load problem types: %w", err)
	}
	return list, nil
}
