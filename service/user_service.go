package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roadside/pkg/apperr"
	"roadside/pkg/auth"
	"roadside/pkg/lifecycle"
	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/pkg/notify"
	"roadside/storage"
)

type UserService interface {
	Profile(ctx context.Context, actor models.Actor) (*models.User, error)
	ListMechanics(ctx context.Context, actor models.Actor) ([]*models.User, error)
	GetMechanic(ctx context.Context, actor models.Actor, id string) (*models.MechanicDetail, error)
	ToggleStatus(ctx context.Context, actor models.Actor, mechanicID string) (*models.User, error)

	// Create and SetRole are administrative and carry no actor; they back
	// the CLI.
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
}

type userService struct {
	stg    storage.IStorage
	events *eventSink
	log    logger.ILogger
	now    func() time.Time
}

func NewUserService(stg storage.IStorage, pub notify.Publisher, log logger.ILogger, now func() time.Time) UserService {
	return &userService{
		stg:    stg,
		events: &eventSink{pub: pub, log: log},
		log:    log,
		now:    now,
	}
}

func (s *userService) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.stg.User().GetByID(ctx, actor.ID)
}

func (s *userService) ListMechanics(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	if err := lifecycle.RequireManager(actor); err != nil {
		return nil, err
	}
	return s.stg.User().ListByRole(ctx, models.RoleMechanic)
}

func (s *userService) GetMechanic(ctx context.Context, actor models.Actor, id string) (*models.MechanicDetail, error) {
	if err := lifecycle.RequireManager(actor); err != nil {
		return nil, err
	}
	mechanic, err := s.stg.User().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mechanic.Role != models.RoleMechanic {
		return nil, fmt.Errorf("mechanic %s: %w", id, apperr.ErrNotFound)
	}
	requests, err := s.stg.Request().List(ctx, models.RequestFilter{MechanicID: id})
	if err != nil {
		return nil, err
	}
	return &models.MechanicDetail{Mechanic: mechanic, Requests: requests}, nil
}

func (s *userService) ToggleStatus(ctx context.Context, actor models.Actor, mechanicID string) (*models.User, error) {
	if err := lifecycle.RequireManager(actor); err != nil {
		return nil, err
	}

	var mechanic *models.User
	err := s.stg.Tx(ctx, func(tx storage.IStorage) error {
		m, err := tx.User().GetForUpdate(ctx, mechanicID)
		if err != nil {
			return err
		}
		active, err := tx.Request().CountActiveByMechanic(ctx, mechanicID)
		if err != nil {
			return err
		}
		status, err := lifecycle.Toggle(actor, m, active)
		if err != nil {
			return err
		}
		if err := tx.User().UpdateStatus(ctx, mechanicID, status); err != nil {
			return err
		}
		m.Status = status
		mechanic = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("mechanic status toggled",
		logger.String("mechanic_id", mechanicID),
		logger.String("status", string(mechanic.Status)),
		logger.String("actor_id", actor.ID),
	)
	s.events.emit(ctx, notify.Event{
		Type:           notify.MechanicStatusChanged,
		MechanicID:     mechanicID,
		MechanicStatus: mechanic.Status,
		ActorID:        actor.ID,
		OccurredAt:     s.now(),
	})
	return mechanic, nil
}

func (s *userService) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	return createUser(ctx, s.stg, s.log, s.now(), in)
}

func createUser(ctx context.Context, stg storage.IStorage, log logger.ILogger, now time.Time, in models.NewUser) (*models.User, error) {
	in, err := validateNewUser(in)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := stg.User().Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       models.MechanicAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	log.Info("user created", logger.String("user_id", user.ID), logger.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", "%q is not a role", role)
	}
	email = normalizeEmail(email)

	var user *models.User
	err := s.stg.Tx(ctx, func(tx storage.IStorage) error {
		found, err := tx.User().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		u, err := tx.User().GetForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}

		if u.Role == models.RoleMechanic && role != models.RoleMechanic {
			active, err := tx.Request().CountActiveByMechanic(ctx, u.ID)
			if err != nil {
				return err
			}
			if active > 0 {
				return fmt.Errorf("%w: mechanic %s holds %d active request(s)", apperr.ErrInvalidTransition, u.Email, active)
			}
		}
		if err := tx.User().UpdateRole(ctx, u.ID, role); err != nil {
			return err
		}
		if role == models.RoleMechanic && u.Role != models.RoleMechanic {
			if err := tx.User().UpdateStatus(ctx, u.ID, models.MechanicAvailable); err != nil {
				return err
			}
			u.Status = models.MechanicAvailable
		}
		u.Role = role
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user role changed", logger.String("user_id", user.ID), logger.String("role", string(role)))
	return user, nil
}
