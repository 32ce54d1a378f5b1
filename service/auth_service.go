package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roadside/pkg/apperr"
	"roadside/pkg/auth"
	"roadside/pkg/logger"
	"roadside/pkg/models"
	"roadside/storage"
)

type AuthService interface {
	// Register creates a DRIVER account. Other roles are granted through
	// the CLI.
	Register(ctx context.Context, in models.NewUser) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.User, string, error)
	// Authenticate resolves a session token to the caller as currently
	// stored, so role changes apply to existing sessions.
	Authenticate(ctx context.Context, token string) (models.Actor, error)
	SessionTTL() time.Duration
}

type authService struct {
	stg    storage.IStorage
	tokens *auth.Tokens
	log    logger.ILogger
	now    func() time.Time
}

func NewAuthService(stg storage.IStorage, tokens *auth.Tokens, log logger.ILogger, now func() time.Time) AuthService {
	return &authService{
		stg:    stg,
		tokens: tokens,
		log:    log,
		now:    now,
	}
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthenticated)

func (s *authService) Register(ctx context.Context, in models.NewUser) (*models.User, error) {
	in.Role = models.RoleDriver
	return createUser(ctx, s.stg, s.log, s.now(), in)
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, string, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, "", errBadCredentials
	}

	user, err := s.stg.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", errBadCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		s.log.Warning("login with wrong password", logger.String("user_id", user.ID))
		return nil, "", errBadCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	claimed, err := s.tokens.Parse(token)
	if err != nil {
		return models.Actor{}, err
	}
	user, err := s.stg.User().GetByID(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.Actor{}, fmt.Errorf("%w: account no longer exists", apperr.ErrUnauthenticated)
		}
		return models.Actor{}, err
	}
	return user.Actor(), nil
}

func (s *authService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}
