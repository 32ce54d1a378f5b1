package service

import (
	"context"
	"time"

	"roadside/pkg/auth"
	"roadside/pkg/logger"
	"roadside/pkg/notify"
	"roadside/storage"
)

type IServiceManager interface {
	Request() RequestService
	User() UserService
	Auth() AuthService
	Report() ReportService
	// Seed installs the problem-type catalog and the demo accounts. It is
	// idempotent.
	Seed(ctx context.Context) error
}

type Option func(*service)

// WithClock replaces time.Now for every service.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	stg storage.IStorage
	log logger.ILogger
	now func() time.Time

	requestService RequestService
	userService    UserService
	authService    AuthService
	reportService  ReportService
}

func New(stg storage.IStorage, tokens *auth.Tokens, pub notify.Publisher, log logger.ILogger, opts ...Option) IServiceManager {
	s := &service{
		stg: stg,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	s.requestService = NewRequestService(stg, pub, log, s.now)
	s.userService = NewUserService(stg, pub, log, s.now)
	s.authService = NewAuthService(stg, tokens, log, s.now)
	s.reportService = NewReportService(stg, log)
	return s
}

func (s *service) Request() RequestService {
	return s.requestService
}

func (s *service) User() UserService {
	return s.userService
}

func (s *service) Auth() AuthService {
	return s.authService
}

func (s *service) Report() ReportService {
	return s.reportService
}

// eventSink publishes after commit. A failed publish is logged and never
// fails the operation that produced the event.
type eventSink struct {
	pub notify.Publisher
	log logger.ILogger
}

func (e *eventSink) emit(ctx context.Context, ev notify.Event) {
	if e.pub == nil {
		return
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Error("failed to publish event",
			logger.String("type", string(ev.Type)),
			logger.String("request_id", ev.RequestID),
			logger.Error(err),
		)
	}
}
