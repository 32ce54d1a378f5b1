// Package memory is an in-process IStorage used by tests and by
// STORAGE_DRIVER=memory. A single mutex guards all data; Tx holds it for
// the whole callback and restores a snapshot when the callback fails.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"roadside/pkg/models"
	"roadside/storage"
)

type state struct {
	users        map[string]*models.User
	requests     map[string]*models.AssistanceRequest
	order        []string
	problemTypes []*models.ProblemType
}

func newState() *state {
	st := &state{
		users:    make(map[string]*models.User),
		requests: make(map[string]*models.AssistanceRequest),
	}
	for _, pt := range models.DefaultProblemTypes {
		pt := pt
		pt.ID = uuid.NewString()
		st.problemTypes = append(st.problemTypes, &pt)
	}
	return st
}

func (st *state) clone() *state {
	c := &state{
		users:        make(map[string]*models.User, len(st.users)),
		requests:     make(map[string]*models.AssistanceRequest, len(st.requests)),
		order:        append([]string(nil), st.order...),
		problemTypes: make([]*models.ProblemType, 0, len(st.problemTypes)),
	}
	for id, u := range st.users {
		c.users[id] = copyUser(u)
	}
	for id, r := range st.requests {
		c.requests[id] = copyRequest(r)
	}
	for _, pt := range st.problemTypes {
		pt := *pt
		c.problemTypes = append(c.problemTypes, &pt)
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// conn is what repositories hold. Outside a Tx every call takes the lock;
// inside one the lock is already held by Tx.
type conn struct {
	store *Store
	inTx  bool
}

func (c *conn) lock() func() {
	if c.inTx {
		return func() {}
	}
	c.store.mu.Lock()
	return c.store.mu.Unlock
}

func (c *conn) state() *state {
	return c.store.st
}

func (s *Store) User() storage.IUserStorage               { return &userRepo{c: &conn{store: s}} }
func (s *Store) Request() storage.IRequestStorage         { return &requestRepo{c: &conn{store: s}} }
func (s *Store) ProblemType() storage.IProblemTypeStorage { return &problemTypeRepo{c: &conn{store: s}} }
func (s *Store) Report() storage.IReportStorage           { return &reportRepo{c: &conn{store: s}} }

func (s *Store) Tx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&txStore{store: s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.users = make(map[string]*models.User)
	s.st.requests = make(map[string]*models.AssistanceRequest)
	s.st.order = nil
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

type txStore struct {
	store *Store
}

func (t *txStore) conn() *conn { return &conn{store: t.store, inTx: true} }

func (t *txStore) User() storage.IUserStorage               { return &userRepo{c: t.conn()} }
func (t *txStore) Request() storage.IRequestStorage         { return &requestRepo{c: t.conn()} }
func (t *txStore) ProblemType() storage.IProblemTypeStorage { return &problemTypeRepo{c: t.conn()} }
func (t *txStore) Report() storage.IReportStorage           { return &reportRepo{c: t.conn()} }

func (t *txStore) Tx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	return fn(t)
}

func (t *txStore) Reset(ctx context.Context) error {
	st := t.store.st
	st.users = make(map[string]*models.User)
	st.requests = make(map[string]*models.AssistanceRequest)
	st.order = nil
	return nil
}

func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) Close()                         {}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyRequest(r *models.AssistanceRequest) *models.AssistanceRequest {
	c := *r
	if r.MechanicID != nil {
		id := *r.MechanicID
		c.MechanicID = &id
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		c.CompletedAt = &at
	}
	c.Driver = nil
	c.Mechanic = nil
	return &c
}
