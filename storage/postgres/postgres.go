package postgres

import (
	"context"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadside/config"
	"roadside/migrations"
	"roadside/pkg/logger"
	"roadside/storage"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so repositories
// run unchanged inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	store, err := Connect(ctx, cfg.PostgresURL(), cfg.PostgresAutoMigrate, log)
	if err != nil {
		return nil, err
	}
	log.Info("Postgres connected", logger.String("host", cfg.PostgresHost), logger.String("db", cfg.PostgresDB))
	return store, nil
}

// Connect opens a pool on url and, when migrateUp is set, applies the
// embedded migrations.
func Connect(ctx context.Context, url string, migrateUp bool, log logger.ILogger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		log.Error("failed to ping Postgres", logger.Error(err))
		pool.Close()
		return nil, err
	}

	if migrateUp {
		if err := MigrateUp(url, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

func newMigrator(url string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, url)
}

func MigrateUp(url string, log logger.ILogger) error {
	m, err := newMigrator(url)
	if err != nil {
		log.Error("migration init error", logger.Error(err))
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return err
	}
	log.Info("migrations applied")
	return nil
}

func MigrateDown(url string, log logger.ILogger) error {
	m, err := newMigrator(url)
	if err != nil {
		log.Error("migration init error", logger.Error(err))
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to roll back")
			return nil
		}
		log.Error("migration down error", logger.Error(err))
		return err
	}
	log.Info("migrations rolled back")
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) User() storage.IUserStorage               { return NewUserRepo(s.pool, s.log) }
func (s *Store) Request() storage.IRequestStorage         { return NewRequestRepo(s.pool, s.log) }
func (s *Store) ProblemType() storage.IProblemTypeStorage { return NewProblemTypeRepo(s.pool, s.log) }
func (s *Store) Report() storage.IReportStorage           { return NewReportRepo(s.pool, s.log) }

func (s *Store) Tx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&txStore{tx: tx, log: s.log})
	})
}

func (s *Store) Reset(ctx context.Context) error {
	return reset(ctx, s.pool, s.log)
}

func reset(ctx context.Context, db querier, log logger.ILogger) error {
	if _, err := db.Exec(ctx, `TRUNCATE assistance_requests, users`); err != nil {
		log.Error("failed to reset database", logger.Error(err))
		return err
	}
	return nil
}

type txStore struct {
	tx  pgx.Tx
	log logger.ILogger
}

func (t *txStore) User() storage.IUserStorage               { return NewUserRepo(t.tx, t.log) }
func (t *txStore) Request() storage.IRequestStorage         { return NewRequestRepo(t.tx, t.log) }
func (t *txStore) ProblemType() storage.IProblemTypeStorage { return NewProblemTypeRepo(t.tx, t.log) }
func (t *txStore) Report() storage.IReportStorage           { return NewReportRepo(t.tx, t.log) }

func (t *txStore) Tx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	return fn(t)
}

func (t *txStore) Reset(ctx context.Context) error {
	return reset(ctx, t.tx, t.log)
}

func (t *txStore) Ping(ctx context.Context) error {
	return t.tx.Conn().Ping(ctx)
}

func (t *txStore) Close() {}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
