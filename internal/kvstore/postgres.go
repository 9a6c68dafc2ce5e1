package kvstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

const notifyChannel = "client_state"

// Postgres stores entries in the client_state table. Writes announce the
// changed key with pg_notify so Listen can fan updates out across replicas.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	hub    *hub
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{pool: pool, logger: logger, hub: newHub()}
}

func (p *Postgres) Get(ctx context.Context, namespace, key string) (Entry, error) {
	const q = `
SELECT value, version
FROM client_state
WHERE namespace = $1 AND key = $2
`
	var e Entry
	err := p.pool.QueryRow(ctx, q, namespace, key).Scan(&e.Value, &e.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, nil
		}
		p.logger.Error("client state: get failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return Entry{}, err
	}
	return e, nil
}

func (p *Postgres) Set(ctx context.Context, namespace, key string, value []byte) (int64, error) {
	const q = `
INSERT INTO client_state (namespace, key, value, version)
VALUES ($1, $2, $3, 1)
ON CONFLICT (namespace, key) DO UPDATE
SET value = EXCLUDED.value,
    version = client_state.version + 1,
    updated_at = now()
RETURNING version
`
	var version int64
	if err := p.pool.QueryRow(ctx, q, namespace, key, value).Scan(&version); err != nil {
		p.logger.Error("client state: set failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return 0, err
	}
	p.announce(ctx, namespace, key, Entry{Value: value, Version: version})
	return version, nil
}

func (p *Postgres) CompareAndSwap(ctx context.Context, namespace, key string, expected int64, value []byte) (int64, error) {
	var (
		version int64
		err     error
	)
	if expected == 0 {
		err = p.pool.QueryRow(ctx, `
INSERT INTO client_state (namespace, key, value, version)
VALUES ($1, $2, $3, 1)
ON CONFLICT (namespace, key) DO NOTHING
RETURNING version
`, namespace, key, value).Scan(&version)
	} else {
		err = p.pool.QueryRow(ctx, `
UPDATE client_state
SET value = $4, version = version + 1, updated_at = now()
WHERE namespace = $1 AND key = $2 AND version = $3
RETURNING version
`, namespace, key, expected, value).Scan(&version)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrVersionConflict
		}
		p.logger.Error("client state: cas failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return 0, err
	}
	p.announce(ctx, namespace, key, Entry{Value: value, Version: version})
	return version, nil
}

func (p *Postgres) Delete(ctx context.Context, namespace, key string) error {
	const q = `
UPDATE client_state
SET value = NULL, version = version + 1, updated_at = now()
WHERE namespace = $1 AND key = $2
RETURNING version
`
	var version int64
	if err := p.pool.QueryRow(ctx, q, namespace, key).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		p.logger.Error("client state: delete failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return err
	}
	p.announce(ctx, namespace, key, Entry{Version: version})
	return nil
}

func (p *Postgres) Subscribe(namespace, key string) (<-chan Entry, func()) {
	return p.hub.subscribe(namespace, key)
}

func (p *Postgres) announce(ctx context.Context, namespace, key string, e Entry) {
	p.hub.publish(namespace, key, e)
	if _, err := p.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, topic(namespace, key)); err != nil {
		p.logger.Warn("client state: notify failed", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
	}
}

// Listen relays notifications from other processes to local subscribers until
// ctx is done.
func (p *Postgres) Listen(ctx context.Context) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	p.logger.Info("client state: listening for changes")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		namespace, key, ok := strings.Cut(n.Payload, "/")
		if !ok {
			continue
		}
		entry, err := p.Get(ctx, namespace, key)
		if err != nil {
			continue
		}
		p.hub.publish(namespace, key, entry)
	}
}
