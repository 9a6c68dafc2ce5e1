package cache

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NotifyChannel is where triggers on the candle tables announce writes. The
// payload is the table name.
const NotifyChannel = "candle_catalog"

const rulesTable = "candle_compatibility_rules"

// Listen invalidates c whenever any process, such as another API replica, the
// importer or the seeder, writes candle materials or rules. It returns when
// ctx is done or the connection fails.
func (c *Catalog) Listen(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return err
	}
	// Writes made before LISTEN took effect were never announced.
	c.InvalidateMaterials()
	logger.Info("catalog cache: listening for changes")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c.Invalidate(n.Payload)
		logger.Debug("catalog cache: invalidated", zap.String("table", n.Payload))
	}
}

// Invalidate drops what a write to table made stale.
func (c *Catalog) Invalidate(table string) {
	if table == rulesTable {
		c.InvalidateRules()
		return
	}
	c.InvalidateMaterials()
}
