package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/internal/db/dbtest"
	"storefront/internal/domain"
)

func TestListen_InvalidatesOnTableWrite(t *testing.T) {
	pool := dbtest.Pool(t)
	c, err := NewCatalog(0, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Listen(ctx, pool, nil) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	missing := func() bool {
		_, ok := c.Materials()
		return !ok
	}

	// Listen invalidates once it is subscribed.
	require.Eventually(t, func() bool { return c.Generation() > 0 }, 5*time.Second, 20*time.Millisecond)

	c.SetMaterials(c.Generation(), []domain.Material{{ID: "old"}})
	_, err = pool.Exec(context.Background(), `INSERT INTO candle_materials (name, price, category) VALUES ('Hemp Wick', 60, 'wick')`)
	require.NoError(t, err)
	require.Eventually(t, missing, 5*time.Second, 20*time.Millisecond)
}
