package kvstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestMemory_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v, err := m.CompareAndSwap(ctx, "s1", "cart", 0, []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = m.CompareAndSwap(ctx, "s1", "cart", 0, []byte(`[1]`))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	v, err = m.CompareAndSwap(ctx, "s1", "cart", 1, []byte(`[1]`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	e, err := m.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(e.Value))

	other, err := m.Get(ctx, "s2", "cart")
	require.NoError(t, err)
	assert.Zero(t, other.Version)
}

func TestMemory_DeleteKeepsVersionMonotonic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v, err := m.Set(ctx, "s1", "appliedCoupon", []byte(`{"code":"A"}`))
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, "s1", "appliedCoupon"))

	e, err := m.Get(ctx, "s1", "appliedCoupon")
	require.NoError(t, err)
	assert.Nil(t, e.Value)
	assert.Equal(t, v+1, e.Version)

	_, err = m.CompareAndSwap(ctx, "s1", "appliedCoupon", 0, []byte(`{"code":"B"}`))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	// A writer holding the version from before the delete cannot win after a re-set.
	_, err = m.Set(ctx, "s1", "appliedCoupon", []byte(`{"code":"C"}`))
	require.NoError(t, err)
	_, err = m.CompareAndSwap(ctx, "s1", "appliedCoupon", v, []byte(`{"code":"stale"}`))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	got, err := GetJSON[map[string]string](ctx, m, "s1", "appliedCoupon")
	require.NoError(t, err)
	assert.Equal(t, "C", got["code"])
}

func TestUpdateJSON_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const workers = 4
	const perWorker = 25
	var wg sync.WaitGroup
	var failures int
	var mu sync.Mutex
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				for {
					_, err := UpdateJSON(ctx, m, "s1", "counter", func(n int) (int, error) { return n + 1, nil })
					if err == nil {
						break
					}
					if !errors.Is(err, domain.ErrVersionConflict) {
						mu.Lock()
						failures++
						mu.Unlock()
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	require.Zero(t, failures)
	got, err := GetJSON[int](ctx, m, "s1", "counter")
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, got)
}

func TestUpdateJSON_ReducerErrorLeavesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, SetJSON(ctx, m, "s1", "wishlist", []string{"p1"}))

	boom := errors.New("boom")
	_, err := UpdateJSON(ctx, m, "s1", "wishlist", func(cur []string) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := GetJSON[[]string](ctx, m, "s1", "wishlist")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, got)
}

func TestMemory_SubscribeReceivesWrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	ch, cancel := m.Subscribe("s1", "cart")
	defer cancel()

	_, err := m.Set(ctx, "s1", "cart", []byte(`["a"]`))
	require.NoError(t, err)

	select {
	case e := <-ch:
		assert.Equal(t, `["a"]`, string(e.Value))
		assert.Equal(t, int64(1), e.Version)
	case <-time.After(time.Second):
		t.Fatal("expected entry on subscription")
	}

	// writes to other keys are not delivered
	_, err = m.Set(ctx, "s1", "wishlist", []byte(`[]`))
	require.NoError(t, err)
	select {
	case e := <-ch:
		t.Fatalf("unexpected entry %+v", e)
	default:
	}
}

func TestMemory_SubscriberKeepsLatestOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	ch, cancel := m.Subscribe("s1", "cart")

	for i := 0; i < 3; i++ {
		_, err := m.Set(ctx, "s1", "cart", []byte(`[]`))
		require.NoError(t, err)
	}
	e := <-ch
	assert.Equal(t, int64(3), e.Version)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
}
