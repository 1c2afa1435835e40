package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"partsdesk/api"
	"partsdesk/rdx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backendFixtures = map[string]string{
	"/products/all": `[
		{"id": "p1", "name": "Ryzen 5 7600", "sellingRate": "220.00", "quantity": 12, "status": "Active"},
		{"id": "p2", "name": "B650 Tomahawk", "sellingRate": "180.00", "quantity": 3, "status": "Active"},
		{"id": "p3", "name": "RTX 4070", "sellingRate": "550.00", "quantity": 0, "status": "Active"},
		{"id": "p4", "name": "650W PSU", "sellingRate": "80.00", "quantity": 9, "status": "Out of Stock"}
	]`,
	"/categories/all": `[
		{"id": "c1", "name": "CPU"},
		{"id": "c2", "name": "GPU"}
	]`,
	"/orders/get": `{
		"orders": [
			{"id": "o1", "type": "Order", "totalAmount": "620.50"},
			{"id": "o2", "type": "Order", "totalAmount": "100.00"},
			{"id": "q1", "type": "Quotation", "status": "pending", "totalAmount": "999.99"},
			{"id": "q2", "type": "Quotation", "status": "confirmed", "totalAmount": "10.00"}
		],
		"totalPages": 1
	}`,
}

// countingBackend serves the fixture set and counts fetches so tests can
// tell a cache hit from a recompute.
func countingBackend(t *testing.T, fetches *int64) *api.Client {
	t.Helper()
	routes := backendFixtures
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt64(fetches, 1)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return api.NewClient(server.URL, 2*time.Second)
}

func testCache(t *testing.T, ttl time.Duration) (*rdx.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return rdx.NewCacheWithClient(client, ttl), mr
}

func TestStatsAggregates(t *testing.T) {
	var fetches int64
	svc := NewService(countingBackend(t, &fetches), nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockProducts, "quantity 3 is at or below the threshold")
	assert.Equal(t, 2, stats.OutOfStock, "zero quantity and explicit status both count")
	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 2, stats.TotalQuotations)
	assert.Equal(t, 1, stats.PendingQuotations)
	assert.Equal(t, "720.5", stats.Revenue.String(), "revenue sums orders only, never quotations")
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsServedFromCacheWithinTTL(t *testing.T) {
	var fetches int64
	cache, _ := testCache(t, time.Minute)
	svc := NewService(countingBackend(t, &fetches), cache)

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	firstFetches := atomic.LoadInt64(&fetches)
	require.Equal(t, int64(3), firstFetches, "products, categories, orders")

	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstFetches, atomic.LoadInt64(&fetches), "second read hits the cache")
	assert.Equal(t, first.TotalProducts, second.TotalProducts)
	assert.True(t, first.Revenue.Equal(second.Revenue))
}

func TestStatsRecomputedAfterTTLExpiry(t *testing.T) {
	var fetches int64
	cache, mr := testCache(t, 30*time.Second)
	svc := NewService(countingBackend(t, &fetches), cache)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), atomic.LoadInt64(&fetches), "expiry forces a full refetch")
}

func TestInvalidateForcesRecompute(t *testing.T) {
	var fetches int64
	cache, _ := testCache(t, time.Hour)
	svc := NewService(countingBackend(t, &fetches), cache)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), atomic.LoadInt64(&fetches))
}

func TestCacheFailureFallsThroughToLiveCompute(t *testing.T) {
	var fetches int64
	cache, mr := testCache(t, time.Minute)
	svc := NewService(countingBackend(t, &fetches), cache)

	mr.Close() // every cache call now errors

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err, "a dead cache must not take down the dashboard")
	assert.Equal(t, 4, stats.TotalProducts)
}
