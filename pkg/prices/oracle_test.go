package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const priceBody = `{
	"ethereum": {"usd": 3500.25},
	"wrapped-bitcoin": {"usd": 97000.5},
	"usd-coin": {"usd": 1.0},
	"tether": {"usd": 0.999},
	"dai": {"usd": 1.001}
}`

func newTestOracle(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Oracle, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
	}, opts...)
	return NewOracle(zap.NewNop(), opts...), srv
}

func TestOracle_FetchMapsProviderIDsToSymbols(t *testing.T) {
	var calls atomic.Int32
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/simple/price", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(priceBody))
	})

	got := oracle.Prices(context.Background())
	require.Equal(t, int32(1), calls.Load())

	assert.True(t, got["ETH"].Equal(decimal.NewFromFloat(3500.25)))
	assert.True(t, got["WBTC"].Equal(decimal.NewFromFloat(97000.5)))
	assert.True(t, got["USDC"].Equal(decimal.NewFromInt(1)))
	assert.True(t, got["USDT"].Equal(decimal.NewFromFloat(0.999)))
	assert.True(t, got["DAI"].Equal(decimal.NewFromFloat(1.001)))
}

func TestOracle_SecondCallWithinTTLHitsCache(t *testing.T) {
	var calls atomic.Int32
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(priceBody))
	})

	first := oracle.Prices(context.Background())
	second := oracle.Prices(context.Background())

	assert.Equal(t, int32(1), calls.Load(), "second call within TTL must not fetch")
	assert.True(t, first["ETH"].Equal(second["ETH"]))
}

func TestOracle_ExpiredCacheRefetches(t *testing.T) {
	var calls atomic.Int32
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(priceBody))
	}, WithTTL(10*time.Millisecond))

	oracle.Prices(context.Background())
	time.Sleep(20 * time.Millisecond)
	oracle.Prices(context.Background())

	assert.Equal(t, int32(2), calls.Load())
}

func TestOracle_FallbackOnServerError(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := oracle.Prices(context.Background())

	assert.True(t, got["USDC"].Equal(decimal.NewFromInt(1)))
	assert.True(t, got["USDT"].Equal(decimal.NewFromInt(1)))
	assert.True(t, got["DAI"].Equal(decimal.NewFromInt(1)))
	assert.True(t, got["ETH"].IsZero())
	assert.True(t, got["WBTC"].IsZero())
}

func TestOracle_FallbackNotCached(t *testing.T) {
	var calls atomic.Int32
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(priceBody))
	})

	first := oracle.Prices(context.Background())
	assert.True(t, first["ETH"].IsZero())

	// A failed fetch must not populate the cache as a fresh snapshot.
	second := oracle.Prices(context.Background())
	assert.Equal(t, int32(2), calls.Load())
	assert.True(t, second["ETH"].Equal(decimal.NewFromFloat(3500.25)))
}

func TestOracle_MissingIDsResolveToFallback(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ethereum": {"usd": 3000}}`))
	})

	got := oracle.Prices(context.Background())

	assert.True(t, got["ETH"].Equal(decimal.NewFromInt(3000)))
	assert.True(t, got["WBTC"].IsZero(), "missing volatile id falls back to 0")
	assert.True(t, got["USDC"].Equal(decimal.NewFromInt(1)), "missing stable id falls back to 1")
}

func TestOracle_MalformedResponseFallsBack(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	got := oracle.Prices(context.Background())
	assert.True(t, got["ETH"].IsZero())
	assert.True(t, got["DAI"].Equal(decimal.NewFromInt(1)))
}

func TestOracle_ReturnedMapIsACopy(t *testing.T) {
	oracle, _ := newTestOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(priceBody))
	})

	first := oracle.Prices(context.Background())
	first["ETH"] = decimal.NewFromInt(-1)

	second := oracle.Prices(context.Background())
	assert.True(t, second["ETH"].Equal(decimal.NewFromFloat(3500.25)))
}
