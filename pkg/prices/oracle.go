// Package prices fetches and caches USD prices for the supported token set and
// provides USD↔token conversion helpers.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/n1protocol/portal/internal/metrics"
	"github.com/n1protocol/portal/pkg/catalog"
)

const (
	defaultTTL     = 60 * time.Second
	defaultTimeout = 10 * time.Second
	defaultBaseURL = "https://api.coingecko.com/api/v3"
)

// snapshot is one cached price set. Ephemeral, superseded once stale.
type snapshot struct {
	prices     map[string]decimal.Decimal
	capturedAt time.Time
}

// Oracle fetches USD prices for the supported symbols from an external price
// service and caches the result for a bounded interval. One Oracle per process;
// concurrent callers racing past a stale-cache check may each trigger a
// redundant fetch, and the last writer to the cache wins.
type Oracle struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
	logger     *zap.Logger

	mu    sync.RWMutex
	cache *snapshot
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithBaseURL overrides the price service base URL.
func WithBaseURL(u string) Option {
	return func(o *Oracle) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client. The client's timeout bounds every
// fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Oracle) { o.httpClient = c }
}

// WithTTL overrides the cache freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(o *Oracle) { o.ttl = ttl }
}

// NewOracle creates a price oracle.
func NewOracle(logger *zap.Logger, opts ...Option) *Oracle {
	o := &Oracle{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		ttl:        defaultTTL,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Prices returns USD prices keyed by token symbol. A cached snapshot younger
// than the TTL is served without network access. On fetch failure the fallback
// price set is returned (stablecoins at 1, volatile symbols at 0) and the cache
// is left untouched; callers must treat a zero price as unknown.
func (o *Oracle) Prices(ctx context.Context) map[string]decimal.Decimal {
	o.mu.RLock()
	cached := o.cache
	o.mu.RUnlock()

	if cached != nil && time.Since(cached.capturedAt) < o.ttl {
		metrics.PriceCacheHits.Inc()
		return clonePrices(cached.prices)
	}
	metrics.PriceCacheMisses.Inc()

	fetched, err := o.fetch(ctx)
	if err != nil {
		metrics.PriceFetches.WithLabelValues("error").Inc()
		o.logger.Warn("price fetch failed, serving fallback prices", zap.Error(err))
		return fallbackPrices()
	}
	metrics.PriceFetches.WithLabelValues("ok").Inc()

	// Timestamped at fetch completion, not request start.
	snap := &snapshot{prices: fetched, capturedAt: time.Now()}
	o.mu.Lock()
	o.cache = snap
	o.mu.Unlock()

	return clonePrices(fetched)
}

// providerResponse is the price service's wire format: {assetId: {"usd": n}}.
type providerResponse map[string]struct {
	USD float64 `json:"usd"`
}

func (o *Oracle) fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(catalog.Symbols))
	for _, symbol := range catalog.Symbols {
		id, ok := catalog.ProviderID(symbol)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}

	reqURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		o.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read price response: %w", err)
	}

	var parsed providerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode price response: %w", err)
	}

	// Map provider ids back to symbols; ids missing from the response resolve
	// to the fallback value for that symbol.
	out := fallbackPrices()
	for id, entry := range parsed {
		symbol, ok := catalog.SymbolForProviderID(id)
		if !ok {
			continue
		}
		out[symbol] = decimal.NewFromFloat(entry.USD)
	}
	return out, nil
}

// fallbackPrices is the soft-failure price set: USD-pegged symbols default to
// 1, volatile symbols to 0 ("unknown, do not compute a ratio").
func fallbackPrices() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(catalog.Symbols))
	for _, symbol := range catalog.Symbols {
		if catalog.IsStablecoin(symbol) {
			out[symbol] = decimal.NewFromInt(1)
		} else {
			out[symbol] = decimal.Zero
		}
	}
	return out
}

func clonePrices(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
