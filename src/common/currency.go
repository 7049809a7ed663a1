package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voyagemate/src/lib"
	"voyagemate/src/logger"
	"voyagemate/src/types"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type Conversion struct {
	Result float64 `json:"result"`
	Rate   float64 `json:"rate"`
}

// CurrencyConverter converts amounts with rates from an open.er-api.com style
// provider. Rate tables are cached per base currency.
type CurrencyConverter struct {
	APIURL   string
	Client   *http.Client
	Cache    lib.Cache
	CacheTTL time.Duration
}

func NewCurrencyConverter(apiURL string, cache lib.Cache, ttl time.Duration) *CurrencyConverter {
	return &CurrencyConverter{
		APIURL:   strings.TrimRight(apiURL, "/"),
		Client:   &http.Client{Timeout: 10 * time.Second},
		Cache:    cache,
		CacheTTL: ttl,
	}
}

func ratesCacheKey(base string) string {
	return "currency_rates_" + base
}

// Rates returns the rate table for base, from cache when possible.
func (c *CurrencyConverter) Rates(ctx context.Context, base string) (map[string]float64, error) {
	if c.Cache != nil {
		var cached map[string]float64
		err := c.Cache.Get(ctx, ratesCacheKey(base), &cached)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
		if err != nil && !errors.Is(err, lib.ErrCacheMiss) {
			logger.L.Warn("currency cache read failed", zap.String("base", base), zap.Error(err))
		}
	}
	rates, err := c.fetchRates(ctx, base)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil && c.CacheTTL > 0 {
		if err := c.Cache.Set(ctx, ratesCacheKey(base), rates, c.CacheTTL); err != nil {
			logger.L.Warn("currency cache write failed", zap.String("base", base), zap.Error(err))
		}
	}
	return rates, nil
}

func (c *CurrencyConverter) fetchRates(ctx context.Context, base string) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.APIURL, base), nil)
	if err != nil {
		return nil, err
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		logger.L.Error("currency provider unreachable", zap.String("base", base), zap.Error(err))
		return nil, fmt.Errorf("%w: Conversion failed (rate API unavailable)", ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.L.Error("currency provider error", zap.String("base", base), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: Conversion failed (rate API unavailable)", ErrUpstreamUnavailable)
	}
	if gjson.GetBytes(body, "result").String() != "success" {
		return nil, unprocessable("Conversion failed (unsupported base currency)")
	}
	rates := map[string]float64{}
	gjson.GetBytes(body, "rates").ForEach(func(code, rate gjson.Result) bool {
		rates[strings.ToUpper(code.String())] = rate.Float()
		return true
	})
	return rates, nil
}

// Convert converts amount from one currency to another. Identical codes
// short circuit with rate 1 and never reach the provider.
func (c *CurrencyConverter) Convert(ctx context.Context, body *types.ConvertCurrencyRequestBody) (*Conversion, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	amount := *body.Amount
	from := types.NormalizeCurrency(body.From)
	to := types.NormalizeCurrency(body.To)
	if from == to {
		return &Conversion{Result: amount, Rate: 1}, nil
	}
	rates, err := c.Rates(ctx, from)
	if err != nil {
		return nil, err
	}
	rate, ok := rates[to]
	if !ok || rate <= 0 {
		return nil, unprocessable("Conversion failed (unsupported target currency)")
	}
	return &Conversion{Result: amount * rate, Rate: rate}, nil
}

// Prefetch warms the cache for the given bases. Failures are logged.
func (c *CurrencyConverter) Prefetch(ctx context.Context, bases []string) {
	for _, base := range bases {
		rates, err := c.fetchRates(ctx, base)
		if err != nil {
			logger.L.Warn("currency prefetch failed", zap.String("base", base), zap.Error(err))
			continue
		}
		if c.Cache == nil {
			continue
		}
		if err := c.Cache.Set(ctx, ratesCacheKey(base), rates, c.CacheTTL); err != nil {
			logger.L.Warn("currency prefetch cache write failed", zap.String("base", base), zap.Error(err))
		}
	}
}
