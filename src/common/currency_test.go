package common

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"voyagemate/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdRates = `{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.9,"JPY":150.25,"XXX":0}}`

func rateServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestConvertSameCurrencySkipsProvider(t *testing.T) {
	srv, calls := rateServer(t, http.StatusOK, usdRates)
	c := NewCurrencyConverter(srv.URL, nil, 0)

	res, err := c.Convert(context.Background(), &types.ConvertCurrencyRequestBody{From: "usd", To: "USD", Amount: ptr(42.5)})
	require.NoError(t, err)
	assert.Equal(t, &Conversion{Result: 42.5, Rate: 1}, res)
	assert.Zero(t, calls.Load())
}

func TestConvert(t *testing.T) {
	var path atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		fmt.Fprint(w, usdRates)
	}))
	defer srv.Close()
	c := NewCurrencyConverter(srv.URL+"/", nil, 0)

	res, err := c.Convert(context.Background(), &types.ConvertCurrencyRequestBody{From: "USD", To: "jpy", Amount: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, "/USD", path.Load())
	assert.Equal(t, 150.25, res.Rate)
	assert.InDelta(t, 1502.5, res.Result, 1e-9)
}

func TestConvertValidation(t *testing.T) {
	c := NewCurrencyConverter("http://127.0.0.1:1", nil, 0)
	for _, body := range []types.ConvertCurrencyRequestBody{
		{From: "US", To: "EUR", Amount: ptr(1.0)},
		{From: "USD", To: "EU1", Amount: ptr(1.0)},
		{From: "USD", To: "EUR", Amount: ptr(-1.0)},
		{From: "USD", To: "USD"},
	} {
		_, err := c.Convert(context.Background(), &body)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "%+v", body)
	}
}

func TestConvertProviderFailures(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv, _ := rateServer(t, http.StatusBadGateway, `oops`)
		_, err := NewCurrencyConverter(srv.URL, nil, 0).Convert(context.Background(),
			&types.ConvertCurrencyRequestBody{From: "USD", To: "EUR", Amount: ptr(1.0)})
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
		assert.Equal(t, "Conversion failed (rate API unavailable)", PublicMessage(err))
	})
	t.Run("unreachable", func(t *testing.T) {
		srv, _ := rateServer(t, http.StatusOK, usdRates)
		srv.Close()
		_, err := NewCurrencyConverter(srv.URL, nil, 0).Convert(context.Background(),
			&types.ConvertCurrencyRequestBody{From: "USD", To: "EUR", Amount: ptr(1.0)})
		assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	})
	t.Run("unsupported base", func(t *testing.T) {
		srv, _ := rateServer(t, http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`)
		_, err := NewCurrencyConverter(srv.URL, nil, 0).Convert(context.Background(),
			&types.ConvertCurrencyRequestBody{From: "ABC", To: "EUR", Amount: ptr(1.0)})
		require.ErrorIs(t, err, ErrUnprocessable)
		assert.Equal(t, "Conversion failed (unsupported base currency)", PublicMessage(err))
	})
	t.Run("unsupported target", func(t *testing.T) {
		srv, _ := rateServer(t, http.StatusOK, usdRates)
		c := NewCurrencyConverter(srv.URL, nil, 0)
		for _, to := range []string{"ABC", "XXX"} {
			_, err := c.Convert(context.Background(), &types.ConvertCurrencyRequestBody{From: "USD", To: to, Amount: ptr(1.0)})
			require.ErrorIs(t, err, ErrUnprocessable)
			assert.Equal(t, "Conversion failed (unsupported target currency)", PublicMessage(err))
		}
	})
}

func TestRatesAreCached(t *testing.T) {
	srv, calls := rateServer(t, http.StatusOK, usdRates)
	cache := newMemCache()
	c := NewCurrencyConverter(srv.URL, cache, 10*time.Minute)

	for i := 0; i < 3; i++ {
		res, err := c.Convert(context.Background(), &types.ConvertCurrencyRequestBody{From: "USD", To: "EUR", Amount: ptr(100.0)})
		require.NoError(t, err)
		assert.InDelta(t, 90, res.Result, 1e-9)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 10*time.Minute, cache.ttls["currency_rates_USD"])
}

func TestPrefetchWarmsCache(t *testing.T) {
	srv, calls := rateServer(t, http.StatusOK, usdRates)
	cache := newMemCache()
	c := NewCurrencyConverter(srv.URL, cache, time.Minute)

	c.Prefetch(context.Background(), []string{"USD", "EUR"})
	assert.EqualValues(t, 2, calls.Load())
	assert.True(t, cache.has("currency_rates_USD"))
	assert.True(t, cache.has("currency_rates_EUR"))

	_, err := c.Convert(context.Background(), &types.ConvertCurrencyRequestBody{From: "USD", To: "EUR", Amount: ptr(1.0)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}
