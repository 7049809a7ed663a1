package common

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"voyagemate/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owmResponse = `{
  "name": "Lisbon",
  "sys": {"country": "PT"},
  "main": {"temp": 21.6, "feels_like": 20.4, "temp_min": 19.5, "temp_max": 23.49, "humidity": 60, "pressure": 1015},
  "weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
  "wind": {"speed": 4.16},
  "clouds": {"all": 40},
  "visibility": 10000
}`

type lastQuery struct {
	v atomic.Pointer[url.Values]
}

func (q *lastQuery) Get(key string) string {
	v := q.v.Load()
	if v == nil {
		return ""
	}
	return v.Get(key)
}

func weatherServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32, *lastQuery) {
	t.Helper()
	var calls atomic.Int32
	last := &lastQuery{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		last.v.Store(&q)
		w.WriteHeader(status)
		fmt.Fprint(w, owmResponse)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, last
}

func TestWeatherWithoutKeyServesDemo(t *testing.T) {
	srv, calls, _ := weatherServer(t, http.StatusOK)
	cache := newMemCache()
	s := NewWeatherService("", srv.URL, cache).WithSeed(7)

	w := s.ByLocation(context.Background(), "Lisbon", "PT")
	assert.True(t, w.IsDemo)
	assert.Equal(t, "Lisbon", w.Location)
	assert.GreaterOrEqual(t, w.Temperature, 15)
	assert.LessOrEqual(t, w.Temperature, 35)
	assert.Equal(t, w.Temperature-1, w.FeelsLike)
	assert.Contains(t, demoConditions, w.Condition)
	assert.Zero(t, calls.Load())
	assert.Empty(t, cache.values)

	c := s.ByCoordinates(context.Background(), 38.72, -9.14)
	assert.True(t, c.IsDemo)
	assert.Equal(t, "Location (38.72, -9.14)", c.Location)
}

func TestWeatherDemoIsReproducibleWithSeed(t *testing.T) {
	a := NewWeatherService("", "", nil).WithSeed(42).ByLocation(context.Background(), "Oslo", "")
	b := NewWeatherService("", "", nil).WithSeed(42).ByLocation(context.Background(), "Oslo", "")
	assert.Equal(t, a, b)
}

func TestWeatherFromProvider(t *testing.T) {
	srv, calls, query := weatherServer(t, http.StatusOK)
	cache := newMemCache()
	s := NewWeatherService("secret", srv.URL, cache)

	w := s.ByLocation(context.Background(), "Lisbon", "PT")
	assert.False(t, w.IsDemo)
	assert.Equal(t, "Lisbon, PT", w.Location)
	assert.Equal(t, 22, w.Temperature)
	assert.Equal(t, 20, w.FeelsLike)
	assert.Equal(t, 20, w.TempMin)
	assert.Equal(t, 23, w.TempMax)
	assert.Equal(t, 60, w.Humidity)
	assert.Equal(t, 1015, w.Pressure)
	assert.Equal(t, "Scattered clouds", w.Description)
	assert.Equal(t, "Clouds", w.Condition)
	assert.Equal(t, 4.2, w.WindSpeed)
	require.NotNil(t, w.Visibility)
	assert.Equal(t, 10.0, *w.Visibility)

	assert.Equal(t, "Lisbon,PT", query.Get("q"))
	assert.Equal(t, "secret", query.Get("appid"))
	assert.Equal(t, "metric", query.Get("units"))

	again := s.ByLocation(context.Background(), "Lisbon", "PT")
	assert.Equal(t, w, again)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, WeatherCacheTTL, cache.ttls["weather_Lisbon,PT"])
}

func TestWeatherProviderFailureIsNotCached(t *testing.T) {
	srv, calls, _ := weatherServer(t, http.StatusUnauthorized)
	cache := newMemCache()
	s := NewWeatherService("bad", srv.URL, cache)

	w := s.ByLocation(context.Background(), "Lisbon", "")
	assert.True(t, w.IsDemo)
	assert.Equal(t, "Lisbon", w.Location)
	assert.Empty(t, cache.values)

	s.ByLocation(context.Background(), "Lisbon", "")
	assert.EqualValues(t, 2, calls.Load())
}

func TestWeatherForDestination(t *testing.T) {
	g := newTestDB(t)
	srv, _, query := weatherServer(t, http.StatusOK)
	s := NewWeatherService("secret", srv.URL, nil)

	withCoords := models.Destination{Name: "Lisbon", Country: "Portugal", Type: "city", Latitude: ptr(38.72), Longitude: ptr(-9.14)}
	withCity := models.Destination{Name: "Algarve", Country: "Portugal", City: ptr("Faro"), Type: "beach"}
	require.NoError(t, g.Create(&withCoords).Error)
	require.NoError(t, g.Create(&withCity).Error)

	_, err := s.ForDestination(context.Background(), g, withCoords.ID)
	require.NoError(t, err)
	assert.Equal(t, "38.72", query.Get("lat"))
	assert.Equal(t, "-9.14", query.Get("lon"))

	_, err = s.ForDestination(context.Background(), g, withCity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Faro,Portugal", query.Get("q"))

	_, err = s.ForDestination(context.Background(), g, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
