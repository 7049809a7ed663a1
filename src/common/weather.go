package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"voyagemate/src/lib"
	"voyagemate/src/logger"
	"voyagemate/src/models"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const WeatherCacheTTL = time.Hour

var demoConditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Rainy", "Windy"}

type Weather struct {
	Location    string   `json:"location"`
	Temperature int      `json:"temperature"`
	FeelsLike   int      `json:"feels_like"`
	TempMin     int      `json:"temp_min"`
	TempMax     int      `json:"temp_max"`
	Humidity    int      `json:"humidity"`
	Pressure    int      `json:"pressure"`
	Description string   `json:"description"`
	Condition   string   `json:"condition"`
	Icon        string   `json:"icon"`
	WindSpeed   float64  `json:"wind_speed"`
	Clouds      int      `json:"clouds"`
	Visibility  *float64 `json:"visibility"`
	IsDemo      bool     `json:"is_demo"`
}

// WeatherService looks up current conditions from OpenWeather. Without an
// API key, or when the provider fails, it answers with demo data flagged
// is_demo. Only real provider data is cached.
type WeatherService struct {
	APIKey string
	APIURL string
	Client *http.Client
	Cache  lib.Cache

	mu   sync.Mutex
	rand *rand.Rand
}

func NewWeatherService(apiKey, apiURL string, cache lib.Cache) *WeatherService {
	return &WeatherService{
		APIKey: apiKey,
		APIURL: apiURL,
		Client: &http.Client{Timeout: 10 * time.Second},
		Cache:  cache,
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// WithSeed makes demo data reproducible.
func (s *WeatherService) WithSeed(seed uint64) *WeatherService {
	s.rand = rand.New(rand.NewPCG(seed, seed))
	return s
}

func (s *WeatherService) ByLocation(ctx context.Context, city, country string) *Weather {
	if s.APIKey == "" {
		return s.demo(city)
	}
	location := city
	if country != "" {
		location = fmt.Sprintf("%s,%s", city, country)
	}
	q := url.Values{"q": {location}}
	return s.lookup(ctx, "weather_"+location, q, location)
}

func (s *WeatherService) ByCoordinates(ctx context.Context, lat, lon float64) *Weather {
	latS := strconv.FormatFloat(lat, 'f', -1, 64)
	lonS := strconv.FormatFloat(lon, 'f', -1, 64)
	demoLocation := fmt.Sprintf("Location (%s, %s)", latS, lonS)
	if s.APIKey == "" {
		return s.demo(demoLocation)
	}
	q := url.Values{"lat": {latS}, "lon": {lonS}}
	return s.lookup(ctx, fmt.Sprintf("weather_%s_%s", latS, lonS), q, demoLocation)
}

// ForDestination prefers stored coordinates and falls back to city and
// country.
func (s *WeatherService) ForDestination(ctx context.Context, db *gorm.DB, destinationID uint) (*Weather, error) {
	var dest models.Destination
	if err := db.First(&dest, destinationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if dest.HasCoordinates() {
		return s.ByCoordinates(ctx, *dest.Latitude, *dest.Longitude), nil
	}
	city := dest.Name
	if dest.City != nil && *dest.City != "" {
		city = *dest.City
	}
	return s.ByLocation(ctx, city, dest.Country), nil
}

func (s *WeatherService) lookup(ctx context.Context, cacheKey string, q url.Values, demoLocation string) *Weather {
	if s.Cache != nil {
		var cached Weather
		err := s.Cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached
		}
		if !errors.Is(err, lib.ErrCacheMiss) {
			logger.L.Warn("weather cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	w, err := s.fetch(ctx, q)
	if err != nil {
		logger.L.Warn("weather provider failed, serving demo data", zap.String("key", cacheKey), zap.Error(err))
		return s.demo(demoLocation)
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, cacheKey, w, WeatherCacheTTL); err != nil {
			logger.L.Warn("weather cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return w
}

func (s *WeatherService) fetch(ctx context.Context, q url.Values) (*Weather, error) {
	q.Set("appid", s.APIKey)
	q.Set("units", "metric")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.APIURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid response body", ErrUpstreamUnavailable)
	}
	return formatWeather(gjson.ParseBytes(body)), nil
}

func formatWeather(data gjson.Result) *Weather {
	w := &Weather{
		Location:    fmt.Sprintf("%s, %s", data.Get("name").String(), data.Get("sys.country").String()),
		Temperature: roundInt(data.Get("main.temp").Float()),
		FeelsLike:   roundInt(data.Get("main.feels_like").Float()),
		TempMin:     roundInt(data.Get("main.temp_min").Float()),
		TempMax:     roundInt(data.Get("main.temp_max").Float()),
		Humidity:    int(data.Get("main.humidity").Int()),
		Pressure:    int(data.Get("main.pressure").Int()),
		Description: upperFirst(data.Get("weather.0.description").String()),
		Condition:   data.Get("weather.0.main").String(),
		Icon:        data.Get("weather.0.icon").String(),
		WindSpeed:   math.Round(data.Get("wind.speed").Float()*10) / 10,
		Clouds:      int(data.Get("clouds.all").Int()),
	}
	if v := data.Get("visibility"); v.Exists() {
		km := v.Float() / 1000
		w.Visibility = &km
	}
	return w
}

func (s *WeatherService) demo(location string) *Weather {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	condition := demoConditions[s.rand.IntN(len(demoConditions))]
	temp := 15 + s.rand.IntN(21)
	visibility := 10.0
	return &Weather{
		Location:    location,
		Temperature: temp,
		FeelsLike:   temp - 1,
		TempMin:     temp - 2,
		TempMax:     temp + 2,
		Humidity:    40 + s.rand.IntN(41),
		Pressure:    1013,
		Description: condition,
		Condition:   condition,
		Icon:        "01d",
		WindSpeed:   float64(5 + s.rand.IntN(16)),
		Clouds:      s.rand.IntN(101),
		Visibility:  &visibility,
		IsDemo:      true,
	}
}

func roundInt(f float64) int {
	return int(math.Round(f))
}

func upperFirst(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
