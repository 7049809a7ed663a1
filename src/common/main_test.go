package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"voyagemate/src/db"
	"voyagemate/src/lib"
	"voyagemate/src/models"
	"voyagemate/src/types"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:common_%d?mode=memory&cache=shared", dbCounter.Add(1))
	g, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(g))
	return g
}

func createUser(t *testing.T, g *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		Name:         faker.Name(),
		Email:        strings.ToLower(faker.Email()),
		PasswordHash: "x",
	}
	require.NoError(t, g.Create(&user).Error)
	return &user
}

func date(s string) *types.DateOnly {
	d, err := types.ParseDateOnly(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func ptr[T any](v T) *T {
	return &v
}

func createTrip(t *testing.T, g *gorm.DB, userID uint, start string, budget float64) *models.Trip {
	t.Helper()
	trip := models.Trip{
		UserID:      userID,
		Title:       faker.Word() + " trip",
		Destination: ptr(faker.Word()),
		Budget:      ptr(budget),
	}
	if start != "" {
		trip.StartDate = date(start)
	}
	require.NoError(t, g.Create(&trip).Error)
	return &trip
}

var fixedNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

// memCache is an in-process lib.Cache that records TTLs.
type memCache struct {
	mu     sync.Mutex
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.values[key]
	if !ok {
		return lib.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
