package boot

import (
	"context"
	"time"

	"voyagemate/src/common"
	"voyagemate/src/config"
	"voyagemate/src/controllers"
	"voyagemate/src/db"
	"voyagemate/src/lib"
	"voyagemate/src/lib/mailer"
	"voyagemate/src/lib/storage"
	"voyagemate/src/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	currencyPrefetchJob = "currency-prefetch"
	cachePrefix         = "voyagemate:"
)

func InitDb() *gorm.DB {
	g := db.GetDb()
	if err := db.Migrate(g); err != nil {
		logger.L.Fatal("error migration", zap.Error(err))
	}
	return g
}

// InitServices builds the storage, mail and provider clients the
// controllers depend on.
func InitServices(ctx context.Context, c *config.Config) (controllers.Services, error) {
	store, err := storage.New(ctx, c)
	if err != nil {
		return controllers.Services{}, err
	}
	m, err := mailer.New(c)
	if err != nil {
		return controllers.Services{}, err
	}
	var cache lib.Cache
	if rd := lib.GetRedisClient(); rd != nil {
		cache = lib.NewRedisCache(rd, cachePrefix)
	}
	s := controllers.Services{
		Storage: store,
		Notifier: &common.MailNotifier{
			DB:       db.GetDb(),
			Mailer:   m,
			From:     c.Mail.From,
			FromName: c.Mail.FromName,
			Async:    true,
		},
		Currency: common.NewCurrencyConverter(c.Currency.APIURL, cache, c.Currency.CacheTTL),
		Weather:  common.NewWeatherService(c.OpenWeather.APIKey, c.OpenWeather.APIURL, cache),
		Now:      time.Now,
	}
	logger.L.Info("services ready", zap.String("storage", store.Name()), zap.String("mail", c.Mail.Driver))
	return s, nil
}

// InitScheduler keeps the configured currency rate tables warm. Nothing is
// scheduled when no base currencies are configured.
func InitScheduler(c *config.Config, currency *common.CurrencyConverter) {
	bases := c.CurrencyPrefetch()
	if len(bases) == 0 || currency == nil {
		return
	}
	every := c.Currency.CacheTTL
	if every <= 0 {
		every = 10 * time.Minute
	}
	_, err := lib.CreateCronJob(currencyPrefetchJob, every, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		currency.Prefetch(ctx, bases)
	})
	if err != nil {
		logger.L.Error("error scheduling currency prefetch", zap.Error(err))
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		logger.L.Error("error retrieving scheduler", zap.Error(err))
		return
	}
	if err := sched.Shutdown(); err != nil {
		logger.L.Error("error stopping scheduler", zap.Error(err))
	}
}
