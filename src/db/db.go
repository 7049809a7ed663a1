package db

import (
	"voyagemate/src/config"
	"voyagemate/src/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.L.Error("error connecting to database", zap.Error(err))
		panic(err)
	}
	if err := UseReplica(_db, config.Get().Database.ReplicaDSN); err != nil {
		logger.L.Error("error registering read replica", zap.Error(err))
	}
	sqlDB, err := _db.DB()
	if err != nil {
		logger.L.Fatal("error establishing connection to database", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

// UseReplica routes reads to the replica at dsn. Writes and transactions stay
// on the primary. An empty dsn is a no-op.
func UseReplica(g *gorm.DB, dsn string) error {
	if dsn == "" {
		return nil
	}
	return g.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{postgres.Open(dsn)},
		Policy:   dbresolver.RandomPolicy{},
	}))
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
