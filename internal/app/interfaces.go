package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/personal-ufcg-projects/compia-bookstore-api/config"
	"github.com/personal-ufcg-projects/compia-bookstore-api/internal/fulfillment"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// EngineProvider provides the fulfillment engine, the sole stock writer
type EngineProvider interface {
	Engine() *fulfillment.Engine
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	EngineProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
