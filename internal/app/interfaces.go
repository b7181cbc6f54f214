package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/talkincode/pedeai/config"
	"github.com/talkincode/pedeai/internal/cart"
	"github.com/talkincode/pedeai/internal/catalog"
	"github.com/talkincode/pedeai/internal/checkout"
	"github.com/talkincode/pedeai/internal/cms"
	"github.com/talkincode/pedeai/internal/events"
	"github.com/talkincode/pedeai/internal/postal"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// StorefrontProvider provides the storefront services built at startup
type StorefrontProvider interface {
	CartStore() *cart.Store
	Catalog() *catalog.Service
	CmsClient() *cms.Client
	Postal() *postal.Client
	Events() *events.Dispatcher
	Sales() *checkout.Service
	Flows() *checkout.FlowStore
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider
	StorefrontProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
