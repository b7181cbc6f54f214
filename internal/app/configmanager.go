package app

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/pedeai/internal/domain"
	"github.com/talkincode/pedeai/pkg/common"
)

const configCacheTTL = 30 * time.Second

// ConfigManager reads runtime settings from the sys_config table with a
// short-lived in-memory cache. Values are coerced with cast so callers
// never deal with raw strings.
type ConfigManager struct {
	app      *Application
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

func NewConfigManager(a *Application) *ConfigManager {
	return &ConfigManager{app: a, cache: map[string]string{}}
}

func cacheKey(category, name string) string {
	return category + "." + name
}

func (m *ConfigManager) reloadLocked() {
	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Error("settings reload failed", zap.Error(err))
		return
	}
	cache := make(map[string]string, len(rows))
	for _, row := range rows {
		cache[cacheKey(row.Type, row.Name)] = row.Value
	}
	m.cache = cache
	m.loadedAt = time.Now()
}

func (m *ConfigManager) value(category, name string) string {
	m.mu.RLock()
	fresh := time.Since(m.loadedAt) < configCacheTTL
	v, ok := m.cache[cacheKey(category, name)]
	m.mu.RUnlock()
	if fresh && ok {
		return v
	}

	m.mu.Lock()
	if time.Since(m.loadedAt) >= configCacheTTL {
		m.reloadLocked()
	}
	v = m.cache[cacheKey(category, name)]
	m.mu.Unlock()
	return v
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.value(category, name)
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.value(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.value(category, name))
}

// Save writes settings keyed "category.name" back to the table and
// invalidates the cache.
func (m *ConfigManager) Save(settings map[string]interface{}) error {
	db := m.app.DB()
	for key, value := range settings {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			continue
		}
		category, name := parts[0], parts[1]
		strValue := cast.ToString(value)

		var count int64
		db.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)
		if count == 0 {
			if err := db.Create(&domain.SysConfig{
				ID:        common.UUIDint64(),
				Type:      category,
				Name:      name,
				Value:     strValue,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}).Error; err != nil {
				return err
			}
			continue
		}
		if err := db.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Updates(map[string]interface{}{
				"value":      strValue,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
	return nil
}
