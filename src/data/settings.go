package data

import (
	"sync"

	"gorm.io/gorm"
)

// Setting is a runtime override row in the settings table. Only active rows
// are loaded.
type Setting struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:64;uniqueIndex;not null"`
	Value  string `gorm:"type:text;not null"`
	Active uint8  `gorm:"not null;default:1"`
}

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// LoadSettings loads all active settings from the database into cache.
func LoadSettings(db *gorm.DB) error {
	var settings []Setting
	if err := db.Where("active = ?", 1).Find(&settings).Error; err != nil {
		return err
	}
	ReplaceSettings(settingsMap(settings))
	return nil
}

// ReplaceSettings swaps the cached settings wholesale.
func ReplaceSettings(m map[string]string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settingsCache = m
}

// GetSetting retrieves a setting value from cache (call LoadSettings first).
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}

func settingsMap(rows []Setting) map[string]string {
	m := make(map[string]string, len(rows))
	for _, s := range rows {
		m[s.Name] = s.Value
	}
	return m
}
