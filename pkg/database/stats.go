package database

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
)

// TypeCount represents a count by type
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// CachedStats holds the cached range table statistics
type CachedStats struct {
	LastSync string      `json:"lastSync"`
	Serial   string      `json:"serial"`
	Groups   int         `json:"groups"`
	Rules    int         `json:"rules"`
	Agencies int         `json:"agencies"`
	Prefixes []TypeCount `json:"prefixes"`
}

// statsCache holds the singleton instance
type statsCache struct {
	mu    sync.RWMutex
	stats *CachedStats
}

var cache = &statsCache{}

// GetCachedStats returns the cached stats if available, nil otherwise
func GetCachedStats() *CachedStats {
	if !cache.mu.TryRLock() {
		return nil
	}
	defer cache.mu.RUnlock()

	return cache.stats
}

// ComputeAndCacheStats computes the stats from the database and stores them in cache
func ComputeAndCacheStats(force bool) *CachedStats {
	if DB == nil {
		return nil
	}

	if force {
		cache.mu.Lock()
	} else {
		if !cache.mu.TryLock() {
			// Another computation is in progress, return nil to indicate stats are not available
			return nil
		}
	}
	defer cache.mu.Unlock()

	stats := &CachedStats{}

	// Get last full sync date
	var lastSync Synchronization
	err := DB.Where("complete = ?", true).Order("date DESC").First(&lastSync).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// never synchronized, cannot compute stats
		return nil
	}
	if err == nil {
		stats.LastSync = lastSync.Date.Format(time.RFC3339)
		stats.Serial = lastSync.Serial
	}

	// Count registration groups
	var groupCount int64
	DB.Model(&RegistrationGroup{}).Count(&groupCount)
	stats.Groups = int(groupCount)

	// Count registrant rules across all groups
	var ruleCount int64
	DB.Model(&RegistrationGroup{}).
		Select("COALESCE(SUM(cardinality(rules)), 0)").
		Scan(&ruleCount)
	stats.Rules = int(ruleCount)

	// Count distinct agencies
	var agencyCount int64
	DB.Model(&RegistrationGroup{}).
		Select("COUNT(DISTINCT agency)").
		Scan(&agencyCount)
	stats.Agencies = int(agencyCount)

	// Count groups by EAN prefix
	DB.Model(&RegistrationGroup{}).
		Select("split_part(prefix, '-', 1) AS type, COUNT(*) AS count").
		Group("split_part(prefix, '-', 1)").
		Scan(&stats.Prefixes)

	cache.stats = stats
	return cache.stats
}

// InvalidateStatsCache marks the cache as invalid so it will be recomputed on next access
func InvalidateStatsCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.stats = nil
}

// HasCachedStats returns whether stats are currently cached
func HasCachedStats() bool {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return cache.stats != nil
}
