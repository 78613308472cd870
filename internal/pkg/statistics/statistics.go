package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/cache"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
)

const (
	CacheKeyUsersTotal   = "statistics:users:total"
	CacheKeySignupsDaily = "statistics:users:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyActiveSubs   = "statistics:subscriptions:active"
	CacheKeyRunningBots  = "statistics:bots:running"
	CacheExpiration      = 30 * time.Minute
)

// StatisticsData holds the aggregate numbers shown on the landing page and
// the admin dashboard.
type StatisticsData struct {
	TotalUsers          int
	TodaySignups        int
	ActiveSubscriptions int
	RunningBots         int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached statistics are stale.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the statistics cache when the update
// interval has elapsed.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("failed to update statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded call to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recomputes all statistics and stores them in Redis.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	var todaySignups int64
	if err := db.Model(&models.User{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todaySignups).Error; err != nil {
		return err
	}

	var activeSubs int64
	if err := db.Model(&models.Subscription{}).Where("status = ?", models.SubscriptionStatusActive).Count(&activeSubs).Error; err != nil {
		return err
	}

	var runningBots int64
	if err := db.Model(&models.Bot{}).Where("status = ?", models.BotStatusRunning).Count(&runningBots).Error; err != nil {
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}
	dailyKey := fmt.Sprintf(CacheKeySignupsDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todaySignups, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyActiveSubs, strconv.FormatInt(activeSubs, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyRunningBots, strconv.FormatInt(runningBots, 10), CacheExpiration); err != nil {
		return err
	}

	return nil
}

// GetTotalUsers returns the total user count from cache, falling back to the
// database on a cache miss.
func GetTotalUsers() int {
	return cachedCountValue(CacheKeyUsersTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.User{}).Count(&count).Error
		return count, err
	})
}

func cachedCountValue(key string, compute func() (int64, error)) int {
	if val, err := cache.Get(key); err == nil {
		if count, err := strconv.ParseInt(val, 10, 64); err == nil {
			return int(count)
		}
	}
	count, err := compute()
	if err != nil {
		log.Printf("failed to compute statistic %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("failed to cache statistic %s: %v", key, err)
	}
	return int(count)
}

// GetStatistics returns all landing page statistics, using the cache where
// possible.
func GetStatistics() StatisticsData {
	db := database.GetDB()

	totalUsers := cachedCountValue(CacheKeyUsersTotal, func() (int64, error) {
		var count int64
		err := db.Model(&models.User{}).Count(&count).Error
		return count, err
	})

	today := time.Now().Format("2006-01-02")
	todaySignups := cachedCountValue(fmt.Sprintf(CacheKeySignupsDaily, today), func() (int64, error) {
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)
		var count int64
		err := db.Model(&models.User{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error
		return count, err
	})

	activeSubs := cachedCountValue(CacheKeyActiveSubs, func() (int64, error) {
		var count int64
		err := db.Model(&models.Subscription{}).Where("status = ?", models.SubscriptionStatusActive).Count(&count).Error
		return count, err
	})

	runningBots := cachedCountValue(CacheKeyRunningBots, func() (int64, error) {
		var count int64
		err := db.Model(&models.Bot{}).Where("status = ?", models.BotStatusRunning).Count(&count).Error
		return count, err
	})

	return StatisticsData{
		TotalUsers:          totalUsers,
		TodaySignups:        todaySignups,
		ActiveSubscriptions: activeSubs,
		RunningBots:         runningBots,
	}
}
