// Package sync keeps the registration ranges aligned with the dataset
// published by the International ISBN Agency.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/iziplay/isbn-api/pkg/database"
	"github.com/iziplay/isbn-api/pkg/metrics"
	"github.com/iziplay/isbn-api/pkg/ranges"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// DefaultRangeMessageURL is the export published by the International ISBN
// Agency. Override it with ISBN_RANGE_MESSAGE_URL.
const DefaultRangeMessageURL = "https://www.isbn-international.org/export_rangemessage.xml"

var group singleflight.Group

// GetLastSync returns the most recent synchronization, or nil when none has
// ever run.
func GetLastSync() (*database.Synchronization, error) {
	if database.DB == nil {
		return nil, errors.New("database is not connected")
	}

	var sync *database.Synchronization
	err := database.DB.Order("date DESC").First(&sync).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return sync, nil
}

// Bootstrap makes sure a range table is available before the API starts
// serving. Stored groups win; the embedded dataset seeds an empty database.
func Bootstrap(ctx context.Context) error {
	groups, err := database.LoadGroups(ctx)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		seed := ranges.BuiltinInfo()
		log.Printf("No stored ranges, seeding from embedded dataset (serial %s)", seed.Serial)
		if err := database.UpsertGroups(ctx, ranges.Builtin().Groups()); err != nil {
			return err
		}
		syncRecord := database.Synchronization{
			Date:     time.Now(),
			Serial:   seed.Serial,
			Complete: true,
		}
		if err := database.DB.Create(&syncRecord).Error; err != nil {
			return err
		}
		ranges.SetCurrent(ranges.Builtin())
		metrics.Default.SetTableSize(ranges.Builtin().Len(), ranges.Builtin().RuleCount())
		return nil
	}

	table, err := ranges.New(groups)
	if err != nil {
		return fmt.Errorf("stored ranges are unusable: %w", err)
	}
	ranges.SetCurrent(table)
	metrics.Default.SetTableSize(table.Len(), table.RuleCount())
	log.Printf("Loaded %d registration groups from database", table.Len())
	return nil
}

// Sync fetches the current range message and applies it to the database and
// the in-memory table. Concurrent calls share a single run.
func Sync(ctx context.Context) error {
	_, err, _ := group.Do("rangemessage", func() (interface{}, error) {
		return nil, run(ctx)
	})
	return err
}

func run(ctx context.Context) error {
	started := time.Now()
	outcome := "error"
	defer func() {
		metrics.Default.ObserveSync(outcome, time.Since(started))
	}()

	lastSync, err := GetLastSync()
	if err != nil {
		return fmt.Errorf("cannot sync: %w", err)
	}

	url := rangeMessageURL()
	state.start(url)
	defer state.end()

	message, err := fetchRangeMessage(ctx, url)
	if err != nil {
		state.fail(err)
		return err
	}

	if lastSync != nil && lastSync.Serial == message.Serial {
		log.Printf("Sync already performed with this range message: %s", message.Serial)
		syncRecord := database.Synchronization{
			Date:   time.Now(),
			Serial: message.Serial,
		}
		if err := database.DB.Create(&syncRecord).Error; err != nil {
			state.fail(err)
			return err
		}
		outcome = "unchanged"
		return nil
	}

	groups, err := message.RegistrationGroups()
	if err != nil {
		state.fail(err)
		return err
	}
	table, err := ranges.New(groups)
	if err != nil {
		state.fail(err)
		return err
	}
	if err := database.UpsertGroups(ctx, groups); err != nil {
		state.fail(err)
		return err
	}

	ranges.SetCurrent(table)
	state.progress(message.Serial, table.Len(), table.RuleCount())
	log.Printf("Sync completed successfully: %d groups, %d rules from range message %s", table.Len(), table.RuleCount(), message.Serial)

	syncRecord := database.Synchronization{
		Date:     time.Now(),
		Serial:   message.Serial,
		Complete: true,
	}
	if err := database.DB.Create(&syncRecord).Error; err != nil {
		state.fail(err)
		return err
	}

	database.ComputeAndCacheStats(true)
	metrics.Default.SetTableSize(table.Len(), table.RuleCount())
	outcome = "success"
	return nil
}

func fetchRangeMessage(ctx context.Context, url string) (*ranges.RangeMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch range message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read range message: %w", err)
	}

	return ranges.ParseRangeMessage(data)
}

func rangeMessageURL() string {
	if url := os.Getenv("ISBN_RANGE_MESSAGE_URL"); url != "" {
		return url
	}
	return DefaultRangeMessageURL
}
