package usecase

import (
	"context"
	"io"

	goComMgo "github.com/tidepool-org/go-common/clients/mongo"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

// EntryRepository typed storage of one kind of entry.
// Get, FindOne return nil, nil when nothing matches.
type EntryRepository[T any] interface {
	Create(ctx context.Context, entry *T) error
	Get(ctx context.Context, id int64) (*T, error)
	Update(ctx context.Context, entry *T) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Find(ctx context.Context, q common.EntryQuery) ([]T, error)
	FindOne(ctx context.Context, q common.EntryQuery) (*T, error)
	Count(ctx context.Context, q common.EntryQuery) (int64, error)
}

// Repositories every collection of the service
type Repositories struct {
	Users        EntryRepository[schema.User]
	GarminData   EntryRepository[schema.GarminDailyMetric]
	Activities   EntryRepository[schema.Activity]
	SyncLogs     EntryRepository[schema.GarminSyncLog]
	Food         EntryRepository[schema.FoodEntry]
	FoodDatabase EntryRepository[schema.FoodDatabaseEntry]
	Medications  EntryRepository[schema.Medication]
	Schedules    EntryRepository[schema.MedicationSchedule]
	Sickness     EntryRepository[schema.SicknessEntry]
	Seizures     EntryRepository[schema.Seizure]
	HealthEvents EntryRepository[schema.HealthEvent]
	Notes        EntryRepository[schema.DailyNote]
	Water        EntryRepository[schema.WaterIntake]
}

// SummaryCache computed summaries, Get returns false on a miss
type SummaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Flush(ctx context.Context) error
}

// Uploader push an export artifact to remote storage and return its location
type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}

type DatabaseAdapter interface {
	goComMgo.Storage
}

type noopCache struct{}

// NoopCache a SummaryCache that never hits, used when no redis is configured
func NoopCache() SummaryCache { return noopCache{} }

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}) error { return nil }
func (noopCache) Flush(ctx context.Context) error                              { return nil }
