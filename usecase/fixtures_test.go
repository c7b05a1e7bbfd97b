package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/infrastructure"
	"github.com/mdblp/health-tracker/schema"
)

// testStore the in memory collections behind a Repositories
type testStore struct {
	users        *infrastructure.MockEntryCollection[schema.User, *schema.User]
	garminData   *infrastructure.MockEntryCollection[schema.GarminDailyMetric, *schema.GarminDailyMetric]
	activities   *infrastructure.MockEntryCollection[schema.Activity, *schema.Activity]
	syncLogs     *infrastructure.MockEntryCollection[schema.GarminSyncLog, *schema.GarminSyncLog]
	food         *infrastructure.MockEntryCollection[schema.FoodEntry, *schema.FoodEntry]
	foodDatabase *infrastructure.MockEntryCollection[schema.FoodDatabaseEntry, *schema.FoodDatabaseEntry]
	medications  *infrastructure.MockEntryCollection[schema.Medication, *schema.Medication]
	schedules    *infrastructure.MockEntryCollection[schema.MedicationSchedule, *schema.MedicationSchedule]
	sickness     *infrastructure.MockEntryCollection[schema.SicknessEntry, *schema.SicknessEntry]
	seizures     *infrastructure.MockEntryCollection[schema.Seizure, *schema.Seizure]
	healthEvents *infrastructure.MockEntryCollection[schema.HealthEvent, *schema.HealthEvent]
	notes        *infrastructure.MockEntryCollection[schema.DailyNote, *schema.DailyNote]
	water        *infrastructure.MockEntryCollection[schema.WaterIntake, *schema.WaterIntake]
}

func newTestStore() *testStore {
	return &testStore{
		users:        infrastructure.NewMockEntryCollection[schema.User](),
		garminData:   infrastructure.NewMockEntryCollection[schema.GarminDailyMetric]("date"),
		activities:   infrastructure.NewMockEntryCollection[schema.Activity]("garmin_activity_id"),
		syncLogs:     infrastructure.NewMockEntryCollection[schema.GarminSyncLog](),
		food:         infrastructure.NewMockEntryCollection[schema.FoodEntry](),
		foodDatabase: infrastructure.NewMockEntryCollection[schema.FoodDatabaseEntry](),
		medications:  infrastructure.NewMockEntryCollection[schema.Medication](),
		schedules:    infrastructure.NewMockEntryCollection[schema.MedicationSchedule](),
		sickness:     infrastructure.NewMockEntryCollection[schema.SicknessEntry](),
		seizures:     infrastructure.NewMockEntryCollection[schema.Seizure](),
		healthEvents: infrastructure.NewMockEntryCollection[schema.HealthEvent](),
		notes:        infrastructure.NewMockEntryCollection[schema.DailyNote]("date"),
		water:        infrastructure.NewMockEntryCollection[schema.WaterIntake](),
	}
}

func (s *testStore) repositories() Repositories {
	return Repositories{
		Users:        s.users,
		GarminData:   s.garminData,
		Activities:   s.activities,
		SyncLogs:     s.syncLogs,
		Food:         s.food,
		FoodDatabase: s.foodDatabase,
		Medications:  s.medications,
		Schedules:    s.schedules,
		Sickness:     s.sickness,
		Seizures:     s.seizures,
		HealthEvents: s.healthEvents,
		Notes:        s.notes,
		Water:        s.water,
	}
}

var errFakeCipher = errors.New("not encrypted by fakeCipher")

// fakeCipher reversible without any key
type fakeCipher struct{}

func (fakeCipher) Encrypt(plain string) (string, error) { return "enc:" + plain, nil }

func (fakeCipher) Decrypt(encrypted string) (string, error) {
	if len(encrypted) < 4 || encrypted[:4] != "enc:" {
		return "", errFakeCipher
	}
	return encrypted[4:], nil
}

// memoryCache SummaryCache counting flushes
type memoryCache struct {
	values  map[string][]byte
	flushes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) Flush(ctx context.Context) error {
	c.values = map[string][]byte{}
	c.flushes++
	return nil
}

var testLogger = zap.NewNop()

// fixedCalendar a calendar frozen on now, in UTC
func fixedCalendar(now time.Time) *Calendar {
	c := NewCalendar(time.UTC)
	c.Now = func() time.Time { return now }
	return c
}

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func f64(v float64) *float64 { return &v }

func dateRange(start, end string) common.Date {
	return common.Date{Start: start, End: end}
}
