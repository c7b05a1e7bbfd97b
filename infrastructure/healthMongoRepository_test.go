package infrastructure

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goComMgo "github.com/tidepool-org/go-common/clients/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
	"github.com/mdblp/health-tracker/utils"
)

var testingConfig = &goComMgo.Config{
	Timeout:                2 * time.Second,
	WaitConnectionInterval: 5 * time.Second,
	MaxConnectionAttempts:  0,
}

// before connect to the test database, tests are skipped when none is configured
func before(t *testing.T) *HealthMongoRepository {
	if _, exist := os.LookupEnv("TIDEPOOL_STORE_ADDRESSES"); !exist {
		t.Skip("TIDEPOOL_STORE_ADDRESSES not set, skipping mongo tests")
	}
	if _, exist := os.LookupEnv("TIDEPOOL_STORE_DATABASE"); !exist {
		os.Setenv("TIDEPOOL_STORE_DATABASE", "health_tracker_test")
	}
	testingConfig.FromEnv()

	store, err := NewHealthMongoRepository(testingConfig, utils.StdLogger(zap.NewNop(), "mongo-test"))
	if err != nil {
		t.Fatalf("Unexpected error while creating store: %s", err)
	}
	store.Start()
	store.WaitUntilStarted()

	t.Cleanup(func() {
		ctx := context.Background()
		for _, name := range []string{countersCollection, FoodEntriesCollection, GarminDataCollection} {
			store.Collection(name).Drop(ctx)
		}
		store.Close()
	})
	return store
}

func TestEntryFilter(t *testing.T) {
	q := common.EntryQuery{
		UserID:   schema.DefaultUserID,
		Dates:    &common.Date{Start: "2024-01-01", End: "2024-01-31"},
		Equal:    map[string]interface{}{"is_drink": true},
		IEqual:   map[string]string{"name": "Green tea (hot)"},
		Contains: map[string]string{"medication_name": "ibu"},
	}
	expected := bson.M{
		"user_id":         schema.DefaultUserID,
		"date":            bson.M{"$gte": "2024-01-01", "$lte": "2024-01-31"},
		"is_drink":        true,
		"name":            bson.M{"$regex": `^Green tea \(hot\)$`, "$options": "i"},
		"medication_name": bson.M{"$regex": "ibu", "$options": "i"},
	}
	assert.Equal(t, expected, entryFilter(q))
}

func TestEntryFilter_DateField(t *testing.T) {
	q := common.EntryQuery{Dates: &common.Date{End: "2024-02-01"}, DateField: "sync_date"}
	assert.Equal(t, bson.M{"sync_date": bson.M{"$lte": "2024-02-01"}}, entryFilter(q))
	assert.Equal(t, bson.M{}, entryFilter(common.EntryQuery{Dates: &common.Date{}}))
}

func TestEntrySort(t *testing.T) {
	sort := entrySort([]common.SortField{common.Desc("date"), common.Asc("name")})
	assert.Equal(t, bson.D{{Key: "date", Value: -1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}}, sort)
}

func TestEntryCollection_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := before(t)
	foods := NewEntryCollection[schema.FoodEntry](repo, FoodEntriesCollection)

	entry := schema.FoodEntry{Date: "2024-01-02", Time: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), MealType: "breakfast", Description: "Porridge"}
	entry.UserID = schema.DefaultUserID
	require.NoError(t, foods.Create(ctx, &entry))
	assert.Equal(t, int64(1), entry.ID)

	second := entry
	second.Description = "Coffee"
	second.IsDrink = true
	require.NoError(t, foods.Create(ctx, &second))
	assert.Equal(t, int64(2), second.ID)

	got, err := foods.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Porridge", got.Description)

	drinks, err := foods.Find(ctx, common.EntryQuery{UserID: schema.DefaultUserID}.Where("is_drink", true))
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, "Coffee", drinks[0].Description)

	got.Description = "Oat porridge"
	found, err := foods.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, found)

	deleted, err := foods.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	got, err = foods.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntryCollection_UniqueDate(t *testing.T) {
	ctx := context.Background()
	repo := before(t)
	metrics := NewEntryCollection[schema.GarminDailyMetric](repo, GarminDataCollection)

	first := schema.GarminDailyMetric{Date: "2024-03-01"}
	first.UserID = schema.DefaultUserID
	require.NoError(t, metrics.Create(ctx, &first))
	duplicate := schema.GarminDailyMetric{Date: "2024-03-01"}
	duplicate.UserID = schema.DefaultUserID
	err := metrics.Create(ctx, &duplicate)
	assert.True(t, errors.Is(err, ErrDuplicate))
}
