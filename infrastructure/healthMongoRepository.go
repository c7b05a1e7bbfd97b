package infrastructure

import (
	"context"
	"fmt"
	"log"
	"regexp"

	goComMgo "github.com/tidepool-org/go-common/clients/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

// Collection names
const (
	UsersCollection               = "users"
	GarminDataCollection          = "garmin_data"
	ActivitiesCollection          = "activities"
	SyncLogsCollection            = "garmin_sync_logs"
	FoodEntriesCollection         = "food_entries"
	FoodDatabaseCollection        = "food_database"
	MedicationsCollection         = "medications"
	MedicationSchedulesCollection = "medication_schedules"
	SicknessCollection            = "sickness_entries"
	SeizuresCollection            = "seizures"
	HealthEventsCollection        = "health_events"
	DailyNotesCollection          = "daily_notes"
	WaterIntakeCollection         = "water_intake"

	countersCollection = "counters"
)

// ErrDuplicate a unique index rejected the write
var ErrDuplicate = common.ErrDuplicate

func userDateIndex(name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
		Options: opts,
	}
}

var healthTrackerIndexes = map[string][]mongo.IndexModel{
	GarminDataCollection: {userDateIndex("UserIdDateUnique", true)},
	ActivitiesCollection: {
		userDateIndex("UserIdDate", false),
		{
			Keys:    bson.D{{Key: "garmin_activity_id", Value: 1}},
			Options: options.Index().SetName("GarminActivityIdUnique").SetUnique(true),
		},
	},
	SyncLogsCollection: {
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "sync_timestamp", Value: -1}},
			Options: options.Index().SetName("UserIdSyncTimestamp"),
		},
	},
	FoodEntriesCollection: {userDateIndex("UserIdDate", false)},
	FoodDatabaseCollection: {
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("UserIdName"),
		},
	},
	MedicationsCollection:  {userDateIndex("UserIdDate", false)},
	SicknessCollection:     {userDateIndex("UserIdDate", false)},
	SeizuresCollection:     {userDateIndex("UserIdDate", false)},
	HealthEventsCollection: {userDateIndex("UserIdDate", false)},
	DailyNotesCollection:   {userDateIndex("UserIdDateUnique", true)},
	WaterIntakeCollection:  {userDateIndex("UserIdDate", false)},
}

// HealthMongoRepository owns the store client and hands out typed collections
type HealthMongoRepository struct {
	*goComMgo.StoreClient
}

// NewHealthMongoRepository creates a new health data repository for mongo
func NewHealthMongoRepository(config *goComMgo.Config, logger *log.Logger) (*HealthMongoRepository, error) {
	if config != nil {
		config.Indexes = healthTrackerIndexes
	}
	store, err := goComMgo.NewStoreClient(config, logger)
	if err != nil {
		return nil, err
	}
	return &HealthMongoRepository{StoreClient: store}, nil
}

// nextID allocate the next numeric id of a collection
func (r *HealthMongoRepository) nextID(ctx context.Context, collection string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate id for %s: %w", collection, err)
	}
	return counter.Seq, nil
}

// EntryCollection typed access to one collection of schema entries
type EntryCollection[T any, PT interface {
	*T
	schema.Entry
}] struct {
	repo *HealthMongoRepository
	name string
}

// NewEntryCollection typed collection named name
func NewEntryCollection[T any, PT interface {
	*T
	schema.Entry
}](repo *HealthMongoRepository, name string) *EntryCollection[T, PT] {
	return &EntryCollection[T, PT]{repo: repo, name: name}
}

func (c *EntryCollection[T, PT]) collection() *mongo.Collection {
	return c.repo.Collection(c.name)
}

func (c *EntryCollection[T, PT]) Create(ctx context.Context, entry *T) error {
	id, err := c.repo.nextID(ctx, c.name)
	if err != nil {
		return err
	}
	PT(entry).SetID(id)
	if _, err = c.collection().InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", c.name, ErrDuplicate)
		}
		return fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return nil
}

// Get nil, nil when the entry does not exist
func (c *EntryCollection[T, PT]) Get(ctx context.Context, id int64) (*T, error) {
	opts := options.FindOne()
	if traceID := common.TraceID(ctx); traceID != "" {
		opts.SetComment(traceID)
	}
	var result T
	err := c.collection().FindOne(ctx, bson.M{"_id": id}, opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Update replace the stored entry, false when it does not exist
func (c *EntryCollection[T, PT]) Update(ctx context.Context, entry *T) (bool, error) {
	res, err := c.collection().ReplaceOne(ctx, bson.M{"_id": PT(entry).GetID()}, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("%s: %w", c.name, ErrDuplicate)
		}
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (c *EntryCollection[T, PT]) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := c.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (c *EntryCollection[T, PT]) Find(ctx context.Context, q common.EntryQuery) ([]T, error) {
	opts := options.Find().SetSort(entrySort(q.Sort))
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if traceID := common.TraceID(ctx); traceID != "" {
		opts.SetComment(traceID)
	}
	cursor, err := c.collection().Find(ctx, entryFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.name, err)
	}
	defer cursor.Close(ctx)
	results := make([]T, 0)
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return results, nil
}

// FindOne first match of q, nil, nil when none
func (c *EntryCollection[T, PT]) FindOne(ctx context.Context, q common.EntryQuery) (*T, error) {
	q.Limit = 1
	results, err := c.Find(ctx, q)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

func (c *EntryCollection[T, PT]) Count(ctx context.Context, q common.EntryQuery) (int64, error) {
	return c.collection().CountDocuments(ctx, entryFilter(q))
}

// entryFilter translate an EntryQuery into a mongo filter
func entryFilter(q common.EntryQuery) bson.M {
	filter := bson.M{}
	if q.UserID != 0 {
		filter["user_id"] = q.UserID
	}
	if q.Dates != nil {
		dateRange := bson.M{}
		if q.Dates.Start != "" {
			dateRange["$gte"] = q.Dates.Start
		}
		if q.Dates.End != "" {
			dateRange["$lte"] = q.Dates.End
		}
		if len(dateRange) > 0 {
			filter[q.DateKey()] = dateRange
		}
	}
	for field, value := range q.Equal {
		filter[field] = value
	}
	for field, value := range q.IEqual {
		filter[field] = bson.M{"$regex": "^" + regexp.QuoteMeta(value) + "$", "$options": "i"}
	}
	for field, value := range q.Contains {
		filter[field] = bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
	}
	return filter
}

func entrySort(fields []common.SortField) bson.D {
	sort := make(bson.D, 0, len(fields)+1)
	for _, f := range fields {
		direction := 1
		if f.Desc {
			direction = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: direction})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}
