package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

// FoodLog food and drink entries, kept in sync with the food catalog
type FoodLog struct {
	*Entries[schema.FoodEntry, *schema.FoodEntry]
	catalog *FoodCatalog
}

func NewFoodLog(repo EntryRepository[schema.FoodEntry], catalog *FoodCatalog, logger *zap.Logger) *FoodLog {
	return &FoodLog{
		Entries: NewEntries[schema.FoodEntry, *schema.FoodEntry]("Food entry", repo, logger, followTime),
		catalog: catalog,
	}
}

// followTime a changed time moves the entry to the calendar date of the new time
func followTime(ctx context.Context, entry *schema.FoodEntry, previous *schema.FoodEntry) *common.DetailedError {
	if previous != nil && !entry.Time.IsZero() && !entry.Time.Equal(previous.Time) {
		schema.SyncDay(entry, true)
	}
	return nil
}

// Log create a food entry and record it in the catalog
func (f *FoodLog) Log(ctx context.Context, req *schema.FoodEntryCreate) (*schema.FoodEntry, *common.DetailedError) {
	entry := req.FoodEntry
	schema.SyncDay(&entry, false)
	if err := validateStruct(&entry); err != nil {
		return nil, err
	}
	save := req.SaveToDatabase == nil || *req.SaveToDatabase
	item, derr := f.catalog.Link(ctx, &entry, save)
	if derr != nil {
		return nil, derr
	}
	created, derr := f.Create(ctx, &entry)
	if derr != nil || item == nil {
		return created, derr
	}
	if derr = f.catalog.Used(ctx, item.ID); derr != nil {
		f.logger.Warn("food_catalog_usage_not_recorded", zap.Int64("food_database_id", item.ID), zap.String("code", derr.Code), zap.String("internal", derr.InternalMessage))
	}
	return created, nil
}

// FoodFilter optional filters of a food listing
type FoodFilter struct {
	MealType string
	IsDrink  *bool
}

// Between entries of an inclusive date range, most recent first
func (f *FoodLog) Between(ctx context.Context, dates common.Date, filter FoodFilter) ([]schema.FoodEntry, *common.DetailedError) {
	q := common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("time"))
	if filter.MealType != "" {
		q = q.Where("meal_type", filter.MealType)
	}
	if filter.IsDrink != nil {
		q = q.Where("is_drink", *filter.IsDrink)
	}
	return f.List(ctx, q)
}
