package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

const (
	catalogDefaultLimit = 100
	catalogMaxLimit     = 500
)

// FoodCatalog the reusable food and drink items of the user
type FoodCatalog struct {
	*Entries[schema.FoodDatabaseEntry, *schema.FoodDatabaseEntry]
	logger *zap.Logger
	now    func() time.Time
}

func NewFoodCatalog(repo EntryRepository[schema.FoodDatabaseEntry], logger *zap.Logger) *FoodCatalog {
	return &FoodCatalog{
		Entries: NewEntries[schema.FoodDatabaseEntry, *schema.FoodDatabaseEntry]("Food", repo, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Search list catalog items
func (c *FoodCatalog) Search(ctx context.Context, query schema.CatalogQuery) ([]schema.FoodDatabaseEntry, *common.DetailedError) {
	q := common.EntryQuery{Skip: query.Skip, Limit: query.Limit}
	if q.Skip < 0 {
		return nil, ErrorInvalidParameters(fmt.Errorf("skip must be positive"))
	}
	switch {
	case q.Limit <= 0:
		q.Limit = catalogDefaultLimit
	case q.Limit > catalogMaxLimit:
		q.Limit = catalogMaxLimit
	}
	if query.Search != "" {
		q.Contains = map[string]string{"name": query.Search}
	}
	if query.IsDrink != nil {
		q = q.Where("is_drink", *query.IsDrink)
	}
	if query.FavoritesOnly {
		q = q.Where("is_favorite", true)
	}
	switch query.SortBy {
	case "", "frequent":
		q = q.OrderBy(common.Desc("times_logged"))
	case "recent":
		q = q.OrderBy(common.Desc("last_used"))
	case "alphabetical":
		q = q.OrderBy(common.Asc("name"))
	default:
		return nil, ErrorInvalidParameters(fmt.Errorf("sort_by must be one of frequent, recent, alphabetical"))
	}
	return c.List(ctx, q)
}

func (c *FoodCatalog) byName(ctx context.Context, name string) (*schema.FoodDatabaseEntry, *common.DetailedError) {
	return c.FindOne(ctx, common.EntryQuery{IEqual: map[string]string{"name": strings.TrimSpace(name)}})
}

// Add create a catalog item, the name must not be used yet (case-insensitive)
func (c *FoodCatalog) Add(ctx context.Context, food *schema.FoodDatabaseEntry) (*schema.FoodDatabaseEntry, *common.DetailedError) {
	food.Name = strings.TrimSpace(food.Name)
	existing, err := c.byName(ctx, food.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		dup := errorAlreadyExists.WithMessage(fmt.Sprintf("Food '%s' already exists in your database", food.Name))
		return nil, &dup
	}
	food.TimesLogged = 0
	food.LastUsed = nil
	return c.Create(ctx, food)
}

func (c *FoodCatalog) ToggleFavorite(ctx context.Context, id int64) (*schema.ActionResult, *common.DetailedError) {
	food, err := c.Update(ctx, id, func(f *schema.FoodDatabaseEntry) error {
		f.IsFavorite = !f.IsFavorite
		return nil
	})
	if err != nil {
		return nil, err
	}
	msg := "Food removed from favorites"
	if food.IsFavorite {
		msg = "Food added to favorites"
	}
	return &schema.ActionResult{Success: true, Message: msg, IsFavorite: boolPtr(food.IsFavorite)}, nil
}

// Link attach a food entry about to be logged to its catalog item, nil when there is none.
// An explicit catalog id must exist. Otherwise, when save is set, the item of the same
// name is reused or created from the entry nutrition.
func (c *FoodCatalog) Link(ctx context.Context, entry *schema.FoodEntry, save bool) (*schema.FoodDatabaseEntry, *common.DetailedError) {
	var item *schema.FoodDatabaseEntry
	var derr *common.DetailedError
	switch {
	case entry.FoodDatabaseID != nil:
		item, derr = c.Get(ctx, *entry.FoodDatabaseID)
		if derr != nil {
			if derr.Status == errorNotFound.Status {
				return nil, ErrorInvalidParameters(fmt.Errorf("food_database_id %d does not exist", *entry.FoodDatabaseID))
			}
			return nil, derr
		}
	case save && strings.TrimSpace(entry.Description) != "":
		if item, derr = c.byName(ctx, entry.Description); derr != nil {
			return nil, derr
		}
		if item == nil {
			item, derr = c.Create(ctx, catalogItemFrom(entry))
			if derr != nil {
				return nil, derr
			}
			c.logger.Info("food_catalog_item_created", zap.String("name", item.Name), zap.Int64("id", item.ID))
		}
	default:
		return nil, nil
	}
	entry.FoodDatabaseID = &item.ID
	return item, nil
}

// Used bump the usage of a catalog item once an entry referencing it is logged
func (c *FoodCatalog) Used(ctx context.Context, id int64) *common.DetailedError {
	now := c.now().UTC()
	_, derr := c.Update(ctx, id, func(f *schema.FoodDatabaseEntry) error {
		f.TimesLogged++
		f.LastUsed = &now
		return nil
	})
	return derr
}

func catalogItemFrom(entry *schema.FoodEntry) *schema.FoodDatabaseEntry {
	return &schema.FoodDatabaseEntry{
		Name:         truncate(strings.TrimSpace(entry.Description), 200),
		Calories:     entry.Calories,
		ProteinGrams: entry.ProteinGrams,
		CarbsGrams:   entry.CarbsGrams,
		FatGrams:     entry.FatGrams,
		IsDrink:      entry.IsDrink,
		VolumeML:     entry.VolumeML,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
