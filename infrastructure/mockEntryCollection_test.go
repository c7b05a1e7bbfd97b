package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

func intPtr(v int) *int { return &v }

func TestMockEntryCollection_FindSortAndPaging(t *testing.T) {
	ctx := context.Background()
	catalog := NewMockEntryCollection[schema.FoodDatabaseEntry]()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	items := []schema.FoodDatabaseEntry{
		{Name: "Banana", TimesLogged: 3, LastUsed: &earlier},
		{Name: "apple", TimesLogged: 7},
		{Name: "Cherry juice", TimesLogged: 1, LastUsed: &now, IsDrink: true},
	}
	for i := range items {
		items[i].UserID = schema.DefaultUserID
		require.NoError(t, catalog.Create(ctx, &items[i]))
	}

	frequent, err := catalog.Find(ctx, common.EntryQuery{Sort: []common.SortField{common.Desc("times_logged")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "Banana", "Cherry juice"}, names(frequent))

	recent, err := catalog.Find(ctx, common.EntryQuery{Sort: []common.SortField{common.Desc("last_used")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry juice", "Banana", "apple"}, names(recent))

	paged, err := catalog.Find(ctx, common.EntryQuery{Sort: []common.SortField{common.Asc("name")}, Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry juice"}, names(paged))

	search, err := catalog.Find(ctx, common.EntryQuery{Contains: map[string]string{"name": "JUICE"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry juice"}, names(search))

	exact, err := catalog.FindOne(ctx, common.EntryQuery{IEqual: map[string]string{"name": "APPLE"}})
	require.NoError(t, err)
	require.NotNil(t, exact)
	assert.Equal(t, int64(2), exact.ID)

	drinks, err := catalog.Count(ctx, common.EntryQuery{}.Where("is_drink", true))
	require.NoError(t, err)
	assert.Equal(t, int64(1), drinks)
}

func TestMockEntryCollection_Unique(t *testing.T) {
	ctx := context.Background()
	notes := NewMockEntryCollection[schema.DailyNote]("date")
	first := schema.DailyNote{Date: "2024-01-01", EnergyLevel: intPtr(5)}
	require.NoError(t, notes.Create(ctx, &first))
	dup := schema.DailyNote{Date: "2024-01-01"}
	err := notes.Create(ctx, &dup)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, 1, notes.Len())

	first.Mood = "good"
	found, err := notes.Update(ctx, &first)
	require.NoError(t, err)
	assert.True(t, found)

	missing := schema.DailyNote{Date: "2024-01-02"}
	missing.ID = 42
	found, err = notes.Update(ctx, &missing)
	require.NoError(t, err)
	assert.False(t, found)
}

func names(items []schema.FoodDatabaseEntry) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name)
	}
	return out
}
