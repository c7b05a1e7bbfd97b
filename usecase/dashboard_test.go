package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdblp/health-tracker/schema"
)

func seed[T any, PT interface {
	*T
	schema.Entry
}](t *testing.T, create func(context.Context, *T) error, entries ...T) {
	t.Helper()
	for i := range entries {
		PT(&entries[i]).SetOwner(schema.DefaultUserID)
		require.NoError(t, create(context.Background(), &entries[i]))
	}
}

func newDashboard(store *testStore, cache SummaryCache) *Dashboard {
	return NewDashboard(store.repositories(), cache, fixedCalendar(at("2024-03-10T12:00:00Z")), testLogger)
}

func TestDashboard_DailyTotals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seed(t, store.food.Create,
		schema.FoodEntry{Date: "2024-03-05", Time: at("2024-03-05T08:00:00Z"), MealType: "breakfast", Description: "Oatmeal", Calories: intPtr(350)},
		schema.FoodEntry{Date: "2024-03-05", Time: at("2024-03-05T12:30:00Z"), MealType: "lunch", Description: "Salad", Calories: intPtr(420)},
		schema.FoodEntry{Date: "2024-03-05", Time: at("2024-03-05T10:00:00Z"), MealType: "snack", Description: "Orange juice", Calories: intPtr(110), IsDrink: true, VolumeML: intPtr(250)},
		schema.FoodEntry{Date: "2024-03-06", Time: at("2024-03-06T08:00:00Z"), MealType: "breakfast", Description: "Toast", Calories: intPtr(200)},
	)
	seed(t, store.water.Create,
		schema.WaterIntake{Date: "2024-03-05", Time: at("2024-03-05T09:00:00Z"), AmountML: 500},
		schema.WaterIntake{Date: "2024-03-05", Time: at("2024-03-05T15:00:00Z"), AmountML: 300},
	)
	seed(t, store.medications.Create,
		schema.Medication{Date: "2024-03-05", Time: at("2024-03-05T08:00:00Z"), MedicationName: "Lamotrigine"},
		schema.Medication{Date: "2024-03-05", Time: at("2024-03-05T20:00:00Z"), MedicationName: "Lamotrigine"},
	)
	seed(t, store.notes.Create, schema.DailyNote{Date: "2024-03-05", Mood: "good"})
	seed(t, store.garminData.Create, schema.GarminDailyMetric{Date: "2024-03-05", Steps: intPtr(9000)})

	cache := newMemoryCache()
	summary, derr := newDashboard(store, cache).Daily(ctx, "2024-03-05")
	require.Nil(t, derr)
	assert.Equal(t, "2024-03-05", summary.Date)
	assert.Equal(t, 770, *summary.TotalCaloriesConsumed)
	assert.Equal(t, 1050, *summary.TotalWaterML)
	assert.Equal(t, 2, summary.MedicationCount)
	require.Len(t, summary.FoodEntries, 3)
	assert.Equal(t, "Oatmeal", summary.FoodEntries[0].Description)
	assert.Equal(t, "Salad", summary.FoodEntries[2].Description)
	require.NotNil(t, summary.DailyNote)
	assert.Equal(t, "good", summary.DailyNote.Mood)
	require.NotNil(t, summary.GarminData)
	assert.Equal(t, 9000, *summary.GarminData.Steps)
	assert.Contains(t, cache.values, "daily:2024-03-05")
}

func TestDashboard_DailyEmpty(t *testing.T) {
	summary, derr := newDashboard(newTestStore(), newMemoryCache()).Daily(context.Background(), "2024-03-05")
	require.Nil(t, derr)
	assert.Nil(t, summary.TotalCaloriesConsumed)
	assert.Nil(t, summary.TotalWaterML)
	assert.Nil(t, summary.GarminData)
	assert.Nil(t, summary.DailyNote)
	assert.Equal(t, 0, summary.MedicationCount)
}

func TestDashboard_DailyServedFromCache(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	cache := newMemoryCache()
	dashboard := newDashboard(store, cache)
	_, derr := dashboard.Daily(ctx, "2024-03-05")
	require.Nil(t, derr)

	seed(t, store.water.Create, schema.WaterIntake{Date: "2024-03-05", Time: at("2024-03-05T09:00:00Z"), AmountML: 500})
	cached, derr := dashboard.Daily(ctx, "2024-03-05")
	require.Nil(t, derr)
	assert.Nil(t, cached.TotalWaterML)

	require.NoError(t, cache.Flush(ctx))
	fresh, derr := dashboard.Daily(ctx, "2024-03-05")
	require.Nil(t, derr)
	assert.Equal(t, 500, *fresh.TotalWaterML)
}

func TestDashboard_TodayAndInvalidDate(t *testing.T) {
	dashboard := newDashboard(newTestStore(), newMemoryCache())
	today, derr := dashboard.Today(context.Background())
	require.Nil(t, derr)
	assert.Equal(t, "2024-03-10", today.Date)

	_, derr = dashboard.Daily(context.Background(), "2024-3-5")
	require.NotNil(t, derr)
	assert.Equal(t, http.StatusBadRequest, derr.Status)
}

func TestDashboard_Range(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seed(t, store.garminData.Create,
		schema.GarminDailyMetric{Date: "2024-03-01", Steps: intPtr(4000), SleepDurationSeconds: intPtr(7 * 3600)},
		schema.GarminDailyMetric{Date: "2024-03-02", Steps: intPtr(8000)},
		schema.GarminDailyMetric{Date: "2024-03-03"},
		schema.GarminDailyMetric{Date: "2024-02-01", Steps: intPtr(100000)},
	)
	seed(t, store.seizures.Create, schema.Seizure{Date: "2024-03-02", Time: at("2024-03-02T03:00:00Z")})
	seed(t, store.medications.Create, schema.Medication{Date: "2024-03-03", Time: at("2024-03-03T08:00:00Z"), MedicationName: "A"})
	seed(t, store.sickness.Create,
		schema.SicknessEntry{Date: "2024-03-02", Symptoms: "cough"},
		schema.SicknessEntry{Date: "2024-03-02", Symptoms: "fever", HasFever: true},
		schema.SicknessEntry{Date: "2024-03-04", Symptoms: "cough"},
	)

	summary, derr := newDashboard(store, NoopCache()).Range(ctx, "2024-03-01", "2024-03-07")
	require.Nil(t, derr)
	assert.Equal(t, 7, summary.TotalDays)
	assert.Equal(t, 3, summary.DaysWithData)
	assert.Equal(t, 6000.0, *summary.AvgSteps)
	assert.Equal(t, 7.0, *summary.AvgSleepHours)
	assert.Equal(t, 1, summary.TotalSeizures)
	assert.Equal(t, 1, summary.TotalMedications)
	assert.Equal(t, 2, summary.DaysWithSickness)
}

func TestDashboard_RangeDefaults(t *testing.T) {
	summary, derr := newDashboard(newTestStore(), NoopCache()).Range(context.Background(), "", "")
	require.Nil(t, derr)
	assert.Equal(t, "2024-02-09", summary.StartDate)
	assert.Equal(t, "2024-03-10", summary.EndDate)
	assert.Equal(t, 31, summary.TotalDays)
	assert.Nil(t, summary.AvgSteps)
	assert.Nil(t, summary.AvgSleepHours)

	_, derr = newDashboard(newTestStore(), NoopCache()).Range(context.Background(), "2024-03-05", "2024-03-01")
	require.NotNil(t, derr)
	assert.Equal(t, http.StatusBadRequest, derr.Status)
}

func TestDashboard_Analysis(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	seed(t, store.garminData.Create,
		schema.GarminDailyMetric{Date: "2024-03-01", Steps: intPtr(4000), SleepDurationSeconds: intPtr(8 * 3600), RestingHeartRate: intPtr(50)},
		schema.GarminDailyMetric{Date: "2024-03-02", Steps: intPtr(8000), AvgStressLevel: intPtr(30)},
	)
	seed(t, store.seizures.Create,
		schema.Seizure{Date: "2024-03-02", Time: at("2024-03-02T03:00:00Z"), Severity: "mild"},
		schema.Seizure{Date: "2024-03-05", Time: at("2024-03-05T03:00:00Z"), Severity: "mild"},
		schema.Seizure{Date: "2024-03-08", Time: at("2024-03-08T03:00:00Z")},
	)
	seed(t, store.medications.Create,
		schema.Medication{Date: "2024-03-01", Time: at("2024-03-01T08:00:00Z"), MedicationName: "A"},
		schema.Medication{Date: "2024-03-01", Time: at("2024-03-01T20:00:00Z"), MedicationName: "B"},
		schema.Medication{Date: "2024-03-02", Time: at("2024-03-02T08:00:00Z"), MedicationName: "A"},
	)
	seed(t, store.sickness.Create,
		schema.SicknessEntry{Date: "2024-03-03", Symptoms: "cough"},
		schema.SicknessEntry{Date: "2024-03-04", Symptoms: "fever", HasFever: true},
	)

	summary, derr := newDashboard(store, NoopCache()).Analysis(ctx, dateRange("2024-03-01", "2024-03-15"))
	require.Nil(t, derr)
	assert.Equal(t, schema.AnalysisDateRange{Start: "2024-03-01", End: "2024-03-15", Days: 15}, summary.DateRange)

	require.NotNil(t, summary.GarminSummary)
	assert.Equal(t, 2, summary.GarminSummary.DaysWithData)
	assert.Equal(t, 6000.0, summary.GarminSummary.AvgSteps)
	assert.Equal(t, 4.0, summary.GarminSummary.AvgSleepHours)
	assert.Equal(t, 50.0, *summary.GarminSummary.AvgRestingHR)
	assert.Equal(t, 30.0, *summary.GarminSummary.AvgStress)

	assert.Equal(t, 3, summary.SeizureSummary.TotalSeizures)
	assert.InDelta(t, 1.5, summary.SeizureSummary.AvgPerWeek, 1e-9)
	assert.Equal(t, map[string]int{"mild": 2, "unknown": 1}, summary.SeizureSummary.SeverityBreakdown)

	assert.Equal(t, schema.MedicationAnalysis{TotalDoses: 3, DaysWithMedications: 2, UniqueMedications: 2}, summary.MedicationSummary)
	assert.Equal(t, schema.SicknessAnalysis{DaysSick: 2, DaysWithFever: 1}, summary.SicknessSummary)
}

func TestDashboard_AnalysisSingleDay(t *testing.T) {
	store := newTestStore()
	seed(t, store.seizures.Create, schema.Seizure{Date: "2024-03-02", Time: at("2024-03-02T03:00:00Z"), Severity: "severe"})
	summary, derr := newDashboard(store, NoopCache()).Analysis(context.Background(), dateRange("2024-03-02", "2024-03-02"))
	require.Nil(t, derr)
	assert.Nil(t, summary.GarminSummary)
	assert.Equal(t, 1, summary.DateRange.Days)
	assert.Equal(t, 0.0, summary.SeizureSummary.AvgPerWeek)
}

func TestDashboard_AIPrompt(t *testing.T) {
	prompt, derr := newDashboard(newTestStore(), NoopCache()).AIPrompt(context.Background(), dateRange("2024-03-01", "2024-03-07"))
	require.Nil(t, derr)
	assert.Contains(t, prompt.Prompt, "from 2024-03-01 to 2024-03-07")
	assert.Contains(t, prompt.Instructions, "/export endpoint")
	assert.Equal(t, 7, prompt.Summary.DateRange.Days)
}
