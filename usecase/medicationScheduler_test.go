package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdblp/health-tracker/schema"
)

func newScheduler(t *testing.T, loc *time.Location) (*testStore, *Logbook, *MedicationScheduler) {
	t.Helper()
	store := newTestStore()
	logbook := NewLogbook(store.repositories(), testLogger)
	calendar := fixedCalendar(at("2024-03-10T06:00:00Z"))
	calendar.Location = loc
	return store, logbook, NewMedicationScheduler(logbook, calendar, testLogger)
}

func addSchedule(t *testing.T, logbook *Logbook, schedule schema.MedicationSchedule) {
	t.Helper()
	_, derr := logbook.Schedules.Create(context.Background(), &schedule)
	require.Nil(t, derr)
}

func TestMedicationScheduler_CreatesDosesOnce(t *testing.T) {
	ctx := context.Background()
	store, logbook, scheduler := newScheduler(t, time.UTC)
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "Lamotrigine",
		Dosage:         "100mg",
		Quantity:       f64(1),
		Unit:           "tablet",
		ScheduleTimes:  []string{"08:00", "20:00"},
		StartDate:      "2024-03-01",
	})

	created, err := scheduler.CreateScheduledEntries(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	doses := store.medications.All()
	require.Len(t, doses, 2)
	assert.Equal(t, "2024-03-10", doses[0].Date)
	assert.True(t, at("2024-03-10T08:00:00Z").Equal(doses[0].Time))
	assert.True(t, at("2024-03-10T20:00:00Z").Equal(doses[1].Time))
	assert.Equal(t, "100mg", doses[0].Dosage)
	assert.Equal(t, 1.0, *doses[0].Quantity)
	assert.Equal(t, "tablet", doses[0].Unit)
	assert.Equal(t, scheduledMedicationNote, doses[0].Notes)
	assert.Equal(t, schema.DefaultUserID, doses[0].UserID)

	created, err = scheduler.CreateScheduledEntries(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, store.medications.Len())
}

func TestMedicationScheduler_SkipsRecordedDose(t *testing.T) {
	ctx := context.Background()
	store, logbook, scheduler := newScheduler(t, time.UTC)
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "Keppra",
		Dosage:         "500mg",
		ScheduleTimes:  []string{"09:00", "21:00"},
		StartDate:      "2024-03-01",
	})
	_, derr := logbook.Medications.Create(ctx, &schema.Medication{
		Date:           "2024-03-10",
		Time:           at("2024-03-10T09:00:00Z"),
		MedicationName: "Keppra",
		Dosage:         "500mg",
	})
	require.Nil(t, derr)

	created, err := scheduler.CreateScheduledEntries(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, store.medications.Len())
}

func TestMedicationScheduler_SkipsInapplicableSchedules(t *testing.T) {
	ctx := context.Background()
	store, logbook, scheduler := newScheduler(t, time.UTC)
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "Paused",
		ScheduleTimes:  []string{"08:00"},
		StartDate:      "2024-03-01",
		IsActive:       boolPtr(false),
	})
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "Future",
		ScheduleTimes:  []string{"08:00"},
		StartDate:      "2024-03-11",
	})
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "Ended",
		ScheduleTimes:  []string{"08:00"},
		StartDate:      "2024-02-01",
		EndDate:        "2024-03-09",
	})
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "LastDay",
		ScheduleTimes:  []string{"08:00", "25:00", "noon"},
		StartDate:      "2024-02-01",
		EndDate:        "2024-03-10",
	})

	created, err := scheduler.CreateScheduledEntries(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	doses := store.medications.All()
	require.Len(t, doses, 1)
	assert.Equal(t, "LastDay", doses[0].MedicationName)
}

func TestMedicationScheduler_LocalTimes(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	store, logbook, scheduler := newScheduler(t, paris)
	addSchedule(t, logbook, schema.MedicationSchedule{
		MedicationName: "Lamotrigine",
		ScheduleTimes:  []string{"08:00"},
		StartDate:      "2024-03-01",
	})

	created, err := scheduler.CreateScheduledEntries(context.Background(), "2024-03-10")
	require.NoError(t, err)
	require.Equal(t, 1, created)
	dose := store.medications.All()[0]
	assert.Equal(t, "2024-03-10", dose.Date)
	assert.Equal(t, at("2024-03-10T07:00:00Z"), dose.Time)
}

func TestMedicationScheduler_InvalidDay(t *testing.T) {
	_, _, scheduler := newScheduler(t, time.UTC)
	_, err := scheduler.CreateScheduledEntries(context.Background(), "10/03/2024")
	assert.Error(t, err)
}

func TestLogbook_Schedules(t *testing.T) {
	ctx := context.Background()
	_, logbook, _ := newScheduler(t, time.UTC)
	schedule := schema.MedicationSchedule{MedicationName: "B", ScheduleTimes: []string{"08:00"}, StartDate: "2024-03-01"}
	created, derr := logbook.Schedules.Create(ctx, &schedule)
	require.Nil(t, derr)
	require.NotNil(t, created.IsActive)
	assert.True(t, *created.IsActive)

	addSchedule(t, logbook, schema.MedicationSchedule{MedicationName: "A", ScheduleTimes: []string{"08:00"}, StartDate: "2024-03-01", IsActive: boolPtr(false)})

	all, derr := logbook.ListSchedules(ctx, false)
	require.Nil(t, derr)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].MedicationName)
	active, derr := logbook.ListSchedules(ctx, true)
	require.Nil(t, derr)
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].MedicationName)

	_, derr = logbook.Schedules.Create(ctx, &schema.MedicationSchedule{MedicationName: "C", ScheduleTimes: []string{"08:00"}, StartDate: "2024-03-05", EndDate: "2024-03-01"})
	require.NotNil(t, derr)
	assert.Equal(t, 400, derr.Status)

	_, derr = logbook.Schedules.Create(ctx, &schema.MedicationSchedule{MedicationName: "D", StartDate: "2024-03-05"})
	require.NotNil(t, derr)
	assert.Equal(t, 400, derr.Status)
}
