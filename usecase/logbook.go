package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

type (
	Medications  = Entries[schema.Medication, *schema.Medication]
	Schedules    = Entries[schema.MedicationSchedule, *schema.MedicationSchedule]
	Sickness     = Entries[schema.SicknessEntry, *schema.SicknessEntry]
	Seizures     = Entries[schema.Seizure, *schema.Seizure]
	HealthEvents = Entries[schema.HealthEvent, *schema.HealthEvent]
	WaterLog     = Entries[schema.WaterIntake, *schema.WaterIntake]
)

// Logbook the manually recorded entries of the user
type Logbook struct {
	Food         *FoodLog
	Catalog      *FoodCatalog
	Medications  *Medications
	Schedules    *Schedules
	Sickness     *Sickness
	Seizures     *Seizures
	HealthEvents *HealthEvents
	Notes        *Notes
	Water        *WaterLog
}

func NewLogbook(repos Repositories, logger *zap.Logger) *Logbook {
	catalog := NewFoodCatalog(repos.FoodDatabase, logger)
	return &Logbook{
		Food:         NewFoodLog(repos.Food, catalog, logger),
		Catalog:      catalog,
		Medications:  NewEntries[schema.Medication, *schema.Medication]("Medication", repos.Medications, logger),
		Schedules:    NewEntries[schema.MedicationSchedule, *schema.MedicationSchedule]("Medication schedule", repos.Schedules, logger, checkSchedule),
		Sickness:     NewEntries[schema.SicknessEntry, *schema.SicknessEntry]("Sickness entry", repos.Sickness, logger),
		Seizures:     NewEntries[schema.Seizure, *schema.Seizure]("Seizure", repos.Seizures, logger),
		HealthEvents: NewEntries[schema.HealthEvent, *schema.HealthEvent]("Health event", repos.HealthEvents, logger),
		Notes:        NewNotes(repos.Notes, logger),
		Water:        NewEntries[schema.WaterIntake, *schema.WaterIntake]("Water intake", repos.Water, logger),
	}
}

// checkSchedule new schedules are active, the validity range must be ordered
func checkSchedule(ctx context.Context, s *schema.MedicationSchedule, previous *schema.MedicationSchedule) *common.DetailedError {
	if s.IsActive == nil {
		s.IsActive = boolPtr(true)
	}
	if s.EndDate != "" && s.StartDate != "" && s.EndDate < s.StartDate {
		return ErrorInvalidParameters(fmt.Errorf("end_date %s is before start_date %s", s.EndDate, s.StartDate))
	}
	return nil
}

// MedicationsBetween doses of a date range, the name filter is a case-insensitive substring
func (l *Logbook) MedicationsBetween(ctx context.Context, dates common.Date, name string) ([]schema.Medication, *common.DetailedError) {
	q := common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("time"))
	if name != "" {
		q.Contains = map[string]string{"medication_name": name}
	}
	return l.Medications.List(ctx, q)
}

// ListSchedules sorted by medication name
func (l *Logbook) ListSchedules(ctx context.Context, activeOnly bool) ([]schema.MedicationSchedule, *common.DetailedError) {
	schedules, err := l.Schedules.List(ctx, common.EntryQuery{}.OrderBy(common.Asc("medication_name")))
	if err != nil || !activeOnly {
		return schedules, err
	}
	active := make([]schema.MedicationSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active, nil
}

func (l *Logbook) SicknessBetween(ctx context.Context, dates common.Date, hasFever *bool) ([]schema.SicknessEntry, *common.DetailedError) {
	q := common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("date"))
	if hasFever != nil {
		q = q.Where("has_fever", *hasFever)
	}
	return l.Sickness.List(ctx, q)
}

func (l *Logbook) SeizuresBetween(ctx context.Context, dates common.Date, severity string, seizureType string) ([]schema.Seizure, *common.DetailedError) {
	q := common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("time"))
	if severity != "" {
		q = q.Where("severity", severity)
	}
	if seizureType != "" {
		q = q.Where("seizure_type", seizureType)
	}
	return l.Seizures.List(ctx, q)
}

func (l *Logbook) HealthEventsBetween(ctx context.Context, dates common.Date, eventType string) ([]schema.HealthEvent, *common.DetailedError) {
	q := common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("date"), common.Desc("time"))
	if eventType != "" {
		q = q.Where("event_type", eventType)
	}
	return l.HealthEvents.List(ctx, q)
}

func (l *Logbook) WaterBetween(ctx context.Context, dates common.Date) ([]schema.WaterIntake, *common.DetailedError) {
	return l.Water.List(ctx, common.EntryQuery{Dates: &dates}.OrderBy(common.Desc("time")))
}

// WaterTotal water drunk on day, drinks logged as food are not counted
func (l *Logbook) WaterTotal(ctx context.Context, day string) (*schema.WaterDailyTotal, *common.DetailedError) {
	entries, err := l.WaterBetween(ctx, common.Date{Start: day, End: day})
	if err != nil {
		return nil, err
	}
	total := &schema.WaterDailyTotal{Date: day, EntryCount: len(entries)}
	for _, w := range entries {
		total.TotalML += w.AmountML
	}
	return total, nil
}
