package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

const scheduledMedicationNote = "Auto-created from schedule"

// MedicationScheduler expand the active schedules into medication doses
type MedicationScheduler struct {
	schedules   *Schedules
	medications *Medications
	calendar    *Calendar
	logger      *zap.Logger
}

func NewMedicationScheduler(logbook *Logbook, calendar *Calendar, logger *zap.Logger) *MedicationScheduler {
	return &MedicationScheduler{
		schedules:   logbook.Schedules,
		medications: logbook.Medications,
		calendar:    calendar,
		logger:      logger,
	}
}

func detailedErr(derr *common.DetailedError) error {
	return fmt.Errorf("%s: %s %s", derr.Code, derr.Message, derr.InternalMessage)
}

// CreateScheduledEntries create the doses of day not yet recorded, returns the number created.
// Running it twice for the same day creates nothing the second time.
func (m *MedicationScheduler) CreateScheduledEntries(ctx context.Context, day string) (int, error) {
	if _, err := common.ParseDay(day); err != nil {
		return 0, err
	}
	schedules, derr := m.schedules.List(ctx, common.EntryQuery{}.OrderBy(common.Asc("medication_name")))
	if derr != nil {
		return 0, detailedErr(derr)
	}
	created := 0
	for i := range schedules {
		schedule := &schedules[i]
		if !schedule.AppliesTo(day) {
			continue
		}
		existing, derr := m.medications.List(ctx, common.EntryQuery{Dates: &common.Date{Start: day, End: day}}.Where("medication_name", schedule.MedicationName))
		if derr != nil {
			return created, detailedErr(derr)
		}
		for _, clock := range schedule.ScheduleTimes {
			at, err := schema.AtClock(day, clock, m.calendar.Location)
			if err != nil {
				m.logger.Warn("medication_schedule_invalid_time", zap.Int64("schedule_id", schedule.ID), zap.String("time", clock), zap.Error(err))
				continue
			}
			if doseRecorded(existing, at, schedule.Dosage) {
				continue
			}
			dose := &schema.Medication{
				Date:           day,
				Time:           at.UTC(),
				MedicationName: schedule.MedicationName,
				Dosage:         schedule.Dosage,
				Quantity:       schedule.Quantity,
				Unit:           schedule.Unit,
				Notes:          scheduledMedicationNote,
			}
			if _, derr = m.medications.Create(ctx, dose); derr != nil {
				return created, detailedErr(derr)
			}
			existing = append(existing, *dose)
			created++
		}
	}
	m.logger.Info("medication_schedules_expanded", zap.String("date", day), zap.Int("created", created))
	return created, nil
}

func doseRecorded(doses []schema.Medication, at time.Time, dosage string) bool {
	for _, d := range doses {
		if d.Time.Equal(at) && d.Dosage == dosage {
			return true
		}
	}
	return false
}
