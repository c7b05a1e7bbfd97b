package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

const rangeLookbackDays = 30

// Dashboard read side: summaries across every kind of entry
type Dashboard struct {
	repos    Repositories
	cache    SummaryCache
	calendar *Calendar
	logger   *zap.Logger
}

func NewDashboard(repos Repositories, cache SummaryCache, calendar *Calendar, logger *zap.Logger) *Dashboard {
	return &Dashboard{repos: repos, cache: cache, calendar: calendar, logger: logger}
}

func ownedBetween(dates common.Date) common.EntryQuery {
	return common.EntryQuery{UserID: schema.DefaultUserID, Dates: &dates}
}

// Daily everything recorded on day, served from the cache when possible
func (d *Dashboard) Daily(ctx context.Context, day string) (*schema.DailySummary, *common.DetailedError) {
	if _, err := common.ParseDay(day); err != nil {
		return nil, errorInvalidDate.Wrap(err)
	}
	key := "daily:" + day
	var cached schema.DailySummary
	if found, err := d.cache.Get(ctx, key, &cached); err != nil {
		d.logger.Warn("summary_cache_get_failed", zap.String("key", key), zap.Error(err))
	} else if found {
		return &cached, nil
	}

	common.TimeIt(ctx, "dailySummary")
	summary, err := d.daily(ctx, day)
	common.TimeEnd(ctx, "dailySummary")
	if err != nil {
		return nil, storeError(ctx, "Daily", err)
	}
	if err = d.cache.Set(ctx, key, summary); err != nil {
		d.logger.Warn("summary_cache_set_failed", zap.String("key", key), zap.Error(err))
	}
	return summary, nil
}

func (d *Dashboard) Today(ctx context.Context) (*schema.DailySummary, *common.DetailedError) {
	return d.Daily(ctx, d.calendar.Today())
}

func (d *Dashboard) daily(ctx context.Context, day string) (*schema.DailySummary, error) {
	q := ownedBetween(common.Date{Start: day, End: day})
	byTime := q.OrderBy(common.Asc("time"))
	summary := &schema.DailySummary{Date: day}
	var err error

	if summary.GarminData, err = d.repos.GarminData.FindOne(ctx, q); err != nil {
		return nil, err
	}
	if summary.Activities, err = d.repos.Activities.Find(ctx, q.OrderBy(common.Asc("start_time"))); err != nil {
		return nil, err
	}
	if summary.FoodEntries, err = d.repos.Food.Find(ctx, byTime); err != nil {
		return nil, err
	}
	if summary.Medications, err = d.repos.Medications.Find(ctx, byTime); err != nil {
		return nil, err
	}
	if summary.SicknessEntries, err = d.repos.Sickness.Find(ctx, q); err != nil {
		return nil, err
	}
	if summary.Seizures, err = d.repos.Seizures.Find(ctx, byTime); err != nil {
		return nil, err
	}
	if summary.WaterIntake, err = d.repos.Water.Find(ctx, byTime); err != nil {
		return nil, err
	}
	if summary.HealthEvents, err = d.repos.HealthEvents.Find(ctx, byTime); err != nil {
		return nil, err
	}
	if summary.DailyNote, err = d.repos.Notes.FindOne(ctx, q); err != nil {
		return nil, err
	}

	calories, water := 0, 0
	for _, f := range summary.FoodEntries {
		if f.IsDrink {
			if f.VolumeML != nil {
				water += *f.VolumeML
			}
		} else if f.Calories != nil {
			calories += *f.Calories
		}
	}
	for _, w := range summary.WaterIntake {
		water += w.AmountML
	}
	if calories > 0 {
		summary.TotalCaloriesConsumed = intPtr(calories)
	}
	if water > 0 {
		summary.TotalWaterML = intPtr(water)
	}
	summary.MedicationCount = len(summary.Medications)
	return summary, nil
}

// Range aggregated metrics, the range defaults to the last 30 days
func (d *Dashboard) Range(ctx context.Context, start string, end string) (*schema.RangeSummary, *common.DetailedError) {
	dates, derr := d.calendar.Range(start, end, rangeLookbackDays)
	if derr != nil {
		return nil, derr
	}
	days, _ := common.DaysBetween(dates.Start, dates.End)
	summary := &schema.RangeSummary{StartDate: dates.Start, EndDate: dates.End, TotalDays: days + 1}
	q := ownedBetween(dates)

	metrics, err := d.repos.GarminData.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Range", err)
	}
	summary.DaysWithData = len(metrics)
	var steps, sleepHours []float64
	for _, m := range metrics {
		if m.Steps != nil && *m.Steps > 0 {
			steps = append(steps, float64(*m.Steps))
		}
		if m.SleepDurationSeconds != nil && *m.SleepDurationSeconds > 0 {
			sleepHours = append(sleepHours, float64(*m.SleepDurationSeconds)/3600)
		}
	}
	summary.AvgSteps = mean(steps)
	summary.AvgSleepHours = mean(sleepHours)

	seizures, err := d.repos.Seizures.Count(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Range", err)
	}
	medications, err := d.repos.Medications.Count(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Range", err)
	}
	sickness, err := d.repos.Sickness.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Range", err)
	}
	summary.TotalSeizures = int(seizures)
	summary.TotalMedications = int(medications)
	sickDays := map[string]struct{}{}
	for _, s := range sickness {
		sickDays[s.Date] = struct{}{}
	}
	summary.DaysWithSickness = len(sickDays)
	return summary, nil
}

// mean nil for an empty sample
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return float64Ptr(sum / float64(len(values)))
}

// Analysis statistics handed along an export for an external analysis
func (d *Dashboard) Analysis(ctx context.Context, dates common.Date) (*schema.AnalysisSummary, *common.DetailedError) {
	if err := dates.Validate(); err != nil {
		return nil, ErrorInvalidParameters(err)
	}
	days, _ := common.DaysBetween(dates.Start, dates.End)
	summary := &schema.AnalysisSummary{
		DateRange: schema.AnalysisDateRange{Start: dates.Start, End: dates.End, Days: days + 1},
	}
	q := ownedBetween(dates)

	metrics, err := d.repos.GarminData.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Analysis", err)
	}
	if len(metrics) > 0 {
		summary.GarminSummary = garminAnalysis(metrics)
	}

	seizures, err := d.repos.Seizures.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Analysis", err)
	}
	summary.SeizureSummary = schema.SeizureAnalysis{
		TotalSeizures:     len(seizures),
		SeverityBreakdown: map[string]int{},
	}
	if days > 0 {
		summary.SeizureSummary.AvgPerWeek = float64(len(seizures)) / (float64(days) / 7)
	}
	for _, s := range seizures {
		severity := s.Severity
		if severity == "" {
			severity = "unknown"
		}
		summary.SeizureSummary.SeverityBreakdown[severity]++
	}

	medications, err := d.repos.Medications.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Analysis", err)
	}
	medDays, medNames := map[string]struct{}{}, map[string]struct{}{}
	for _, m := range medications {
		medDays[m.Date] = struct{}{}
		medNames[m.MedicationName] = struct{}{}
	}
	summary.MedicationSummary = schema.MedicationAnalysis{
		TotalDoses:          len(medications),
		DaysWithMedications: len(medDays),
		UniqueMedications:   len(medNames),
	}

	sickness, err := d.repos.Sickness.Find(ctx, q)
	if err != nil {
		return nil, storeError(ctx, "Analysis", err)
	}
	summary.SicknessSummary.DaysSick = len(sickness)
	for _, s := range sickness {
		if s.HasFever {
			summary.SicknessSummary.DaysWithFever++
		}
	}
	return summary, nil
}

// garminAnalysis steps and sleep are averaged over every synced day,
// heart rate and stress only over the days carrying them
func garminAnalysis(metrics []schema.GarminDailyMetric) *schema.GarminAnalysis {
	n := float64(len(metrics))
	var steps, sleep float64
	var resting, stress []float64
	for _, m := range metrics {
		if m.Steps != nil {
			steps += float64(*m.Steps)
		}
		if m.SleepDurationSeconds != nil {
			sleep += float64(*m.SleepDurationSeconds) / 3600
		}
		if m.RestingHeartRate != nil && *m.RestingHeartRate > 0 {
			resting = append(resting, float64(*m.RestingHeartRate))
		}
		if m.AvgStressLevel != nil && *m.AvgStressLevel > 0 {
			stress = append(stress, float64(*m.AvgStressLevel))
		}
	}
	return &schema.GarminAnalysis{
		DaysWithData:  len(metrics),
		AvgSteps:      steps / n,
		AvgSleepHours: sleep / n,
		AvgRestingHR:  mean(resting),
		AvgStress:     mean(stress),
	}
}

const aiInstructions = "Export your data using the /export endpoint, then provide both the exported data and this prompt to an AI for analysis."

// AIPrompt a ready to paste analysis request along with the data summary
func (d *Dashboard) AIPrompt(ctx context.Context, dates common.Date) (*schema.AIPrompt, *common.DetailedError) {
	summary, derr := d.Analysis(ctx, dates)
	if derr != nil {
		return nil, derr
	}
	return &schema.AIPrompt{
		Prompt:       fmt.Sprintf(aiPromptTemplate, dates.Start, dates.End),
		Summary:      *summary,
		Instructions: aiInstructions,
	}, nil
}

const aiPromptTemplate = `I have health tracking data from %s to %s that I'd like you to analyze.
The data includes:

1. **Garmin Data**: Daily activity metrics including steps, heart rate, sleep quality, stress levels, body battery, and calories
2. **Activities/Workouts**: Exercise sessions with duration, intensity, and heart rate data
3. **Food & Drinks**: Meals and beverages consumed with timestamps and nutritional info
4. **Medications**: Medication schedule with dosage and timing
5. **Sickness**: Illness symptoms and fever tracking
6. **Seizures**: Epileptic seizure events with severity, triggers, and context
7. **Daily Notes**: Mood and energy levels with journal entries
8. **Water Intake**: Hydration tracking throughout the day
9. **Health Events**: Doctor visits, procedures, diagnoses and test results

Please analyze this data and provide insights on:

1. **Patterns & Correlations**:
   - Are there correlations between sleep quality and seizure frequency?
   - How do stress levels relate to sickness events?
   - What's the relationship between activity levels and sleep quality?

2. **Health Trends**:
   - Overall activity trends (steps, exercise)
   - Sleep patterns and quality over time
   - Heart rate and stress level trends

3. **Seizure Analysis** (if applicable):
   - Frequency and patterns
   - Potential triggers (lack of sleep, high stress, specific foods, etc.)
   - Time of day patterns
   - Correlation with medication adherence

4. **Recommendations**:
   - Areas for improvement
   - Potential warning signs to watch for
   - Lifestyle adjustments that might help

5. **Medication Adherence**:
   - Consistency in taking medications
   - Any gaps in medication schedule

Please provide specific, actionable insights based on the data.`
